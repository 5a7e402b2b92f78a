package domain

import "fmt"

type SessionStatus string

const (
	SessionActive  SessionStatus = "active"
	SessionHolding SessionStatus = "holding"
)

// Valid reports whether s is one of the known session states.
func (s SessionStatus) Valid() bool {
	return s == SessionActive || s == SessionHolding
}

type LogStatus string

// LogCompleted is the only status a log entry ever carries.
const LogCompleted LogStatus = "completed"

// TimeUnit selects how durations are presented. It never affects storage.
type TimeUnit string

const (
	UnitHours   TimeUnit = "hours"
	UnitMinutes TimeUnit = "minutes"
	UnitSeconds TimeUnit = "seconds"
)

// ValidTimeUnits is the canonical set of accepted unit strings.
var ValidTimeUnits = map[string]bool{
	"hours": true, "minutes": true, "seconds": true,
}

// ParseTimeUnit accepts the full unit name or its first letter.
func ParseTimeUnit(s string) (TimeUnit, error) {
	switch s {
	case "hours", "h":
		return UnitHours, nil
	case "minutes", "m", "":
		return UnitMinutes, nil
	case "seconds", "s":
		return UnitSeconds, nil
	}
	return "", fmt.Errorf("unknown time unit %q (want hours, minutes or seconds)", s)
}

// Next cycles hours -> minutes -> seconds -> hours.
func (u TimeUnit) Next() TimeUnit {
	switch u {
	case UnitHours:
		return UnitMinutes
	case UnitMinutes:
		return UnitSeconds
	default:
		return UnitHours
	}
}
