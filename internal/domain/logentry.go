package domain

import "time"

// HMS is a duration split into whole hours, minutes and seconds.
type HMS struct {
	Hours   int
	Minutes int
	Seconds int
}

// SplitDuration truncates d to whole seconds and decomposes it.
// Fractional seconds are dropped, never rounded.
func SplitDuration(d time.Duration) HMS {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return HMS{
		Hours:   total / 3600,
		Minutes: (total / 60) % 60,
		Seconds: total % 60,
	}
}

// TotalSeconds recombines the parts.
func (h HMS) TotalSeconds() int {
	return h.Hours*3600 + h.Minutes*60 + h.Seconds
}

// In expresses h as a quantity of the given unit.
func (h HMS) In(u TimeUnit) float64 {
	switch u {
	case UnitHours:
		return float64(h.Hours) + float64(h.Minutes)/60 + float64(h.Seconds)/3600
	case UnitSeconds:
		return float64(h.TotalSeconds())
	default:
		return float64(h.Hours*60+h.Minutes) + float64(h.Seconds)/60
	}
}

// LogEntry is the immutable record of a finished session.
type LogEntry struct {
	ID        int64
	Date      string
	StartTime string
	EndTime   string
	Worker    string
	Task      string
	Memo      string

	Duration    HMS
	HoldingTime HMS
	Status      LogStatus

	StartedAt     time.Time
	FinishedAt    time.Time
	ActiveMillis  int64
	HoldingMillis int64
}

// Layouts controls how a log entry snapshots its date and times.
type Layouts struct {
	Date string
	Time string
}

// DefaultLayouts mirrors the year/month/day and 24h clock a log has always used.
var DefaultLayouts = Layouts{Date: "2006/1/2", Time: "15:04:05"}

// Finish closes the session at now and builds its log entry. The session
// itself is left untouched; callers remove it from the live set.
func (s *Session) Finish(now time.Time, layouts Layouts) LogEntry {
	final := s.ElapsedAt(now)
	total := clampDelta(now.Sub(s.InitialStartTime))
	holding := total - final
	if holding < 0 {
		holding = 0
	}

	return LogEntry{
		ID:            s.ID,
		Date:          s.InitialStartTime.Format(layouts.Date),
		StartTime:     s.InitialStartTime.Format(layouts.Time),
		EndTime:       now.Format(layouts.Time),
		Worker:        s.Worker,
		Task:          s.Task,
		Memo:          s.Memo,
		Duration:      SplitDuration(final),
		HoldingTime:   SplitDuration(holding),
		Status:        LogCompleted,
		StartedAt:     s.InitialStartTime,
		FinishedAt:    now,
		ActiveMillis:  final.Milliseconds(),
		HoldingMillis: holding.Milliseconds(),
	}
}
