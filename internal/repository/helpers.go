package repository

import (
	"time"
)

// isoMillis is ISO-8601 with millisecond precision and the local offset.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func formatInstant(t time.Time) string {
	return t.Format(isoMillis)
}

// parseInstant accepts any RFC 3339 timestamp and returns it in local time.
func parseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Local(), nil
}

// nowUTC returns the current UTC time formatted for the updated_at column.
func nowUTC() string {
	return time.Now().UTC().Format(isoMillis)
}

func msDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
