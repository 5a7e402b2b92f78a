package repository

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/worklog/internal/domain"
)

// Stored shapes. Instants are ISO-8601 strings and durations are integer
// milliseconds so the values stay readable in the kv table.

type sessionRecord struct {
	ID               int64  `json:"id"`
	Worker           string `json:"worker"`
	Task             string `json:"task"`
	Memo             string `json:"memo"`
	InitialStartTime string `json:"initialStartTime"`
	CurrentStartTime string `json:"currentStartTime"`
	TotalElapsedMs   int64  `json:"totalElapsedTime"`
	Status           string `json:"status"`
}

type hmsRecord struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

type logRecord struct {
	ID            int64     `json:"id"`
	Date          string    `json:"date"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	Worker        string    `json:"worker"`
	Task          string    `json:"task"`
	Memo          string    `json:"memo"`
	Duration      hmsRecord `json:"duration"`
	HoldingTime   hmsRecord `json:"holdingTime"`
	Status        string    `json:"status"`
	StartedAt     string    `json:"startedAt,omitempty"`
	FinishedAt    string    `json:"finishedAt,omitempty"`
	ActiveMillis  int64     `json:"activeMillis"`
	HoldingMillis int64     `json:"holdingMillis"`
}

// EncodeSessions serialises live sessions.
func EncodeSessions(sessions []domain.Session) (string, error) {
	recs := make([]sessionRecord, 0, len(sessions))
	for _, s := range sessions {
		recs = append(recs, sessionRecord{
			ID:               s.ID,
			Worker:           s.Worker,
			Task:             s.Task,
			Memo:             s.Memo,
			InitialStartTime: formatInstant(s.InitialStartTime),
			CurrentStartTime: formatInstant(s.CurrentStartTime),
			TotalElapsedMs:   s.TotalElapsed.Milliseconds(),
			Status:           string(s.Status),
		})
	}
	b, err := json.Marshal(recs)
	if err != nil {
		return "", fmt.Errorf("encoding sessions: %w", err)
	}
	return string(b), nil
}

// DecodeSessions parses and validates stored sessions. Any invalid record
// rejects the whole value.
func DecodeSessions(raw string) ([]domain.Session, error) {
	var recs []sessionRecord
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		return nil, fmt.Errorf("decoding sessions: %w", err)
	}

	out := make([]domain.Session, 0, len(recs))
	seen := make(map[int64]bool, len(recs))
	for i, r := range recs {
		if r.ID <= 0 || seen[r.ID] {
			return nil, fmt.Errorf("session %d: missing or duplicate id %d", i, r.ID)
		}
		seen[r.ID] = true
		if r.Worker == "" || r.Task == "" {
			return nil, fmt.Errorf("session %d: worker and task are required", r.ID)
		}
		status := domain.SessionStatus(r.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("session %d: unknown status %q", r.ID, r.Status)
		}
		if r.TotalElapsedMs < 0 {
			return nil, fmt.Errorf("session %d: negative elapsed time", r.ID)
		}
		initial, err := parseInstant(r.InitialStartTime)
		if err != nil {
			return nil, fmt.Errorf("session %d: initialStartTime: %w", r.ID, err)
		}
		current, err := parseInstant(r.CurrentStartTime)
		if err != nil {
			return nil, fmt.Errorf("session %d: currentStartTime: %w", r.ID, err)
		}
		out = append(out, domain.Session{
			ID:               r.ID,
			Worker:           r.Worker,
			Task:             r.Task,
			Memo:             r.Memo,
			InitialStartTime: initial,
			CurrentStartTime: current,
			TotalElapsed:     msDuration(r.TotalElapsedMs),
			Status:           status,
		})
	}
	return out, nil
}

// EncodeLogs serialises log entries, preserving their order.
func EncodeLogs(logs []domain.LogEntry) (string, error) {
	recs := make([]logRecord, 0, len(logs))
	for _, e := range logs {
		rec := logRecord{
			ID:            e.ID,
			Date:          e.Date,
			StartTime:     e.StartTime,
			EndTime:       e.EndTime,
			Worker:        e.Worker,
			Task:          e.Task,
			Memo:          e.Memo,
			Duration:      hmsRecord(e.Duration),
			HoldingTime:   hmsRecord(e.HoldingTime),
			Status:        string(e.Status),
			ActiveMillis:  e.ActiveMillis,
			HoldingMillis: e.HoldingMillis,
		}
		if !e.StartedAt.IsZero() {
			rec.StartedAt = formatInstant(e.StartedAt)
		}
		if !e.FinishedAt.IsZero() {
			rec.FinishedAt = formatInstant(e.FinishedAt)
		}
		recs = append(recs, rec)
	}
	b, err := json.Marshal(recs)
	if err != nil {
		return "", fmt.Errorf("encoding logs: %w", err)
	}
	return string(b), nil
}

// DecodeLogs parses stored log entries. The raw instants are optional so
// entries written without them still load.
func DecodeLogs(raw string) ([]domain.LogEntry, error) {
	var recs []logRecord
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		return nil, fmt.Errorf("decoding logs: %w", err)
	}

	out := make([]domain.LogEntry, 0, len(recs))
	for i, r := range recs {
		if r.ID <= 0 {
			return nil, fmt.Errorf("log %d: missing id", i)
		}
		e := domain.LogEntry{
			ID:            r.ID,
			Date:          r.Date,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			Worker:        r.Worker,
			Task:          r.Task,
			Memo:          r.Memo,
			Duration:      domain.HMS(r.Duration),
			HoldingTime:   domain.HMS(r.HoldingTime),
			Status:        domain.LogStatus(domain.CoalesceStr(r.Status, string(domain.LogCompleted))),
			ActiveMillis:  r.ActiveMillis,
			HoldingMillis: r.HoldingMillis,
		}
		var err error
		if r.StartedAt != "" {
			if e.StartedAt, err = parseInstant(r.StartedAt); err != nil {
				return nil, fmt.Errorf("log %d: startedAt: %w", r.ID, err)
			}
		}
		if r.FinishedAt != "" {
			if e.FinishedAt, err = parseInstant(r.FinishedAt); err != nil {
				return nil, fmt.Errorf("log %d: finishedAt: %w", r.ID, err)
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// EncodeCatalog serialises a worker or task list.
func EncodeCatalog(c domain.Catalog) (string, error) {
	b, err := json.Marshal(c.Clone())
	if err != nil {
		return "", fmt.Errorf("encoding catalog: %w", err)
	}
	return string(b), nil
}

// DecodeCatalog parses a stored list, dropping blanks and duplicates.
func DecodeCatalog(raw string) (domain.Catalog, error) {
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	c := domain.Catalog{}
	for _, n := range names {
		c.Add(n)
	}
	return c, nil
}
