package testutil

import (
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

// Epoch is the fixed instant fixtures are built around.
var Epoch = time.Date(2025, 6, 15, 10, 0, 0, 0, time.Local)

// Session options
type SessionOption func(*domain.Session)

func WithMemo(m string) SessionOption {
	return func(s *domain.Session) {
		s.Memo = m
	}
}

func WithStartedAt(t time.Time) SessionOption {
	return func(s *domain.Session) {
		s.InitialStartTime = t
		s.CurrentStartTime = t
	}
}

// WithHeld marks the session holding with the given accumulated time.
func WithHeld(elapsed time.Duration) SessionOption {
	return func(s *domain.Session) {
		s.Status = domain.SessionHolding
		s.TotalElapsed = elapsed
	}
}

func NewTestSession(id int64, worker, task string, opts ...SessionOption) domain.Session {
	s := domain.Session{
		ID:               id,
		Worker:           worker,
		Task:             task,
		InitialStartTime: Epoch,
		CurrentStartTime: Epoch,
		Status:           domain.SessionActive,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Log options
type LogOption func(*domain.LogEntry)

func WithLogMemo(m string) LogOption {
	return func(e *domain.LogEntry) {
		e.Memo = m
	}
}

func WithHolding(d time.Duration) LogOption {
	return func(e *domain.LogEntry) {
		e.HoldingTime = domain.SplitDuration(d)
		e.HoldingMillis = d.Milliseconds()
	}
}

// NewTestLog builds a completed entry that ran for active from Epoch.
func NewTestLog(id int64, worker, task string, active time.Duration, opts ...LogOption) domain.LogEntry {
	end := Epoch.Add(active)
	e := domain.LogEntry{
		ID:           id,
		Date:         Epoch.Format(domain.DefaultLayouts.Date),
		StartTime:    Epoch.Format(domain.DefaultLayouts.Time),
		EndTime:      end.Format(domain.DefaultLayouts.Time),
		Worker:       worker,
		Task:         task,
		Duration:     domain.SplitDuration(active),
		Status:       domain.LogCompleted,
		StartedAt:    Epoch,
		FinishedAt:   end,
		ActiveMillis: active.Milliseconds(),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}
