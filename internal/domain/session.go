package domain

import (
	"strings"
	"time"
)

// Session is one unit of in-progress or paused work.
//
// TotalElapsed holds the active time accumulated up to the last hold. While
// the session is active, the time since CurrentStartTime is still pending
// and is not part of TotalElapsed.
type Session struct {
	ID               int64
	Worker           string
	Task             string
	Memo             string
	InitialStartTime time.Time
	CurrentStartTime time.Time
	TotalElapsed     time.Duration
	Status           SessionStatus
}

// NewSession validates worker and task and returns an active session
// started at now.
func NewSession(id int64, worker, task, memo string, now time.Time) (*Session, error) {
	worker = strings.TrimSpace(worker)
	task = strings.TrimSpace(task)
	if worker == "" {
		return nil, &ValidationError{Field: "worker", Msg: "a worker must be selected"}
	}
	if task == "" {
		return nil, &ValidationError{Field: "task", Msg: "a task must be selected"}
	}
	return &Session{
		ID:               id,
		Worker:           worker,
		Task:             task,
		Memo:             memo,
		InitialStartTime: now,
		CurrentStartTime: now,
		Status:           SessionActive,
	}, nil
}

func (s *Session) IsActive() bool  { return s.Status == SessionActive }
func (s *Session) IsHolding() bool { return s.Status == SessionHolding }

// PendingElapsed is the active time not yet folded into TotalElapsed.
// It is zero for a holding session and never negative.
func (s *Session) PendingElapsed(now time.Time) time.Duration {
	if !s.IsActive() {
		return 0
	}
	return clampDelta(now.Sub(s.CurrentStartTime))
}

// ElapsedAt is the total active time as of now.
func (s *Session) ElapsedAt(now time.Time) time.Duration {
	return s.TotalElapsed + s.PendingElapsed(now)
}

// Hold folds the pending interval into TotalElapsed and pauses the session.
// Returns false when the session is already holding.
func (s *Session) Hold(now time.Time) bool {
	if !s.IsActive() {
		return false
	}
	s.TotalElapsed += s.PendingElapsed(now)
	s.Status = SessionHolding
	return true
}

// Resume restarts the clock on a holding session.
// Returns false when the session is already active.
func (s *Session) Resume(now time.Time) bool {
	if !s.IsHolding() {
		return false
	}
	s.CurrentStartTime = now
	s.Status = SessionActive
	return true
}

// clampDelta keeps a backwards-moving wall clock from shrinking totals.
func clampDelta(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d.Truncate(time.Millisecond)
}
