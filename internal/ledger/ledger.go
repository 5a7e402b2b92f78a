// Package ledger holds the session lifecycle engine: the set of live
// sessions and the history of finished ones.
//
// A Ledger is a pure state machine. Every operation takes the instant it
// should be evaluated at and either applies completely or leaves the state
// as it was. It does no I/O and no locking; it is owned by a single
// controller that serialises access.
//
// Many sessions may be active at once. Starting or resuming a session never
// affects any other session.
package ledger

import (
	"slices"
	"sort"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

// State is a complete, independent copy of the ledger contents.
type State struct {
	Sessions []domain.Session
	Logs     []domain.LogEntry
}

// Clone returns a deep copy of st.
func (st State) Clone() State {
	return State{
		Sessions: cloneOrEmpty(st.Sessions),
		Logs:     cloneOrEmpty(st.Logs),
	}
}

func cloneOrEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}

// Ledger tracks live sessions (in creation order) and finished log entries
// (most recent first).
type Ledger struct {
	sessions []domain.Session
	logs     []domain.LogEntry
	layouts  domain.Layouts
	lastID   int64
}

// New returns an empty ledger that formats log snapshots with layouts.
func New(layouts domain.Layouts) *Ledger {
	if layouts.Date == "" || layouts.Time == "" {
		layouts = domain.DefaultLayouts
	}
	return &Ledger{layouts: layouts}
}

// Restore replaces the whole state with a copy of st.
func (l *Ledger) Restore(st State) {
	st = st.Clone()
	l.sessions = st.Sessions
	l.logs = st.Logs
	l.lastID = 0
	for _, s := range l.sessions {
		l.lastID = max(l.lastID, s.ID)
	}
	for _, e := range l.logs {
		l.lastID = max(l.lastID, e.ID)
	}
}

// State returns a deep copy of the current contents.
func (l *Ledger) State() State {
	return State{Sessions: l.sessions, Logs: l.logs}.Clone()
}

// nextID derives an ID from the creation instant, bumped past every ID
// already issued so IDs stay unique and increasing.
func (l *Ledger) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

func (l *Ledger) indexOf(id int64) int {
	return slices.IndexFunc(l.sessions, func(s domain.Session) bool { return s.ID == id })
}

// Start creates a new active session. Blank worker or task yields a
// *domain.ValidationError and no change.
func (l *Ledger) Start(worker, task, memo string, now time.Time) (domain.Session, error) {
	s, err := domain.NewSession(0, worker, task, memo, now)
	if err != nil {
		return domain.Session{}, err
	}
	s.ID = l.nextID(now)
	l.sessions = append(l.sessions, *s)
	return *s, nil
}

// Hold pauses an active session. False when the session is missing or
// already holding.
func (l *Ledger) Hold(id int64, now time.Time) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	return l.sessions[i].Hold(now)
}

// Resume restarts a holding session. False when the session is missing or
// already active.
func (l *Ledger) Resume(id int64, now time.Time) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	return l.sessions[i].Resume(now)
}

// Finish closes a session, removes it from the live set and prepends its
// log entry. False when the session is missing.
func (l *Ledger) Finish(id int64, now time.Time) (domain.LogEntry, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return domain.LogEntry{}, false
	}
	entry := l.sessions[i].Finish(now, l.layouts)
	l.sessions = slices.Delete(l.sessions, i, i+1)
	l.logs = slices.Insert(l.logs, 0, entry)
	return entry, true
}

// UpdateMemo replaces the memo of a live session.
func (l *Ledger) UpdateMemo(id int64, memo string) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	if l.sessions[i].Memo == memo {
		return false
	}
	l.sessions[i].Memo = memo
	return true
}

// DeleteSession drops a live session without logging it.
func (l *Ledger) DeleteSession(id int64) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.sessions = slices.Delete(l.sessions, i, i+1)
	return true
}

// DeleteLog removes one log entry.
func (l *Ledger) DeleteLog(id int64) bool {
	i := slices.IndexFunc(l.logs, func(e domain.LogEntry) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	l.logs = slices.Delete(l.logs, i, i+1)
	return true
}

// ClearLogs removes every log entry. False when there was nothing to clear.
func (l *Ledger) ClearLogs() bool {
	if len(l.logs) == 0 {
		return false
	}
	l.logs = nil
	return true
}

// Session returns a copy of the live session with the given ID.
func (l *Ledger) Session(id int64) (domain.Session, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return domain.Session{}, false
	}
	return l.sessions[i], true
}

// Log returns a copy of the log entry with the given ID.
func (l *Ledger) Log(id int64) (domain.LogEntry, bool) {
	for _, e := range l.logs {
		if e.ID == id {
			return e, true
		}
	}
	return domain.LogEntry{}, false
}

// Sessions returns every live session in creation order.
func (l *Ledger) Sessions() []domain.Session {
	return cloneOrEmpty(l.sessions)
}

// Active returns the sessions currently accumulating time.
func (l *Ledger) Active() []domain.Session {
	return l.filter(domain.SessionActive)
}

// Holding returns the paused sessions. With sortByElapsed the longest
// worked session comes first; ties keep creation order.
func (l *Ledger) Holding(sortByElapsed bool) []domain.Session {
	out := l.filter(domain.SessionHolding)
	if sortByElapsed {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].TotalElapsed > out[j].TotalElapsed
		})
	}
	return out
}

// Logs returns the history, most recent first.
func (l *Ledger) Logs() []domain.LogEntry {
	return cloneOrEmpty(l.logs)
}

func (l *Ledger) filter(status domain.SessionStatus) []domain.Session {
	out := []domain.Session{}
	for _, s := range l.sessions {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out
}
