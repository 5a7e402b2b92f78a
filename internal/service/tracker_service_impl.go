package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/ledger"
	"github.com/alexanderramin/worklog/internal/repository"
	"github.com/google/uuid"
)

// Options tune a tracker service. The zero value is usable.
type Options struct {
	Clock   Clock
	Layouts domain.Layouts
	// StrictCatalog rejects worker and task names that are not registered.
	// Otherwise Start registers them.
	StrictCatalog bool
	// Logger receives persistence warnings.
	Logger *slog.Logger
}

type trackerService struct {
	mu      sync.Mutex
	ledger  *ledger.Ledger
	workers domain.Catalog
	tasks   domain.Catalog

	store    repository.StateStore
	clock    Clock
	strict   bool
	logger   *slog.Logger
	observer UseCaseObserver

	subMu  sync.Mutex
	subs   map[int]chan struct{}
	nextID int
}

// Tracker is the concrete service; it satisfies both TrackerService and
// CatalogService.
type Tracker interface {
	TrackerService
	CatalogService
}

// NewTrackerService loads the persisted state and returns a service owning
// it. Unreadable keys are logged, reported and replaced with empty data.
func NewTrackerService(
	ctx context.Context,
	store repository.StateStore,
	opts Options,
	observers ...UseCaseObserver,
) (Tracker, repository.LoadReport, error) {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	snap, report, err := store.Load(ctx)
	if err != nil {
		return nil, report, err
	}
	for _, rerr := range report.Errors {
		opts.Logger.WarnContext(ctx, "discarding unreadable state", "key", rerr.Key, "error", rerr.Err)
	}

	l := ledger.New(opts.Layouts)
	l.Restore(snap.Ledger)

	return &trackerService{
		ledger:   l,
		workers:  snap.Workers.Clone(),
		tasks:    snap.Tasks.Clone(),
		store:    store,
		clock:    opts.Clock,
		strict:   opts.StrictCatalog,
		logger:   opts.Logger,
		observer: useCaseObserverOrNoop(observers),
		subs:     make(map[int]chan struct{}),
	}, report, nil
}

// mutate runs fn under the lock with a single clock reading. When fn
// reports a change the new state is saved; a failed save restores the
// state fn started from.
func (s *trackerService) mutate(ctx context.Context, name string, fields map[string]any, fn func(now time.Time) (bool, error)) (changed bool, err error) {
	startedAt := time.Now()
	opID := uuid.NewString()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			OpID:      opID,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Changed:   changed,
			Err:       err,
			Fields:    fields,
		})
	}()

	s.mu.Lock()
	before := s.snapshotLocked()
	changed, err = fn(s.clock.Now())
	if err != nil || !changed {
		s.mu.Unlock()
		return false, err
	}
	if saveErr := s.store.Save(ctx, s.snapshotLocked()); saveErr != nil {
		s.restoreLocked(before)
		s.mu.Unlock()
		s.logger.ErrorContext(ctx, "state not saved, change reverted", "use_case", name, "op_id", opID, "error", saveErr)
		return false, fmt.Errorf("saving state: %w", saveErr)
	}
	s.mu.Unlock()

	s.notify()
	return true, nil
}

func (s *trackerService) snapshotLocked() repository.Snapshot {
	return repository.Snapshot{
		Ledger:  s.ledger.State(),
		Workers: s.workers.Clone(),
		Tasks:   s.tasks.Clone(),
	}
}

func (s *trackerService) restoreLocked(snap repository.Snapshot) {
	s.ledger.Restore(snap.Ledger)
	s.workers = snap.Workers
	s.tasks = snap.Tasks
}

func (s *trackerService) Start(ctx context.Context, worker, task, memo string) (domain.Session, error) {
	var started domain.Session
	fields := map[string]any{"worker": worker, "task": task}
	_, err := s.mutate(ctx, "start", fields, func(now time.Time) (bool, error) {
		if err := s.checkCatalogLocked(worker, task); err != nil {
			return false, err
		}
		sess, err := s.ledger.Start(worker, task, memo, now)
		if err != nil {
			return false, err
		}
		if !s.strict {
			s.workers.Add(sess.Worker)
			s.tasks.Add(sess.Task)
		}
		started = sess
		fields["id"] = sess.ID
		return true, nil
	})
	if err != nil {
		return domain.Session{}, err
	}
	return started, nil
}

func (s *trackerService) checkCatalogLocked(worker, task string) error {
	if !s.strict {
		return nil
	}
	if w := strings.TrimSpace(worker); w != "" && !s.workers.Contains(w) {
		return &domain.ValidationError{Field: "worker", Msg: fmt.Sprintf("%q is not a registered worker", w)}
	}
	if t := strings.TrimSpace(task); t != "" && !s.tasks.Contains(t) {
		return &domain.ValidationError{Field: "task", Msg: fmt.Sprintf("%q is not a registered task", t)}
	}
	return nil
}

func (s *trackerService) Hold(ctx context.Context, id int64) (bool, error) {
	return s.mutate(ctx, "hold", map[string]any{"id": id}, func(now time.Time) (bool, error) {
		return s.ledger.Hold(id, now), nil
	})
}

func (s *trackerService) Resume(ctx context.Context, id int64) (bool, error) {
	return s.mutate(ctx, "resume", map[string]any{"id": id}, func(now time.Time) (bool, error) {
		return s.ledger.Resume(id, now), nil
	})
}

func (s *trackerService) Finish(ctx context.Context, id int64) (domain.LogEntry, bool, error) {
	var entry domain.LogEntry
	fields := map[string]any{"id": id}
	changed, err := s.mutate(ctx, "finish", fields, func(now time.Time) (bool, error) {
		var ok bool
		entry, ok = s.ledger.Finish(id, now)
		if ok {
			fields["active_ms"] = entry.ActiveMillis
			fields["holding_ms"] = entry.HoldingMillis
		}
		return ok, nil
	})
	if err != nil || !changed {
		return domain.LogEntry{}, false, err
	}
	return entry, true, nil
}

func (s *trackerService) UpdateMemo(ctx context.Context, id int64, memo string) (bool, error) {
	return s.mutate(ctx, "update-memo", map[string]any{"id": id}, func(time.Time) (bool, error) {
		return s.ledger.UpdateMemo(id, memo), nil
	})
}

func (s *trackerService) DeleteSession(ctx context.Context, id int64) (bool, error) {
	return s.mutate(ctx, "delete-session", map[string]any{"id": id}, func(time.Time) (bool, error) {
		return s.ledger.DeleteSession(id), nil
	})
}

func (s *trackerService) DeleteLog(ctx context.Context, id int64) (bool, error) {
	return s.mutate(ctx, "delete-log", map[string]any{"id": id}, func(time.Time) (bool, error) {
		return s.ledger.DeleteLog(id), nil
	})
}

func (s *trackerService) ClearLogs(ctx context.Context) (bool, error) {
	fields := map[string]any{}
	return s.mutate(ctx, "clear-logs", fields, func(time.Time) (bool, error) {
		fields["count"] = len(s.ledger.Logs())
		return s.ledger.ClearLogs(), nil
	})
}

func (s *trackerService) Session(id int64) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Session(id)
}

func (s *trackerService) Log(id int64) (domain.LogEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Log(id)
}

func (s *trackerService) Sessions() []domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Sessions()
}

func (s *trackerService) Active() []domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Active()
}

func (s *trackerService) Holding(sortByElapsed bool) []domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Holding(sortByElapsed)
}

func (s *trackerService) Logs() []domain.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Logs()
}

func (s *trackerService) Now() time.Time {
	return s.clock.Now()
}

// Subscribe returns a channel that receives a signal after every applied
// change. Signals coalesce; a slow reader sees at most one pending. The
// returned func unsubscribes and closes the channel.
func (s *trackerService) Subscribe() (<-chan struct{}, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			close(ch)
			s.subMu.Unlock()
		})
	}
}

func (s *trackerService) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
