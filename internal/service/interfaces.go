package service

import (
	"context"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

// Clock supplies the instant a command is evaluated at.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// TrackerService is the single owner of the session ledger and the worker
// and task catalogs. Every mutation is persisted before it returns; the
// bool results report whether anything changed.
type TrackerService interface {
	Start(ctx context.Context, worker, task, memo string) (domain.Session, error)
	Hold(ctx context.Context, id int64) (bool, error)
	Resume(ctx context.Context, id int64) (bool, error)
	Finish(ctx context.Context, id int64) (domain.LogEntry, bool, error)
	UpdateMemo(ctx context.Context, id int64, memo string) (bool, error)
	DeleteSession(ctx context.Context, id int64) (bool, error)
	DeleteLog(ctx context.Context, id int64) (bool, error)
	ClearLogs(ctx context.Context) (bool, error)

	Session(id int64) (domain.Session, bool)
	Log(id int64) (domain.LogEntry, bool)
	Sessions() []domain.Session
	Active() []domain.Session
	Holding(sortByElapsed bool) []domain.Session
	Logs() []domain.LogEntry
	Now() time.Time

	Subscribe() (<-chan struct{}, func())
}

// CatalogService manages the worker and task names offered when starting.
type CatalogService interface {
	Workers() domain.Catalog
	Tasks() domain.Catalog
	AddWorker(ctx context.Context, name string) (bool, error)
	RemoveWorker(ctx context.Context, name string) (bool, error)
	AddTask(ctx context.Context, name string) (bool, error)
	RemoveTask(ctx context.Context, name string) (bool, error)
}
