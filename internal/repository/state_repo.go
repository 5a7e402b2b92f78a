package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/worklog/internal/db"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/ledger"
)

// Keys under which the tracker state is stored.
const (
	KeySessions = "sessions"
	KeyLogs     = "logs"
	KeyWorkers  = "workers"
	KeyTasks    = "tasks"
)

// Snapshot is everything the tracker persists.
type Snapshot struct {
	Ledger  ledger.State
	Workers domain.Catalog
	Tasks   domain.Catalog
}

// LoadReport lists the keys that were present but unreadable. Each of them
// was replaced by an empty collection.
type LoadReport struct {
	Errors []*PersistenceReadError
}

// OK reports whether every key loaded cleanly.
func (r LoadReport) OK() bool { return len(r.Errors) == 0 }

// StateRepo stores a Snapshot as one JSON value per key.
type StateRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

func NewStateRepo(database db.DBTX, uow db.UnitOfWork) *StateRepo {
	return &StateRepo{db: database, uow: uow}
}

// Load reads all keys. A missing key is an empty collection. A corrupt key
// is reported and treated as empty; only store-level failures return an
// error.
func (r *StateRepo) Load(ctx context.Context) (Snapshot, LoadReport, error) {
	kv := NewSQLiteKVStore(r.db)
	var report LoadReport

	snap := Snapshot{
		Ledger:  ledger.State{Sessions: []domain.Session{}, Logs: []domain.LogEntry{}},
		Workers: domain.Catalog{},
		Tasks:   domain.Catalog{},
	}

	read := func(key string, decode func(string) error) error {
		raw, err := kv.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := decode(raw); err != nil {
			report.Errors = append(report.Errors, &PersistenceReadError{Key: key, Err: err})
		}
		return nil
	}

	steps := []struct {
		key    string
		decode func(string) error
	}{
		{KeySessions, func(raw string) error {
			v, err := DecodeSessions(raw)
			if err == nil {
				snap.Ledger.Sessions = v
			}
			return err
		}},
		{KeyLogs, func(raw string) error {
			v, err := DecodeLogs(raw)
			if err == nil {
				snap.Ledger.Logs = v
			}
			return err
		}},
		{KeyWorkers, func(raw string) error {
			v, err := DecodeCatalog(raw)
			if err == nil {
				snap.Workers = v
			}
			return err
		}},
		{KeyTasks, func(raw string) error {
			v, err := DecodeCatalog(raw)
			if err == nil {
				snap.Tasks = v
			}
			return err
		}},
	}
	for _, s := range steps {
		if err := read(s.key, s.decode); err != nil {
			return Snapshot{}, LoadReport{}, fmt.Errorf("loading state: %w", err)
		}
	}
	return snap, report, nil
}

// Save writes every key in one transaction.
func (r *StateRepo) Save(ctx context.Context, snap Snapshot) error {
	sessions, err := EncodeSessions(snap.Ledger.Sessions)
	if err != nil {
		return err
	}
	logs, err := EncodeLogs(snap.Ledger.Logs)
	if err != nil {
		return err
	}
	workers, err := EncodeCatalog(snap.Workers)
	if err != nil {
		return err
	}
	tasks, err := EncodeCatalog(snap.Tasks)
	if err != nil {
		return err
	}

	values := []struct{ key, value string }{
		{KeySessions, sessions},
		{KeyLogs, logs},
		{KeyWorkers, workers},
		{KeyTasks, tasks},
	}
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		kv := NewSQLiteKVStore(tx)
		for _, v := range values {
			if err := kv.Put(ctx, v.key, v.value); err != nil {
				return err
			}
		}
		return nil
	})
}
