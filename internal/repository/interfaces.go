package repository

import "context"

// KVStore is the generic key-value contract the tracker persists through.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// StateStore loads and saves the complete tracker state.
type StateStore interface {
	Load(ctx context.Context) (Snapshot, LoadReport, error)
	Save(ctx context.Context, snap Snapshot) error
}
