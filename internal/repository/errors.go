package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by a KVStore when a key has never been written.
var ErrNotFound = errors.New("not found")

// PersistenceReadError describes a stored value that could not be decoded.
// Reads recover from it by substituting an empty collection.
type PersistenceReadError struct {
	Key string
	Err error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("reading %q: %v", e.Key, e.Err)
}

func (e *PersistenceReadError) Unwrap() error { return e.Err }
