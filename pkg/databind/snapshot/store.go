// Package snapshot captures bound model values and persists them, so UI
// state such as form contents survives a restart.
package snapshot

import (
	"errors"
	"time"
)

// Store persists encoded snapshots.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a snapshot under (scope, name), overwriting any previous one.
	Save(scope, name string, data []byte) error

	// Load retrieves a snapshot.
	// Returns ErrNotFound if it doesn't exist.
	Load(scope, name string) ([]byte, error)

	// List returns all snapshots in a scope, ordered by sequence.
	// Returns an empty slice (not error) for an unknown scope.
	List(scope string) ([]Info, error)

	// Delete removes one snapshot. Missing snapshots are not an error.
	Delete(scope, name string) error

	// DeleteScope removes every snapshot in a scope.
	DeleteScope(scope string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the snapshot.
type Info struct {
	Scope     string
	Name      string
	Sequence  int
	Timestamp time.Time
	Size      int64
}

// Sentinel errors for snapshot operations.
var (
	// ErrNotFound indicates a snapshot doesn't exist.
	ErrNotFound = errors.New("snapshot not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("snapshot store closed")

	// ErrVersionMismatch indicates a snapshot written by an incompatible version.
	ErrVersionMismatch = errors.New("snapshot version mismatch")
)
