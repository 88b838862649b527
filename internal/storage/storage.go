// Package storage provides the durable key-value boundary the board state
// persists through. One key holds one whole document; values are written
// and read as opaque blobs.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no value exists for a key.
var ErrNotFound = errors.New("not found")

// KV is a synchronous key-value store.
type KV interface {
	// Get returns the value stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores value at key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Close releases underlying resources.
	Close() error
}
