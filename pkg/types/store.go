package types

import (
	"context"
	"errors"
)

// KeyValue is the storage engine under the record store: an opaque store of
// byte values addressed by string keys.
type KeyValue interface {
	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if nothing has been stored yet.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases engine resources. Idempotent.
	Close() error
}

// RecordStore holds the ordered collection of saved candles and mirrors every
// mutation to persistent storage.
type RecordStore interface {
	// Create appends a new record built from name and details.
	// Returns ErrEmptyName if the trimmed name is empty.
	Create(ctx context.Context, name string, details Details) (CandleRecord, error)

	// Delete removes the record with the given ID. Unknown IDs are a no-op.
	Delete(ctx context.Context, id string)

	// List returns a snapshot of all records, oldest first.
	List() []CandleRecord

	// Get returns the record with the given ID and whether it exists.
	Get(id string) (CandleRecord, bool)

	// Close releases the storage engine.
	Close() error
}

// Calculation and record errors.
var (
	ErrInvalidInput = errors.New("invalid numeric input")
	ErrEmptyName    = errors.New("candle name must not be empty")
)

// Storage errors.
var (
	ErrKeyNotFound = errors.New("key not found")
)
