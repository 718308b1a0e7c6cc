package storage

import (
	"github.com/tokmeter/tokmeter/internal/types"
)

// Storage is the interface for all result export backends.
type Storage interface {
	// Store persists a batch of records.
	Store(records []*types.VideoRecord) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}
