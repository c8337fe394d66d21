// Package kv provides a key-value store abstraction used for credential
// storage and coordination locks. This allows swapping backends
// (Valkey/Redis, in-memory, etc.) without changing the callers.
package kv

import (
	"context"
	"time"
)

// Store defines a minimal key-value interface.
// Keys are strings, values are byte slices. All writes support TTL.
type Store interface {
	// Set stores a value with the given key and TTL.
	// If TTL is 0, the key does not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value by key. Returns ErrNotFound if key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key. Returns nil if key doesn't exist.
	Delete(ctx context.Context, key string) error

	// SetNX sets a value only if the key doesn't exist (atomic).
	// Returns true if the key was set, false if it already existed.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Scan returns one page of keys starting with prefix. Pass cursor 0 to
	// start; a returned cursor of 0 means the iteration is complete. Pages
	// may be empty while the cursor is still non-zero.
	Scan(ctx context.Context, prefix string, cursor uint64, count int64) (keys []string, next uint64, err error)

	// Close closes the connection to the store.
	Close() error
}
