// Package kv exposes the key-value store the record layer persists into.
// The contract is deliberately small: point get/set/delete, prefix scan, and
// atomic counter bumps. There are no transactions; concurrent writers to the
// same key race with last-writer-wins.
package kv

import "context"

// Store is the persistence surface for all records.
type Store interface {
	// Get returns the value stored at key. Absent keys return ok=false, not
	// an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set overwrites the value at key unconditionally.
	Set(ctx context.Context, key, value string) error
	// Del removes the key. Deleting an absent key is not an error.
	Del(ctx context.Context, key string) error
	// GetByPrefix returns the values of every key starting with prefix.
	// Order is unspecified.
	GetByPrefix(ctx context.Context, prefix string) ([]string, error)
	// Incr atomically increments the integer at key, treating an absent or
	// unparseable value as 0.
	Incr(ctx context.Context, key string) (int64, error)
	// DecrFloor decrements the integer at key, flooring the result at 0.
	DecrFloor(ctx context.Context, key string) (int64, error)
	// Ping verifies connectivity to the backing store.
	Ping(ctx context.Context) error
}
