// Package store is the local persistence gateway: a SQLite-backed keyed
// document table plus the load/save logic that speaks the canonical
// document schema.
package store

import "context"

// Repository describes the keyed-record operations the gateway needs.
// Implementations are typically backed by the local SQLite database.
type Repository interface {
	// Get returns the raw document stored under key, or common.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put upserts the raw document under key.
	Put(ctx context.Context, key string, value []byte) error
}
