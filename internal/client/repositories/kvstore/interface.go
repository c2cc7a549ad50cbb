// Package kvstore implements the client-scoped persistent store: a small
// key-value byte store with get/set-whole-value semantics. The journal keeps
// each collection (active entries, trash) as one JSON document under a fixed
// key, plus a few sync bookkeeping keys.
package kvstore

import "context"

// Well-known keys.
const (
	KeyEntries           = "entries"
	KeyTrash             = "trash"
	KeyDriveFileID       = "drive_file_id"
	KeyDriveRefreshToken = "drive_refresh_token"
)

// Repository describes whole-value access to the persistent store.
type Repository interface {
	// Get returns the value stored under key, or nil if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// SetMulti stores every pair atomically; either all writes apply or none.
	SetMulti(ctx context.Context, values map[string][]byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every key.
	Clear(ctx context.Context) error
}
