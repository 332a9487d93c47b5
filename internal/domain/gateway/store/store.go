package store

import "context"

// Store is the persistent key-value port the health cache is written through.
// Values never expire on their own; staleness is computed by the cache layer.
type Store interface {
	// GetInt64 returns the integer stored at key. The bool reports whether the key exists.
	GetInt64(ctx context.Context, key string) (int64, bool, error)
	// GetString returns the string stored at key. The bool reports whether the key exists.
	GetString(ctx context.Context, key string) (string, bool, error)
	// GetBytes returns the blob stored at key. The bool reports whether the key exists.
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	// SetValues writes every entry as one logical unit. Implementations must
	// either apply all entries or report an error and leave the store usable.
	SetValues(ctx context.Context, values map[string]any) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
