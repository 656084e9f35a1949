package ports

import "context"

// Port: a string key-value substrate the truck cache persists into.
// Implementations must be safe for concurrent use.
type KVStore interface {
	// Return the stored value and whether the key exists.
	Read(ctx context.Context, key string) (string, bool, error)
	// Overwrite the value stored under key.
	Write(ctx context.Context, key string, value string) error
	// Remove key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Return every key currently held by the store.
	ListKeys(ctx context.Context) ([]string, error)
}
