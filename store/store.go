package store

import "context"

// KV is the narrow persistence contract the debate service depends on:
// read-after-write consistency on a single key, nothing more. Which
// backend sits behind it is a deployment choice.
type KV interface {
	// Get returns the value for key, with found=false when the key is
	// absent (absence is not an error).
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set writes the value for key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error
}
