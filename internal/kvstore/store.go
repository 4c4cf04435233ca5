// Package kvstore implements the device key-value store the whole vault sits
// on: string keys mapped to JSON documents, with get/set/remove semantics.
//
// Every higher-level operation is a single read-deserialize-mutate-write pass
// over one key. The store provides no locking, versioning, or compare-and-
// swap, so two interleaved passes over the same key can lose the earlier
// write (the later pass read its snapshot before the earlier commit). This is
// an accepted limitation of the single-user, single-device model and is
// deliberately not mitigated here.
package kvstore

import "context"

// Store is the string-keyed device storage primitive.
//
// Contract:
//   - Get returns (nil, nil) when the key is absent.
//   - Set creates or overwrites the value.
//   - Remove is idempotent; removing an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
