// Package metadata is the local key/value table the session lives in.
package metadata

import "context"

// Repository stores opaque values by key. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	DeleteKeys(ctx context.Context, keys ...string) error
}

var _ Repository = (*SQLiteRepository)(nil)
