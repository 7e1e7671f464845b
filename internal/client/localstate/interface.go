// Package localstate is the client's durable key/value storage, the CLI
// counterpart of the browser's localStorage. Values are opaque blobs; callers
// decide the encoding.
package localstate

import "context"

type Repository interface {
	// Get returns the stored value, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
