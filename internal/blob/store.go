// Package blob provides durable storage for whole-object JSON blobs keyed by
// fixed application-scoped strings. Every save overwrites the previous value;
// there is no partial update.
package blob

import (
	"context"
	"errors"
)

// ErrNoBlob is returned by Load when nothing has been stored under the key.
var ErrNoBlob = errors.New("blob not found")

type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
