// Package storage provides the durable key-value store behind the draft
// slot and the pending-submission queue. The interface is deliberately
// small so the persistence mechanism is swappable without touching the
// sync logic.
package storage

import (
	"context"

	"github.com/pkg/errors"
)

var ErrKeyNotFound = errors.New("key not found")

type DurableStore interface {
	Put(ctx context.Context, key string, value []byte) error
	// Get returns ErrKeyNotFound when the key has never been written or
	// was deleted.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
