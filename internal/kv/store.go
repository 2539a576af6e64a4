// Package kv is the durable key-value byte store the record collections are
// persisted in. Values are opaque blobs addressed by string keys.
package kv

import (
	"context"
)

// Store is a durable map from string keys to byte blobs.
//
// Get returns (nil, nil) when the key is absent. Delete of a missing key is
// not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Transactor is implemented by stores that can run several operations
// atomically. fn must only touch the Store it is given.
type Transactor interface {
	Update(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}

// Update runs fn inside a transaction when s is a Transactor and directly
// against s otherwise.
func Update(ctx context.Context, s Store, fn func(ctx context.Context, s Store) error) error {
	if t, ok := s.(Transactor); ok {
		return t.Update(ctx, fn)
	}
	return fn(ctx, s)
}
