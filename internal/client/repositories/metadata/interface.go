// Package metadata is the client's durable key/value storage. It plays the
// role browser local storage plays for a web client: a handful of string
// keys (the session credential and profile) that survive restarts.
package metadata

import (
	"context"
)

// Repository is a flat key/value store. Get returns (nil, nil) for an absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
