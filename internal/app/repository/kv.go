package repository

import (
	"context"
	"errors"
)

// ErrNotFound signals that a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// KV is the namespaced key-value store shared by analytics and saved
// applications. Values are opaque strings; keys use ':' separated namespaces.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	// Incr atomically adds one to the integer stored at key, treating a missing
	// key as zero, and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
	Delete(ctx context.Context, keys ...string) error
	// List returns every key starting with prefix, in no particular order.
	List(ctx context.Context, prefix string) ([]string, error)
}
