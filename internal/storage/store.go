// Package storage provides the string-keyed persistent store the
// ledger is built on, with interchangeable memory, Redis and SQLite
// backends.
package storage

import (
	"context"
	"errors"
)

// ErrUnavailable marks a store operation that failed at the transport
// or driver level. The effect of the operation is unknown, so callers
// must propagate it rather than treat it as absence.
var ErrUnavailable = errors.New("store unavailable")

// KV is an asynchronous string-keyed store. Absence of a key is
// reported through the bool flag (Get) or a missing map entry
// (MultiGet), never as an error.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	// Keys lists all stored keys starting with prefix, in no
	// particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// MultiGet fetches the given keys in one round trip where the
	// backend supports it. Absent keys are left out of the result.
	MultiGet(ctx context.Context, keys []string) (map[string]string, error)
}
