// Package cache provides the keyed TTL store that holds ephemeral state
// which used to live in process-wide maps: live class sessions and
// generated quiz attempts. The store is injected into controllers so the
// backend can be swapped (memory for a single node, Redis when scaling
// horizontally).
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key is absent or its TTL elapsed.
var ErrNotFound = errors.New("cache: key not found")

// Store is a keyed value store with per-entry TTL. Values are opaque JSON
// payloads.
type Store interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
