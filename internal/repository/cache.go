// Package repository provides the cache used to memoize calculation results
// and advisory responses.
package repository

import (
	"context"
	"time"
)

// Cache stores serialized results keyed by their inputs. A miss is not an
// error; calculations are cheap to redo.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
