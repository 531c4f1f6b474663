// Package cache defines the port interface for key-value caching, used
// to deduplicate redelivered webhook events.
package cache

import (
	"context"
	"time"
)

// Cache is the port interface for a TTL key-value cache.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
