package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryDenylist implements Denylist using ttlcache. It is the default for
// development and tests; a multi-process deployment needs the Redis
// implementation instead.
type MemoryDenylist struct {
	cache *ttlcache.Cache[string, struct{}]
}

// NewMemoryDenylist creates an in-memory denylist with automatic expiry.
func NewMemoryDenylist() *MemoryDenylist {
	cache := ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, struct{}](),
	)

	// Start the expiry loop
	go cache.Start()

	return &MemoryDenylist{cache: cache}
}

// Revoke implements Denylist.Revoke.
func (d *MemoryDenylist) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	d.cache.Set(HashToken(token), struct{}{}, ttl)
	return nil
}

// IsRevoked implements Denylist.IsRevoked.
func (d *MemoryDenylist) IsRevoked(_ context.Context, token string) (bool, error) {
	return d.cache.Get(HashToken(token)) != nil, nil
}

// Close stops the expiry goroutine.
func (d *MemoryDenylist) Close() error {
	d.cache.Stop()
	return nil
}

var _ Denylist = (*MemoryDenylist)(nil)
