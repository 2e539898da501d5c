package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/velmik/auth-service/cache"
	"github.com/velmik/auth-service/domain"
)

// Denylist implements the cache.Denylist interface using Redis. Keys carry a
// TTL equal to the revoked token's remaining lifetime, so Redis purges them
// at the moment the token would have expired anyway.
type Denylist struct {
	client *redis.Client
	prefix string
}

// NewDenylist creates a new [Denylist] instance. An empty prefix defaults
// to "blacklist".
func NewDenylist(client *redis.Client, prefix string) *Denylist {
	if prefix == "" {
		prefix = "blacklist"
	}
	return &Denylist{
		client: client,
		prefix: prefix,
	}
}

// redisKey returns the Redis key for a given token.
func (d *Denylist) redisKey(token string) string {
	return fmt.Sprintf("%s:%s", d.prefix, cache.HashToken(token))
}

// Revoke stores the token as a denylist key with the given TTL.
func (d *Denylist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.client.SetEx(ctx, d.redisKey(token), "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("%w: failed to denylist token: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// IsRevoked checks for the token's denylist key.
func (d *Denylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := d.client.Exists(ctx, d.redisKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: failed to check denylist: %v", domain.ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

var _ cache.Denylist = (*Denylist)(nil)
