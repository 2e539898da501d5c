package cache

import (
	"context"
	"time"
)

// Denylist is a time-bounded blacklist of revoked session tokens. Entries
// expire on their own at the token's natural expiry; the application never
// purges them.
type Denylist interface {
	// Revoke adds the token for ttl. A ttl <= 0 means the token is already
	// expired and the call is a no-op.
	Revoke(ctx context.Context, token string, ttl time.Duration) error

	// IsRevoked reports whether the token is currently denylisted.
	IsRevoked(ctx context.Context, token string) (bool, error)
}
