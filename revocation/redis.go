package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "gsr"

// Redis is a registry shared by every instance pointed at the same Redis.
//
// Each revoked token becomes one key holding "1" whose TTL is the token's
// remaining lifetime plus grace, so Redis expiry doubles as the prune policy.
type Redis struct {
	client redis.UniversalClient
	prefix string
	opts   settings
}

// NewRedis returns a Redis-backed registry. An empty prefix uses "gsr".
func NewRedis(client redis.UniversalClient, prefix string, opts ...Option) *Redis {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &Redis{
		client: client,
		prefix: prefix,
		opts:   applyOptions(opts),
	}
}

func (r *Redis) key(token string) string {
	return r.prefix + ":" + fingerprint(token)
}

// Revoke implements [Registry]. A zero expiresAt stores the entry without TTL.
func (r *Redis) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return nil
	}

	var ttl time.Duration
	if until := r.opts.retainUntil(expiresAt); !until.IsZero() {
		ttl = until.Sub(r.opts.now())
		if ttl <= 0 {
			return nil
		}
		// Round up so the key never expires before the token does.
		ttl = ttl.Truncate(time.Second) + time.Second
	}

	if err := r.client.Set(ctx, r.key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// IsRevoked implements [Registry].
func (r *Redis) IsRevoked(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	n, err := r.client.Exists(ctx, r.key(token)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n > 0, nil
}

// Ping implements [Pinger].
func (r *Redis) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := r.client.Ping(ctx).Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return time.Since(start), nil
}
