package statestore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "oauth_state"

// Redis is a state store backed by Redis. Expiry is delegated to Redis TTLs,
// so no sweeping is needed.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// RedisOption configures the Redis store.
type RedisOption func(*Redis)

// WithKeyPrefix overrides the default "oauth_state" key prefix, for sharing
// one Redis database between applications.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// NewRedis creates a Redis-backed state store. The client lifecycle is
// managed by the caller.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{client: client, prefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Save stores a token with its value for the given TTL.
func (r *Redis) Save(ctx context.Context, token, value string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(token), value, ttl).Err()
}

// Get returns the stored value for a live token.
// Returns ErrNotFound for an unknown or expired token.
func (r *Redis) Get(ctx context.Context, token string) (string, error) {
	value, err := r.client.Get(ctx, r.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Delete removes a token. Deleting an absent token is not an error.
func (r *Redis) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.key(token)).Err()
}

func (r *Redis) key(token string) string {
	return r.prefix + ":" + token
}
