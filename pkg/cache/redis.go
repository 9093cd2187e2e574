package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions selects a redis server.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache stores entries as plain redis strings with native expiry.
// It serves `patrol serve` deployments where several replicas share results.
// Every operation retries connection failures through RetryWithBackoff;
// redis reply errors are returned at once.
//
// Keys are not namespaced here. Wrap the Keyer in a ScopedKeyer (the CLI
// uses cache.redis.prefix) when the database is shared with other apps.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache connects to the server in opts and verifies it with PING,
// retrying transient failures.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	c := NewRedisCacheFromClient(client)
	err := RetryWithBackoff(ctx, func() error {
		return classify(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", opts.Addr, err)
	}
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client. The cache owns it and
// closes it on Close.
func NewRedisCacheFromClient(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// Get implements Cache. redis.Nil (no such key) is a miss; expiry is left to
// the server, so an expired entry is simply absent.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			data = nil
			return nil
		}
		if err != nil {
			return classify(err)
		}
		data = b
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, data != nil, nil
}

// Set implements Cache. A zero ttl stores the entry without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, func() error {
		return classify(c.client.Set(ctx, key, data, ttl).Err())
	})
}

// Delete implements Cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, func() error {
		return classify(c.client.Del(ctx, key).Err())
	})
}

// Close implements Cache.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// classify marks connection-level failures retryable. Context errors and
// server replies (redis.Error) are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var reply redis.Error
	if errors.As(err, &reply) {
		return err
	}
	return Retryable(fmt.Errorf("%w: %w", ErrUnavailable, err))
}

var _ Cache = (*RedisCache)(nil)
