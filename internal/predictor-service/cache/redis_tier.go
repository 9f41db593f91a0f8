package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisTier struct{ R *redis.Client }

func NewRedisTier(r *redis.Client) *RedisTier { return &RedisTier{R: r} }

func (c *RedisTier) Name() string    { return "redis" }
func (c *RedisTier) Available() bool { return c.R != nil }

func (c *RedisTier) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.R.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *RedisTier) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.R.Set(ctx, key, value, ttl).Err()
}
