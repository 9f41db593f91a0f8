package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DefaultCeiling = 900
	dayTTL         = 24 * time.Hour
)

// Counter decide se uma credencial ainda pode ser usada hoje
type Counter interface {
	Allow(ctx context.Context, keyPrefix string) bool
}

// RedisCounter conta chamadas por credencial/dia no Redis
// Qualquer erro no Redis libera a chamada (fail open)
type RedisCounter struct {
	R       *redis.Client
	Ceiling int64
	Log     *zap.Logger
}

func NewRedisCounter(r *redis.Client, ceiling int, log *zap.Logger) *RedisCounter {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &RedisCounter{R: r, Ceiling: int64(ceiling), Log: log}
}

// dayKey monta "<prefix>:YYYY-MM-DD" (dia em UTC)
func dayKey(prefix string, now time.Time) string {
	return fmt.Sprintf("%s:%s", prefix, now.UTC().Format("2006-01-02"))
}

func (c *RedisCounter) Allow(ctx context.Context, keyPrefix string) bool {
	// o dia vem do relógio do Redis, igual pra todas as instâncias
	now, err := c.R.Time(ctx).Result()
	if err != nil {
		c.Log.Warn("rate counter unavailable, allowing", zap.String("key", keyPrefix), zap.Error(err))
		return true
	}
	key := dayKey(keyPrefix, now)

	count, err := c.R.Incr(ctx, key).Result()
	if err != nil {
		c.Log.Warn("rate counter incr failed, allowing", zap.String("key", key), zap.Error(err))
		return true
	}
	if count == 1 {
		if err := c.R.Expire(ctx, key, dayTTL).Err(); err != nil {
			c.Log.Warn("rate counter expire failed", zap.String("key", key), zap.Error(err))
		}
	}

	if count > c.Ceiling {
		c.Log.Warn("daily limit reached", zap.String("key", key), zap.Int64("count", count))
		return false
	}
	return true
}

// Unavailable é usado quando não há Redis: toda credencial é liberada
type Unavailable struct{}

func (Unavailable) Allow(context.Context, string) bool { return true }
