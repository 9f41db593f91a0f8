package cache

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// TwoTier lê do nível rápido, depois do durável, e grava nos dois
// Erro em um nível nunca impede o outro nem vira erro pro chamador
type TwoTier struct {
	Fast    Tier
	Durable Tier
	Log     *zap.Logger

	OnHit  func(tier string)
	OnMiss func()
}

func NewTwoTier(fast, durable Tier, log *zap.Logger) *TwoTier {
	if fast == nil {
		fast = Unavailable{Tier: "fast"}
	}
	if durable == nil {
		durable = Unavailable{Tier: "durable"}
	}
	return &TwoTier{Fast: fast, Durable: durable, Log: log}
}

// Get decodifica o primeiro valor encontrado em dst; false em miss
func (c *TwoTier) Get(ctx context.Context, key string, dst any) bool {
	for _, t := range []Tier{c.Fast, c.Durable} {
		if !t.Available() {
			continue
		}
		b, ok, err := t.Get(ctx, key)
		if err != nil {
			c.Log.Warn("cache read failed", zap.String("tier", t.Name()), zap.String("key", key), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		if err := json.Unmarshal(b, dst); err != nil {
			c.Log.Warn("cache entry undecodable", zap.String("tier", t.Name()), zap.String("key", key), zap.Error(err))
			continue
		}
		c.Log.Debug("cache hit", zap.String("tier", t.Name()), zap.String("key", key))
		if c.OnHit != nil {
			c.OnHit(t.Name())
		}
		return true
	}
	if c.OnMiss != nil {
		c.OnMiss()
	}
	return false
}

// Put grava em ambos os níveis com o mesmo ttl (no durável vira expires_at)
func (c *TwoTier) Put(ctx context.Context, key string, value any, ttl time.Duration) {
	b, err := json.Marshal(value)
	if err != nil {
		c.Log.Warn("cache value not encodable", zap.String("key", key), zap.Error(err))
		return
	}
	for _, t := range []Tier{c.Fast, c.Durable} {
		if !t.Available() {
			continue
		}
		if err := t.Set(ctx, key, b, ttl); err != nil {
			c.Log.Warn("cache write failed", zap.String("tier", t.Name()), zap.String("key", key), zap.Error(err))
		}
	}
}

// Status informa quais níveis estão ativos (usado pelo /api/health)
func (c *TwoTier) Status() (fast, durable bool) {
	return c.Fast.Available(), c.Durable.Available()
}
