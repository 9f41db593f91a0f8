package cache

import (
	"context"
	"errors"
	"time"

	"github.com/coocood/freecache"
)

// LocalTier é o nível rápido em memória usado quando o Redis não responde no start
type LocalTier struct {
	cache *freecache.Cache
}

// NewLocalTier recebe o tamanho em MB; o freecache recusa entradas maiores que size/1024
func NewLocalTier(sizeMB int) *LocalTier {
	if sizeMB <= 0 {
		sizeMB = 1
	}
	return &LocalTier{cache: freecache.NewCache(sizeMB * 1024 * 1024)}
}

func (l *LocalTier) Name() string    { return "local" }
func (l *LocalTier) Available() bool { return true }

func (l *LocalTier) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, err := l.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Set arredonda o TTL pra cima em segundos; no freecache 0 significa "sem expiração"
func (l *LocalTier) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return l.cache.Set([]byte(key), value, ttlSeconds(ttl))
}

func ttlSeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 1
	}
	return int((ttl + time.Second - 1) / time.Second)
}
