package cache

import (
	"context"
	"time"
)

// Tier é um nível de cache que guarda bytes por chave
// Implementações: Redis, freecache (memória local), Postgres e Unavailable
type Tier interface {
	Name() string
	Available() bool
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Unavailable representa um nível não configurado: sempre miss, escrita ignorada
type Unavailable struct{ Tier string }

func (u Unavailable) Name() string    { return u.Tier }
func (u Unavailable) Available() bool { return false }

func (u Unavailable) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (u Unavailable) Set(context.Context, string, []byte, time.Duration) error { return nil }
