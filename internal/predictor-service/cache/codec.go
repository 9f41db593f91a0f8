package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Compressed aplica zstd nos valores de um nível rápido
// Payloads da API-Football repetem muito texto e encolhem bem
type Compressed struct {
	Inner   Tier
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewCompressed(inner Tier) (*Compressed, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Compressed{Inner: inner, encoder: enc, decoder: dec}, nil
}

func (c *Compressed) Name() string    { return c.Inner.Name() }
func (c *Compressed) Available() bool { return c.Inner.Available() }

func (c *Compressed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, ok, err := c.Inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	out, err := c.decoder.DecodeAll(b, nil)
	if err != nil {
		return nil, false, fmt.Errorf("decompress %s: %w", key, err)
	}
	return out, true, nil
}

func (c *Compressed) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.Inner.Set(ctx, key, c.encoder.EncodeAll(value, make([]byte, 0, len(value)/2)), ttl)
}
