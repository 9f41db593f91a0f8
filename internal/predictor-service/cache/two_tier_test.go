package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memTier é um nível em memória com contagem de chamadas
type memTier struct {
	mu     sync.Mutex
	name   string
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
	gets   int
	sets   int
}

func newMemTier(name string) *memTier {
	return &memTier{name: name, data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memTier) Name() string    { return m.name }
func (m *memTier) Available() bool { return true }

func (m *memTier) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	b, ok := m.data[key]
	return b, ok, nil
}

func (m *memTier) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

type payload struct {
	Response []int `json:"response"`
}

func TestTwoTier_PutThenGet(t *testing.T) {
	fast, durable := newMemTier("redis"), newMemTier("postgres")
	c := NewTwoTier(fast, durable, zap.NewNop())
	ctx := context.Background()

	c.Put(ctx, "fixtures:39:2025", payload{Response: []int{1, 2}}, time.Hour)

	var got payload
	require.True(t, c.Get(ctx, "fixtures:39:2025", &got))
	assert.Equal(t, []int{1, 2}, got.Response)

	assert.Equal(t, time.Hour, fast.ttls["fixtures:39:2025"])
	assert.Equal(t, time.Hour, durable.ttls["fixtures:39:2025"])
	assert.Equal(t, 0, durable.gets, "durable tier is not read on fast hit")
}

func TestTwoTier_FallsThroughToDurable(t *testing.T) {
	fast, durable := newMemTier("redis"), newMemTier("postgres")
	durable.data["k"] = []byte(`{"response":[7]}`)

	var hits []string
	c := NewTwoTier(fast, durable, zap.NewNop())
	c.OnHit = func(tier string) { hits = append(hits, tier) }

	var got payload
	require.True(t, c.Get(context.Background(), "k", &got))
	assert.Equal(t, []int{7}, got.Response)
	assert.Equal(t, []string{"postgres"}, hits)
}

func TestTwoTier_FastErrorIsIsolated(t *testing.T) {
	fast, durable := newMemTier("redis"), newMemTier("postgres")
	fast.getErr = errors.New("connection refused")
	fast.setErr = errors.New("connection refused")
	c := NewTwoTier(fast, durable, zap.NewNop())
	ctx := context.Background()

	c.Put(ctx, "k", payload{Response: []int{3}}, time.Minute)
	assert.Contains(t, durable.data, "k")

	var got payload
	require.True(t, c.Get(ctx, "k", &got))
	assert.Equal(t, []int{3}, got.Response)
}

func TestTwoTier_MissWhenBothFail(t *testing.T) {
	fast, durable := newMemTier("redis"), newMemTier("postgres")
	fast.getErr = errors.New("boom")
	durable.getErr = errors.New("boom")

	misses := 0
	c := NewTwoTier(fast, durable, zap.NewNop())
	c.OnMiss = func() { misses++ }

	var got payload
	assert.False(t, c.Get(context.Background(), "k", &got))
	assert.Equal(t, 1, misses)
}

func TestTwoTier_UndecodableEntrySkipped(t *testing.T) {
	fast, durable := newMemTier("redis"), newMemTier("postgres")
	fast.data["k"] = []byte(`not json`)
	durable.data["k"] = []byte(`{"response":[9]}`)
	c := NewTwoTier(fast, durable, zap.NewNop())

	var got payload
	require.True(t, c.Get(context.Background(), "k", &got))
	assert.Equal(t, []int{9}, got.Response)
}

func TestTwoTier_UnavailableTiers(t *testing.T) {
	c := NewTwoTier(nil, nil, zap.NewNop())
	ctx := context.Background()

	c.Put(ctx, "k", payload{Response: []int{1}}, time.Hour)
	var got payload
	assert.False(t, c.Get(ctx, "k", &got))

	fast, durable := c.Status()
	assert.False(t, fast)
	assert.False(t, durable)
}
