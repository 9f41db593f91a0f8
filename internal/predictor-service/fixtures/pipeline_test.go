package fixtures

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/football-ai-predictor/internal/predictor-service/cache"
	"github.com/radieske/football-ai-predictor/internal/predictor-service/keys"
)

type call struct {
	key    string
	path   string
	params url.Values
}

// fakeSource responde por credencial; credencial sem resposta falha
type fakeSource struct {
	mu    sync.Mutex
	ok    map[string]Envelope
	calls []call
}

func (f *fakeSource) Fetch(_ context.Context, apiKey, path string, params url.Values) (Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{key: apiKey, path: path, params: params})
	if env, ok := f.ok[apiKey]; ok {
		return env, nil
	}
	return Envelope{}, errors.New("connection refused")
}

// fakeLimiter nega os prefixos listados
type fakeLimiter struct {
	deny    map[string]bool
	checked []string
}

func (f *fakeLimiter) Allow(_ context.Context, prefix string) bool {
	f.checked = append(f.checked, prefix)
	return !f.deny[prefix]
}

// mapTier é um nível de cache mínimo pros testes do pipeline
type mapTier struct{ data map[string][]byte }

func (m *mapTier) Name() string    { return "mem" }
func (m *mapTier) Available() bool { return true }
func (m *mapTier) Get(_ context.Context, k string) ([]byte, bool, error) {
	b, ok := m.data[k]
	return b, ok, nil
}
func (m *mapTier) Set(_ context.Context, k string, v []byte, _ time.Duration) error {
	m.data[k] = v
	return nil
}

func okEnvelope(id string) Envelope {
	return Envelope{Results: 1, Response: []json.RawMessage{json.RawMessage(`{"fixture":{"id":` + id + `}}`)}}
}

func newPipeline(src Source, ks []string, lim *fakeLimiter) (*Pipeline, *mapTier) {
	tier := &mapTier{data: map[string][]byte{}}
	c := cache.NewTwoTier(tier, nil, zap.NewNop())
	if lim == nil {
		lim = &fakeLimiter{}
	}
	return NewPipeline(src, keys.NewRotator(ks), lim, c, time.Hour, zap.NewNop()), tier
}

func TestPipeline_FetchesAndWritesBack(t *testing.T) {
	src := &fakeSource{ok: map[string]Envelope{"k0": okEnvelope("1")}}
	p, tier := newPipeline(src, []string{"k0"}, nil)

	env := p.GetFixtures(context.Background(), 39, 2025)
	require.Len(t, env.Response, 1)
	require.Len(t, src.calls, 1)
	assert.Equal(t, "fixtures", src.calls[0].path)
	assert.Equal(t, "39", src.calls[0].params.Get("league"))
	assert.Equal(t, "2025", src.calls[0].params.Get("season"))
	assert.Contains(t, tier.data, "fixtures:39:2025")
}

func TestPipeline_CacheHitSkipsUpstream(t *testing.T) {
	src := &fakeSource{ok: map[string]Envelope{"k0": okEnvelope("1")}}
	p, _ := newPipeline(src, []string{"k0"}, nil)
	ctx := context.Background()

	first := p.GetFixtures(ctx, 39, 2025)
	second := p.GetFixtures(ctx, 39, 2025)

	assert.Len(t, src.calls, 1)
	require.Len(t, second.Response, 1)
	assert.JSONEq(t, string(first.Response[0]), string(second.Response[0]))
}

func TestPipeline_RotatesOnFailure(t *testing.T) {
	src := &fakeSource{ok: map[string]Envelope{"k2": okEnvelope("3")}}
	var reasons []string
	p, _ := newPipeline(src, []string{"k0", "k1", "k2"}, nil)
	p.OnRotate = func(r string) { reasons = append(reasons, r) }

	env := p.GetFixtures(context.Background(), 39, 2025)
	require.Len(t, env.Response, 1)
	assert.Equal(t, []string{"k0", "k1", "k2"}, []string{src.calls[0].key, src.calls[1].key, src.calls[2].key})
	assert.Equal(t, []string{"upstream_error", "upstream_error"}, reasons)

	// o cursor persiste entre requisições
	idx, _, err := p.Keys.Current()
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestPipeline_SkipsRateLimitedKey(t *testing.T) {
	src := &fakeSource{ok: map[string]Envelope{"k0": okEnvelope("1"), "k1": okEnvelope("2")}}
	lim := &fakeLimiter{deny: map[string]bool{"rapidapi_key_0": true}}
	p, _ := newPipeline(src, []string{"k0", "k1"}, lim)

	env := p.GetStandings(context.Background(), 39, 2025)
	require.Len(t, env.Response, 1)
	require.Len(t, src.calls, 1)
	assert.Equal(t, "k1", src.calls[0].key)
	assert.Equal(t, "standings", src.calls[0].path)
	assert.Equal(t, []string{"rapidapi_key_0", "rapidapi_key_1"}, lim.checked)
}

func TestPipeline_AllKeysExhausted(t *testing.T) {
	src := &fakeSource{ok: map[string]Envelope{}}
	p, tier := newPipeline(src, []string{"k0", "k1", "k2"}, nil)

	env := p.GetFixtures(context.Background(), 39, 2025)
	assert.True(t, env.Failed())
	assert.Equal(t, MsgAllKeysExhausted, env.ErrorText())
	assert.Empty(t, env.Response)
	assert.Len(t, src.calls, 3)
	assert.Empty(t, tier.data, "failures are not cached")
}

func TestPipeline_AllKeysRateLimited(t *testing.T) {
	src := &fakeSource{ok: map[string]Envelope{"k0": okEnvelope("1")}}
	lim := &fakeLimiter{deny: map[string]bool{"rapidapi_key_0": true, "rapidapi_key_1": true}}
	p, _ := newPipeline(src, []string{"k0", "k1"}, lim)

	env := p.GetFixtures(context.Background(), 39, 2025)
	assert.Equal(t, MsgAllKeysExhausted, env.ErrorText())
	assert.Empty(t, src.calls)
}

func TestPipeline_NoKeysFailsFast(t *testing.T) {
	src := &fakeSource{}
	p, _ := newPipeline(src, nil, nil)

	env := p.GetFixtures(context.Background(), 39, 2025)
	assert.True(t, env.Failed())
	assert.Equal(t, MsgNoKeys, env.ErrorText())
	assert.Empty(t, src.calls)
	assert.Equal(t, 0, p.KeyCount())
}

func TestPipeline_NoKeysStillServesCache(t *testing.T) {
	p, tier := newPipeline(&fakeSource{}, nil, nil)
	tier.data["fixtures:39:2025"] = []byte(`{"response":[{"fixture":{"id":5}}]}`)

	env := p.GetFixtures(context.Background(), 39, 2025)
	require.Len(t, env.Response, 1)
}

func TestPipeline_CancelledContext(t *testing.T) {
	src := &fakeSource{ok: map[string]Envelope{"k0": okEnvelope("1")}}
	p, _ := newPipeline(src, []string{"k0"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := p.GetFixtures(ctx, 39, 2025)
	assert.True(t, env.Failed())
	assert.Empty(t, src.calls)
}

func TestPipeline_EndpointParams(t *testing.T) {
	src := &fakeSource{ok: map[string]Envelope{"k0": okEnvelope("1")}}
	p, tier := newPipeline(src, []string{"k0"}, nil)
	ctx := context.Background()

	p.GetPlayers(ctx, 39, 2025, 0)
	p.GetInjuries(ctx, 39, 2025)
	p.GetTeamStatistics(ctx, 39, 2025, 42)
	p.GetFixtureStatistics(ctx, 1001)

	require.Len(t, src.calls, 4)
	assert.Equal(t, "players", src.calls[0].path)
	assert.Equal(t, "1", src.calls[0].params.Get("page"))
	assert.Equal(t, "injuries", src.calls[1].path)
	assert.Equal(t, "teams/statistics", src.calls[2].path)
	assert.Equal(t, "42", src.calls[2].params.Get("team"))
	assert.Equal(t, "fixtures/statistics", src.calls[3].path)
	assert.Equal(t, "1001", src.calls[3].params.Get("fixture"))

	for _, k := range []string{"players:39:2025:1", "injuries:39:2025", "teamstats:39:2025:42", "fixturestats:1001"} {
		assert.Contains(t, tier.data, k)
	}
}
