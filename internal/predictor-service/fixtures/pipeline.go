package fixtures

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/football-ai-predictor/internal/predictor-service/cache"
	"github.com/radieske/football-ai-predictor/internal/predictor-service/keys"
	"github.com/radieske/football-ai-predictor/internal/predictor-service/ratelimit"
)

const DefaultTTL = time.Hour

// Source é a fonte externa de dados (Client em produção)
type Source interface {
	Fetch(ctx context.Context, apiKey, path string, params url.Values) (Envelope, error)
}

// Pipeline junta cache, rotação de chaves e contador diário na frente da API
type Pipeline struct {
	Source  Source
	Keys    *keys.Rotator
	Limiter ratelimit.Counter
	Cache   *cache.TwoTier
	TTL     time.Duration
	Log     *zap.Logger

	// callbacks de métricas (opcionais)
	OnRotate      func(reason string)
	OnUpstreamErr func(path string)
}

func NewPipeline(src Source, rot *keys.Rotator, lim ratelimit.Counter, c *cache.TwoTier, ttl time.Duration, log *zap.Logger) *Pipeline {
	if lim == nil {
		lim = ratelimit.Unavailable{}
	}
	if c == nil {
		c = cache.NewTwoTier(nil, nil, log)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Pipeline{Source: src, Keys: rot, Limiter: lim, Cache: c, TTL: ttl, Log: log}
}

func (p *Pipeline) KeyCount() int { return p.Keys.Len() }

func (p *Pipeline) GetFixtures(ctx context.Context, league, season int) Envelope {
	return p.fetch(ctx, fmt.Sprintf("fixtures:%d:%d", league, season), "fixtures", leagueSeason(league, season))
}

func (p *Pipeline) GetStandings(ctx context.Context, league, season int) Envelope {
	return p.fetch(ctx, fmt.Sprintf("standings:%d:%d", league, season), "standings", leagueSeason(league, season))
}

func (p *Pipeline) GetPlayers(ctx context.Context, league, season, page int) Envelope {
	if page < 1 {
		page = 1
	}
	q := leagueSeason(league, season)
	q.Set("page", strconv.Itoa(page))
	return p.fetch(ctx, fmt.Sprintf("players:%d:%d:%d", league, season, page), "players", q)
}

// GetInjuries traz a disponibilidade de jogadores da liga/temporada
func (p *Pipeline) GetInjuries(ctx context.Context, league, season int) Envelope {
	return p.fetch(ctx, fmt.Sprintf("injuries:%d:%d", league, season), "injuries", leagueSeason(league, season))
}

func (p *Pipeline) GetTeamStatistics(ctx context.Context, league, season, team int) Envelope {
	q := leagueSeason(league, season)
	q.Set("team", strconv.Itoa(team))
	return p.fetch(ctx, fmt.Sprintf("teamstats:%d:%d:%d", league, season, team), "teams/statistics", q)
}

func (p *Pipeline) GetFixtureStatistics(ctx context.Context, fixtureID int) Envelope {
	q := url.Values{}
	q.Set("fixture", strconv.Itoa(fixtureID))
	return p.fetch(ctx, fmt.Sprintf("fixturestats:%d", fixtureID), "fixtures/statistics", q)
}

// fetch: cache -> credenciais em rodízio -> write-back
// Nunca devolve erro; falha total vira Marker
func (p *Pipeline) fetch(ctx context.Context, cacheKey, path string, params url.Values) Envelope {
	var cached Envelope
	if p.Cache.Get(ctx, cacheKey, &cached) {
		return cached
	}

	n := p.Keys.Len()
	if n == 0 {
		p.Log.Error("fixture source not configured", zap.Error(keys.ErrNoKeys))
		return Marker(MsgNoKeys)
	}

	for attempt := 0; attempt < n; attempt++ {
		if err := ctx.Err(); err != nil {
			p.Log.Warn("fetch cancelled", zap.String("path", path), zap.Error(err))
			return Marker(err.Error())
		}

		idx, key, err := p.Keys.Current()
		if err != nil {
			return Marker(MsgNoKeys)
		}

		if !p.Limiter.Allow(ctx, fmt.Sprintf("rapidapi_key_%d", idx)) {
			p.rotate("rate_limited")
			continue
		}

		env, err := p.Source.Fetch(ctx, key, path, params)
		if err != nil {
			p.Log.Error("api-football request failed",
				zap.String("path", path),
				zap.Int("key_index", idx),
				zap.Error(err),
			)
			if p.OnUpstreamErr != nil {
				p.OnUpstreamErr(path)
			}
			p.rotate("upstream_error")
			continue
		}

		p.Cache.Put(ctx, cacheKey, env, p.TTL)
		return env
	}

	p.Log.Error("all api keys exhausted", zap.String("path", path), zap.Int("keys", n))
	return Marker(MsgAllKeysExhausted)
}

func (p *Pipeline) rotate(reason string) {
	_, _, _ = p.Keys.Next()
	if p.OnRotate != nil {
		p.OnRotate(reason)
	}
}

func leagueSeason(league, season int) url.Values {
	q := url.Values{}
	q.Set("league", strconv.Itoa(league))
	q.Set("season", strconv.Itoa(season))
	return q
}
