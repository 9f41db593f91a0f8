package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
	"go.uber.org/zap"

	"github.com/radieske/football-ai-predictor/internal/predictor-service/dto"
	"github.com/radieske/football-ai-predictor/internal/predictor-service/fixtures"
	"github.com/radieske/football-ai-predictor/internal/predictor-service/predictor"
	"github.com/radieske/football-ai-predictor/internal/predictor-service/repo"
	"github.com/radieske/football-ai-predictor/pkg/contracts/events"
)

const (
	maxBodyBytes      = 1 << 16
	defaultListLimit  = 20
	maxListLimit      = 100
	defaultPersistTTL = 5 * time.Second
	defaultPublishTTL = time.Second
)

func (a *API) dashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(dashboardHTML)
}

// predict: partidas -> IA -> gravação (best-effort) -> resposta
func (a *API) predict(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			a.Log.Error("predict endpoint panic", zap.Any("panic", rec))
			writeJSON(w, http.StatusInternalServerError, dto.PredictError(fmt.Sprint(rec)))
		}
	}()

	var req dto.PredictRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, dto.PredictError("invalid JSON body"))
		return
	}

	params := req.WithDefaults()
	if v := validate.Struct(&params); !v.Validate() {
		writeJSON(w, http.StatusBadRequest, dto.PredictError(v.Errors.One()))
		return
	}

	if !a.Predictor.Available() {
		writeJSON(w, http.StatusServiceUnavailable, dto.PredictError(predictor.MsgNotConfigured))
		return
	}

	env := a.Fixtures.GetFixtures(r.Context(), params.League, params.Season)
	if env.Failed() {
		a.Log.Warn("no fixtures for prediction",
			zap.Int("league", params.League),
			zap.Int("season", params.Season),
			zap.String("reason", env.ErrorText()),
		)
		writeJSON(w, http.StatusServiceUnavailable, dto.PredictError(predictor.MsgNoFixtures))
		return
	}

	q := predictor.Query{League: params.League, Season: params.Season, Text: params.Query}
	res := a.Predictor.Predict(r.Context(), q, env)
	if res.Error == predictor.MsgNoFixtures {
		writeJSON(w, http.StatusServiceUnavailable, dto.PredictError(res.Error))
		return
	}

	a.persist(r.Context(), q, res)
	writeJSON(w, http.StatusOK, res)
}

// persist grava cada match de forma independente; erros só viram log
// Cada insert e cada publicação têm prazo próprio: um broker travado não consome o prazo dos inserts
func (a *API) persist(parent context.Context, q predictor.Query, res predictor.Result) {
	if a.Store == nil || !a.Store.Available() || len(res.Matches) == 0 {
		return
	}

	// não herda o cancelamento do cliente: a resposta já foi calculada
	base := context.WithoutCancel(parent)

	now := time.Now().UTC()
	for _, m := range res.Matches {
		rec := repo.PredictionRecord{
			LeagueID:       q.League,
			Season:         q.Season,
			HomeTeam:       m.Home,
			AwayTeam:       m.Away,
			PredictionType: q.Text,
			Prediction:     m.Prediction,
			Probability:    int(m.Probability),
			Reasoning:      m.Reasoning,
			Tweet:          m.Tweet,
			PromptVersion:  res.PromptVersion,
			PlayerSnapshot: m.PlayerSnapshot,
			CreatedAt:      now,
		}
		if err := a.save(base, rec); err != nil {
			a.Log.Warn("prediction insert failed",
				zap.String("home", m.Home),
				zap.String("away", m.Away),
				zap.Error(err),
			)
			a.persisted("failed")
			continue
		}
		a.persisted("saved")

		if err := a.publish(base, rec); err != nil {
			a.Log.Warn("prediction_created publish failed",
				zap.String("home", rec.HomeTeam),
				zap.String("away", rec.AwayTeam),
				zap.Error(err),
			)
		}
	}
}

func (a *API) save(base context.Context, rec repo.PredictionRecord) error {
	ctx, cancel := context.WithTimeout(base, orDefault(a.PersistTimeout, defaultPersistTTL))
	defer cancel()
	return a.Store.Save(ctx, rec)
}

func (a *API) publish(base context.Context, rec repo.PredictionRecord) error {
	if a.Publisher == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(base, orDefault(a.PublishTimeout, defaultPublishTTL))
	defer cancel()
	return a.Publisher.PublishPredictionCreated(ctx, events.PredictionCreated{
		LeagueID:       rec.LeagueID,
		Season:         rec.Season,
		HomeTeam:       rec.HomeTeam,
		AwayTeam:       rec.AwayTeam,
		PredictionType: rec.PredictionType,
		Prediction:     rec.Prediction,
		Probability:    rec.Probability,
		PromptVersion:  rec.PromptVersion,
		CreatedAt:      rec.CreatedAt,
	})
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

func (a *API) persisted(outcome string) {
	if a.OnPersist != nil {
		a.OnPersist(outcome)
	}
}

// health responde 200 mesmo com subsistemas opcionais fora
func (a *API) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.HealthResponse{
		Status:   "healthy",
		Redis:    a.RedisUp,
		Supabase: a.Store != nil && a.Store.Available(),
		GoogleAI: a.Predictor.Available(),
		APIKeys:  a.Fixtures.KeyCount(),
	})
}

func (a *API) leagues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.PopularLeagues)
}

func (a *API) fixtures(w http.ResponseWriter, r *http.Request) {
	league, season, ok := leagueSeason(w, r)
	if !ok {
		return
	}
	writeEnvelope(w, a.Fixtures.GetFixtures(r.Context(), league, season))
}

func (a *API) standings(w http.ResponseWriter, r *http.Request) {
	league, season, ok := leagueSeason(w, r)
	if !ok {
		return
	}
	writeEnvelope(w, a.Fixtures.GetStandings(r.Context(), league, season))
}

func (a *API) players(w http.ResponseWriter, r *http.Request) {
	league, season, ok := leagueSeason(w, r)
	if !ok {
		return
	}
	page, err := intParam(r, "page", 1)
	if err != nil || page < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid page"})
		return
	}
	writeEnvelope(w, a.Fixtures.GetPlayers(r.Context(), league, season, page))
}

func (a *API) teamStatistics(w http.ResponseWriter, r *http.Request) {
	league, season, ok := leagueSeason(w, r)
	if !ok {
		return
	}
	team, err := intParam(r, "team", 0)
	if err != nil || team < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "team is required"})
		return
	}
	writeEnvelope(w, a.Fixtures.GetTeamStatistics(r.Context(), league, season, team))
}

func (a *API) fixtureStatistics(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "fixture", 0)
	if err != nil || id < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "fixture is required"})
		return
	}
	writeEnvelope(w, a.Fixtures.GetFixtureStatistics(r.Context(), id))
}

func (a *API) predictions(w http.ResponseWriter, r *http.Request) {
	if a.Store == nil || !a.Store.Available() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": repo.ErrUnavailable.Error()})
		return
	}
	limit, err := intParam(r, "limit", defaultListLimit)
	if err != nil || limit < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	recs, err := a.Store.ListRecent(r.Context(), limit)
	if err != nil {
		a.Log.Error("list predictions failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// writeEnvelope devolve o envelope como veio; marcador de falha vira 503
func writeEnvelope(w http.ResponseWriter, env fixtures.Envelope) {
	status := http.StatusOK
	if env.Failed() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, env)
}

func leagueSeason(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	league, err := intParam(r, "league", dto.DefaultLeague)
	if err != nil || league < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid league"})
		return 0, 0, false
	}
	season, err := intParam(r, "season", dto.DefaultSeason)
	if err != nil || season < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid season"})
		return 0, 0, false
	}
	return league, season, true
}

func intParam(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
