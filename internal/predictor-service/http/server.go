package httpapi

import (
	"context"
	_ "embed"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/radieske/football-ai-predictor/internal/predictor-service/fixtures"
	"github.com/radieske/football-ai-predictor/internal/predictor-service/predictor"
	"github.com/radieske/football-ai-predictor/internal/predictor-service/repo"
	"github.com/radieske/football-ai-predictor/pkg/contracts/events"
)

//go:embed web/predict.html
var dashboardHTML []byte

// FixtureService é o pipeline de busca (cache + rodízio de chaves)
type FixtureService interface {
	GetFixtures(ctx context.Context, league, season int) fixtures.Envelope
	GetStandings(ctx context.Context, league, season int) fixtures.Envelope
	GetPlayers(ctx context.Context, league, season, page int) fixtures.Envelope
	GetTeamStatistics(ctx context.Context, league, season, team int) fixtures.Envelope
	GetFixtureStatistics(ctx context.Context, fixtureID int) fixtures.Envelope
	KeyCount() int
}

type Predictor interface {
	Available() bool
	Predict(ctx context.Context, q predictor.Query, env fixtures.Envelope) predictor.Result
}

type Publisher interface {
	PublishPredictionCreated(ctx context.Context, e events.PredictionCreated) error
}

// API expõe o dashboard e os endpoints /api/*
type API struct {
	Log       *zap.Logger
	Fixtures  FixtureService
	Predictor Predictor
	Store     repo.Sink
	Publisher Publisher

	// estado dos subsistemas opcionais, resolvido no start
	RedisUp bool

	PersistTimeout time.Duration // por insert
	PublishTimeout time.Duration // por evento
	OnPersist      func(outcome string) // "saved" | "failed"
}

// Router retorna o roteador HTTP com CORS, recover e 404/405 em JSON
func (a *API) Router(mw ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(withCORS)
	r.Use(a.recoverJSON)
	r.Use(mw...)
	r.Use(a.accessLog)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})

	r.Get("/", a.dashboard)                  // Dashboard
	r.Post("/api/predict", a.predict)        // Predições da IA
	r.Get("/api/health", a.health)           // Estado dos subsistemas
	r.Get("/api/leagues", a.leagues)         // Ligas populares
	r.Get("/api/fixtures", a.fixtures)       // Partidas (passagem)
	r.Get("/api/standings", a.standings)     // Classificação (passagem)
	r.Get("/api/players", a.players)         // Jogadores (passagem, paginado)
	r.Get("/api/teams/statistics", a.teamStatistics)
	r.Get("/api/fixtures/statistics", a.fixtureStatistics)
	r.Get("/api/predictions", a.predictions) // Últimas predições gravadas
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// recoverJSON troca o panic por 500 em JSON
func (a *API) recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				a.Log.Error("panic serving request",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (a *API) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		a.Log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
