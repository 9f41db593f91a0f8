package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/football-ai-predictor/internal/predictor-service/cache"
	"github.com/radieske/football-ai-predictor/internal/predictor-service/fixtures"
	"github.com/radieske/football-ai-predictor/internal/predictor-service/genai"
	httpapi "github.com/radieske/football-ai-predictor/internal/predictor-service/http"
	"github.com/radieske/football-ai-predictor/internal/predictor-service/keys"
	"github.com/radieske/football-ai-predictor/internal/predictor-service/predictor"
	"github.com/radieske/football-ai-predictor/internal/predictor-service/producer"
	"github.com/radieske/football-ai-predictor/internal/predictor-service/ratelimit"
	"github.com/radieske/football-ai-predictor/internal/predictor-service/repo"
	sharedcache "github.com/radieske/football-ai-predictor/internal/shared/cache"
	"github.com/radieske/football-ai-predictor/internal/shared/config"
	"github.com/radieske/football-ai-predictor/internal/shared/db"
	"github.com/radieske/football-ai-predictor/internal/shared/kafka"
	"github.com/radieske/football-ai-predictor/internal/shared/logger"
	"github.com/radieske/football-ai-predictor/internal/shared/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service",
		zap.String("service", cfg.ServiceName),
		zap.String("env", cfg.Env),
		zap.Int("api_keys", len(cfg.RapidAPIKeys)),
		zap.String("prompt_version", cfg.PromptVersion),
	)

	// Redis é opcional: sem ele o contador libera tudo e o cache rápido fica em memória
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = sharedcache.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, using in-process cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info("redis connected")
		}
	}

	// Postgres (Supabase) também é opcional: cache durável + gravação das predições
	var pg *sql.DB
	if cfg.PostgresDSN != "" {
		pg, err = db.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Warn("postgres unavailable, running without durable cache and persistence", zap.Error(err))
			pg = nil
		} else {
			defer pg.Close()
			log.Info("postgres connected")
		}
	}

	// Métricas Prometheus
	cacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "predictor_cache_hits_total", Help: "hits por nível de cache"}, []string{"tier"})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{Name: "predictor_cache_misses_total", Help: "misses nos dois níveis"})
	rotations := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "predictor_key_rotations_total", Help: "rotações de chave por motivo"}, []string{"reason"})
	upstreamErrs := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "predictor_upstream_errors_total", Help: "falhas na API-Football por endpoint"}, []string{"path"})
	llmFailures := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "predictor_llm_failures_total", Help: "falhas do modelo por tipo"}, []string{"kind"})
	persisted := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "predictor_persist_total", Help: "gravações de predição por resultado"}, []string{"outcome"})
	prometheus.MustRegister(cacheHits, cacheMisses, rotations, upstreamErrs, llmFailures, persisted)
	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer, "predictor")

	// Cache em dois níveis
	var fast cache.Tier
	if redisClient != nil {
		fast = cache.NewRedisTier(redisClient)
	} else {
		fast = cache.NewLocalTier(cfg.LocalCacheMB)
	}
	if zfast, err := cache.NewCompressed(fast); err != nil {
		log.Warn("zstd codec unavailable, caching uncompressed", zap.Error(err))
	} else {
		fast = zfast
	}

	var durable cache.Tier = cache.Unavailable{Tier: "postgres"}
	if pg != nil {
		dt := cache.NewDurableTier(pg)
		durable = dt
		if cfg.CachePurgeSchedule != "" {
			janitor, err := cache.StartJanitor(cfg.CachePurgeSchedule, dt, log)
			if err != nil {
				log.Warn("durable cache janitor disabled", zap.Error(err))
			} else {
				defer janitor.Stop()
			}
		}
	}
	twoTier := cache.NewTwoTier(fast, durable, log)
	twoTier.OnHit = func(tier string) { cacheHits.WithLabelValues(tier).Inc() }
	twoTier.OnMiss = func() { cacheMisses.Inc() }

	// Contador diário por chave
	var limiter ratelimit.Counter = ratelimit.Unavailable{}
	if redisClient != nil {
		limiter = ratelimit.NewRedisCounter(redisClient, cfg.RateCeiling, log)
	}

	// Pipeline de partidas (cache + rodízio de chaves)
	pipeline := fixtures.NewPipeline(
		fixtures.New(cfg.RapidAPIBaseURL, cfg.RapidAPIHost, cfg.FixtureTimeout),
		keys.NewRotator(cfg.RapidAPIKeys),
		limiter,
		twoTier,
		cfg.CacheTTL,
		log,
	)
	pipeline.OnRotate = func(reason string) { rotations.WithLabelValues(reason).Inc() }
	pipeline.OnUpstreamErr = func(path string) { upstreamErrs.WithLabelValues(path).Inc() }

	// Modelo generativo
	gen := genai.New(cfg.GoogleAIKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.GeminiTimeout, log)
	if !gen.Configured() {
		log.Warn("GOOGLE_AI_API_KEY not set, /api/predict will answer 503")
	}

	var ctxSrc predictor.ContextSource
	if cfg.PromptVersion == predictor.VersionEnriched {
		ctxSrc = pipeline
	}
	pred := predictor.New(gen, ctxSrc, cfg.PromptVersion, log)
	pred.OnFailure = func(kind string) { llmFailures.WithLabelValues(kind).Inc() }

	// Gravação das predições
	var store repo.Sink = repo.Unavailable{}
	if pg != nil {
		store = repo.NewPostgres(pg)
	}

	// Evento prediction_created (opcional)
	var publisher httpapi.Publisher = producer.Nop{}
	if cfg.KafkaBrokers != "" {
		writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPredictionsMade)
		defer writer.Close()
		publisher = producer.NewKafkaPublisher(writer, cfg.TopicPredictionsMade)
		log.Info("kafka writer ready", zap.String("topic", cfg.TopicPredictionsMade))
	}

	api := &httpapi.API{
		Log:       log,
		Fixtures:  pipeline,
		Predictor: pred,
		Store:     store,
		Publisher: publisher,
		RedisUp:   redisClient != nil,
		OnPersist: func(outcome string) { persisted.WithLabelValues(outcome).Inc() },
	}

	// Servidor de métricas e health
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if redisClient != nil {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		if pg != nil {
			if err := pg.PingContext(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
		}
		return nil
	})
	log.Info("metrics/health server listening", zap.String("addr", metricsSrv.Addr))

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(httpMetrics.Middleware),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}
