package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	ctopics "github.com/radieske/football-ai-predictor/pkg/contracts/topics"
)

const (
	DefaultRapidAPIHost    = "api-football-v1.p.rapidapi.com"
	DefaultRapidAPIBaseURL = "https://api-football-v1.p.rapidapi.com/v3"
	DefaultGeminiBaseURL   = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel     = "gemini-2.5-pro"
)

// Config centraliza variáveis de ambiente e parâmetros de execução do serviço
// Inclui credenciais externas, conexões opcionais, TTLs e portas
type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string

	// Portas do serviço
	HTTPPort    string `validate:"required"` // API pública
	MetricsPort string `validate:"required"` // /metrics e /healthz

	// RapidAPI (API-Football)
	RapidAPIKeys    []string // ordem: KEY1, KEY2, KEY, depois RAPIDAPI_KEYS
	RapidAPIHost    string   `validate:"required"`
	RapidAPIBaseURL string   `validate:"required"`
	FixtureTimeout  time.Duration
	RateCeiling     int `validate:"required|min:1"`

	// Cache
	RedisURL           string
	LocalCacheMB       int
	CacheTTL           time.Duration
	CachePurgeSchedule string // cron; vazio desativa o janitor

	// Supabase (Postgres)
	PostgresDSN string

	// Gemini
	GoogleAIKey   string
	GeminiModel   string `validate:"required"`
	GeminiBaseURL string `validate:"required"`
	GeminiTimeout time.Duration
	PromptVersion string `validate:"in:v1,v2"`

	// Kafka (opcional)
	KafkaBrokers         string
	TopicPredictionsMade string
}

// Load carrega .env (se existir), variáveis de ambiente e defaults
// Retorna erro quando algum valor não passa na validação
func Load() (Config, error) {
	// .env é opcional
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "local")
	v.SetDefault("SERVICE_NAME", "predictor-service")
	v.SetDefault("HTTP_PORT", "5000")
	v.SetDefault("METRICS_PORT", "9095")
	v.SetDefault("RAPIDAPI_HOST", DefaultRapidAPIHost)
	v.SetDefault("RAPIDAPI_BASE_URL", DefaultRapidAPIBaseURL)
	v.SetDefault("FIXTURE_TIMEOUT", 30*time.Second)
	v.SetDefault("RATE_LIMIT_CEILING", 900)
	v.SetDefault("REDIS_URL", "redis://localhost:6379")
	v.SetDefault("LOCAL_CACHE_MB", 128)
	v.SetDefault("CACHE_TTL", time.Hour)
	v.SetDefault("DURABLE_CACHE_PURGE_CRON", "")
	v.SetDefault("GEMINI_MODEL", DefaultGeminiModel)
	v.SetDefault("GEMINI_BASE_URL", DefaultGeminiBaseURL)
	v.SetDefault("GEMINI_TIMEOUT", 60*time.Second)
	v.SetDefault("PROMPT_VERSION", "v1")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC_PREDICTIONS", ctopics.PredictionCreated)

	cfg := Config{
		Env:         v.GetString("ENV"),
		ServiceName: v.GetString("SERVICE_NAME"),

		HTTPPort:    v.GetString("HTTP_PORT"),
		MetricsPort: v.GetString("METRICS_PORT"),

		RapidAPIKeys: collectKeys(
			v.GetString("RAPIDAPI_KEY1"),
			v.GetString("RAPIDAPI_KEY2"),
			v.GetString("RAPIDAPI_KEY"),
			v.GetString("RAPIDAPI_KEYS"),
		),
		RapidAPIHost:    v.GetString("RAPIDAPI_HOST"),
		RapidAPIBaseURL: strings.TrimRight(v.GetString("RAPIDAPI_BASE_URL"), "/"),
		FixtureTimeout:  v.GetDuration("FIXTURE_TIMEOUT"),
		RateCeiling:     v.GetInt("RATE_LIMIT_CEILING"),

		RedisURL:           v.GetString("REDIS_URL"),
		LocalCacheMB:       v.GetInt("LOCAL_CACHE_MB"),
		CacheTTL:           v.GetDuration("CACHE_TTL"),
		CachePurgeSchedule: v.GetString("DURABLE_CACHE_PURGE_CRON"),

		PostgresDSN: firstNonEmpty(v.GetString("SUPABASE_PG_CONN"), v.GetString("DATABASE_URL")),

		GoogleAIKey:   v.GetString("GOOGLE_AI_API_KEY"),
		GeminiModel:   v.GetString("GEMINI_MODEL"),
		GeminiBaseURL: strings.TrimRight(v.GetString("GEMINI_BASE_URL"), "/"),
		GeminiTimeout: v.GetDuration("GEMINI_TIMEOUT"),
		PromptVersion: strings.ToLower(v.GetString("PROMPT_VERSION")),

		KafkaBrokers:         v.GetString("KAFKA_BROKERS"),
		TopicPredictionsMade: v.GetString("KAFKA_TOPIC_PREDICTIONS"),
	}

	val := validate.Struct(&cfg)
	if !val.Validate() {
		return cfg, fmt.Errorf("invalid config: %s", val.Errors.Error())
	}
	return cfg, nil
}

// collectKeys mantém a ordem de declaração, descartando vazias e repetidas
// O último argumento aceita lista separada por vírgula
func collectKeys(key1, key2, key, list string) []string {
	raw := []string{key1, key2, key}
	raw = append(raw, strings.Split(list, ",")...)

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, k := range raw {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, s := range vals {
		if s != "" {
			return s
		}
	}
	return ""
}
