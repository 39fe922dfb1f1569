package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"exitlayer/internal/scoring"
	"exitlayer/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	CORSAllowOrigin []string
	LogLevel        string
	LogFormat       string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	RedisURL                string
	RateLimitSubmit         int
	RateLimitSubmitWindow   time.Duration
	RateLimitSessions       int
	RateLimitSessionsWindow time.Duration

	AdminJWTSecret string

	NotifySNSTopicARN string
	NotifySESFrom     string
	NotifySESTo       []string

	ScoringWeights scoring.Weights

	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration
	DBPingTimeout     time.Duration
}

var weightKeys = map[scoring.Dimension]string{
	scoring.Leverage:               "SCORING_WEIGHT_LEVERAGE",
	scoring.EquityPotential:        "SCORING_WEIGHT_EQUITY_POTENTIAL",
	scoring.RevenueRisk:            "SCORING_WEIGHT_REVENUE_RISK",
	scoring.ProductReadiness:       "SCORING_WEIGHT_PRODUCT_READINESS",
	scoring.ImplementationCapacity: "SCORING_WEIGHT_IMPLEMENTATION_CAPACITY",
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("RATE_LIMIT_SUBMIT", 10)
	v.SetDefault("RATE_LIMIT_SUBMIT_WINDOW", "10m")
	v.SetDefault("RATE_LIMIT_SESSIONS", 120)
	v.SetDefault("RATE_LIMIT_SESSIONS_WINDOW", "1m")
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	cfg := Config{
		Port:            v.GetString("PORT"),
		Env:             env,
		DatabaseURL:     v.GetString("DATABASE_URL"),
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),

		ObjectStoreType: normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:   v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:       v.GetString("AWS_REGION"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		S3Prefix:        v.GetString("S3_PREFIX"),
		SSEKMSKeyID:     v.GetString("SSE_KMS_KEY_ID"),

		RedisURL:                v.GetString("REDIS_URL"),
		RateLimitSubmit:         positiveInt(v.GetInt("RATE_LIMIT_SUBMIT"), 10),
		RateLimitSubmitWindow:   positiveDuration(v.GetDuration("RATE_LIMIT_SUBMIT_WINDOW"), 10*time.Minute),
		RateLimitSessions:       positiveInt(v.GetInt("RATE_LIMIT_SESSIONS"), 120),
		RateLimitSessionsWindow: positiveDuration(v.GetDuration("RATE_LIMIT_SESSIONS_WINDOW"), time.Minute),

		AdminJWTSecret: v.GetString("ADMIN_JWT_SECRET"),

		NotifySNSTopicARN: v.GetString("NOTIFY_SNS_TOPIC_ARN"),
		NotifySESFrom:     v.GetString("NOTIFY_SES_FROM"),
		NotifySESTo:       splitAndTrim(v.GetString("NOTIFY_SES_TO")),

		DBMaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		DBConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		DBPingTimeout:     v.GetDuration("DB_PING_TIMEOUT"),
	}

	weights := scoring.Weights{}
	for dim, key := range weightKeys {
		if v.IsSet(key) {
			weights[dim] = v.GetFloat64(key)
		}
	}
	if len(weights) > 0 {
		cfg.ScoringWeights = weights.Normalized()
	}

	if env == "production" {
		if cfg.DatabaseURL == "" {
			telemetry.Warn("config.missing", map[string]any{"key": "DATABASE_URL"})
		}
		if cfg.AdminJWTSecret == "" {
			telemetry.Warn("config.missing", map[string]any{"key": "ADMIN_JWT_SECRET"})
		}
	}
	return cfg
}

// Weights returns the configured scoring weights or the defaults.
func (c Config) Weights() scoring.Weights {
	if len(c.ScoringWeights) == 0 {
		return scoring.DefaultWeights()
	}
	return c.ScoringWeights
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func positiveInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func positiveDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
