package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration sourced from the environment.
type Server struct {
	Addr          string
	LogLevel      string
	JWTSigningKey string

	// Pipeline data layout.
	PolicyPath   string
	RawDir       string
	ProcessedDir string
	LogsDir      string

	// Optional backends. Empty means the in-memory fallback.
	PostgresDSN  string
	RedisURL     string
	KafkaBrokers []string
}

// ReportCacheTTL bounds how long a cached run report may be served.
var ReportCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:         envOr("DATAGOV_ADDR", ":8080"),
		LogLevel:     envOr("DATAGOV_LOG_LEVEL", "info"),
		PolicyPath:   envOr("DATAGOV_POLICY_PATH", "config/policies.yaml"),
		RawDir:       envOr("DATAGOV_RAW_DIR", "data/raw"),
		ProcessedDir: envOr("DATAGOV_PROCESSED_DIR", "data/processed"),
		LogsDir:      envOr("DATAGOV_LOGS_DIR", "logs"),
		PostgresDSN:  os.Getenv("DATAGOV_POSTGRES_DSN"),
		RedisURL:     os.Getenv("DATAGOV_REDIS_URL"),
	}

	if brokers := os.Getenv("DATAGOV_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	cfg.JWTSigningKey = os.Getenv("DATAGOV_JWT_SIGNING_KEY")
	if cfg.JWTSigningKey == "" {
		// Use a default for development - should be overridden in production
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
