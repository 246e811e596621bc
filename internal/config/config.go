package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds process settings. Rule sets live in their own file, see
// the ruleset package.
type Config struct {
	RuleSetPath   string
	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	WorkerCount   int
	DatabaseURL   string
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}

// Load reads .env when present, then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		RuleSetPath:   getEnv("LOGALIZER_CONFIG", "config.json"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		WorkerCount:   getEnvInt("WORKER_COUNT", 4),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Neo4jURI:      getEnv("NEO4J_URI", ""),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", ""),
	}
}

// HistoryEnabled reports whether runs are recorded in PostgreSQL.
func (c *Config) HistoryEnabled() bool { return c.DatabaseURL != "" }

// GraphEnabled reports whether a Neo4j server is configured.
func (c *Config) GraphEnabled() bool { return c.Neo4jURI != "" }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid integer, using default")
		return fallback
	}
	return n
}
