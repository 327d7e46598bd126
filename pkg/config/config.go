package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string
	LogLevel   string

	// Google Safe Browsing v4
	GSBAPIKey        string
	GSBEndpoint      string
	GSBClientID      string
	GSBClientVersion string
	GSBTimeout       time.Duration

	// Feed watcher
	FeedRepoURL  string
	FeedLocalDir string
	FeedFileName string
	PullInterval time.Duration
	IngestURL    string
	FeedLogPath  string

	// Ledger
	LedgerPath string

	// Durable baseline (optional; empty addr disables)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Ledger mirror (optional; empty host disables)
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
}

// Load loads configuration from a .env file (when present) and
// environment variables.
func Load() *Config {
	// Missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		GSBAPIKey:        getEnv("GSB_API_KEY", ""),
		GSBEndpoint:      getEnv("GSB_ENDPOINT", "https://safebrowsing.googleapis.com/v4/threatMatches:find"),
		GSBClientID:      getEnv("GSB_CLIENT_ID", "Blacklist-Server"),
		GSBClientVersion: getEnv("GSB_CLIENT_VERSION", "1.0.0"),
		GSBTimeout:       getEnvAsDuration("GSB_TIMEOUT_SECONDS", 30) * time.Second,
		FeedRepoURL:      getEnv("FEED_REPO_URL", ""),
		FeedLocalDir:     getEnv("FEED_LOCAL_DIR", "./openphish-academic-repo"),
		FeedFileName:     getEnv("FEED_FILE_NAME", "feed.csv"),
		PullInterval:     getEnvAsDuration("PULL_INTERVAL_SECONDS", 30) * time.Second,
		IngestURL:        getEnv("INGEST_URL", ""),
		FeedLogPath:      getEnv("FEED_LOG_PATH", ""),
		LedgerPath:       getEnv("LEDGER_PATH", "blacklist-evaluation-results.csv"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		PostgresHost:     getEnv("POSTGRES_HOST", ""),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "user"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresDB:       getEnv("POSTGRES_DB", "blacklist"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback))
}
