package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds settings for the embedded SQLite export index.
type DatabaseConfig struct {
	Path               string
	BusyTimeoutMs      int
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// AppConfig is the centralized configuration struct for the dev server.
// It is populated from environment variables; every value has a default
// that works for a plain "run it and open the editor" session.
type AppConfig struct {
	Port       string
	PublicURL  string
	StaticRoot string
	ExportDir  string
	// DefaultSequenceID is substituted when an export request carries no
	// sequence id. It must itself pass the sequence-id character filter;
	// the service constructor rejects an unsafe value.
	DefaultSequenceID string
	OpenBrowser       bool
	Database          DatabaseConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	port := getEnv("PORT", "8000")
	return &AppConfig{
		Port:              port,
		PublicURL:         getEnv("PUBLIC_URL", "http://localhost:"+port),
		StaticRoot:        getEnv("STATIC_ROOT", "."),
		ExportDir:         getEnv("EXPORT_DIR", "exports"),
		DefaultSequenceID: getEnv("DEFAULT_SEQUENCE_ID", "unknown"),
		OpenBrowser:       getEnvBool("OPEN_BROWSER", true),
		Database: DatabaseConfig{
			Path:               getEnv("DB_PATH", "exports.db"),
			BusyTimeoutMs:      getEnvInt("DB_BUSY_TIMEOUT_MS", 5000),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 1),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 1),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 0),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
