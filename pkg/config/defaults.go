// Package config provides centralized default values for Admini
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

// loadEnvFile applies .env values without overriding variables already set
// in the process environment.
func loadEnvFile() {
	envLoaded.Do(func() {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		log.Println("Loading configuration overrides from .env file...")
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Failed to parse .env file: %v", err)
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

// getEnvSecret behaves like getEnvString but never echoes the value.
func getEnvSecret(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=******", key)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	log.Printf("Config override: %s=%s", key, strings.Join(out, ","))
	return out
}

const (
	StorageDriverFile   = "file"
	StorageDriverSQLite = "sqlite"
	StorageDriverTurso  = "turso"
)

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	ShutdownTimeout    time.Duration
	CORSOrigins        []string

	// Storage Configuration
	StorageDriver    string
	DataFile         string
	SQLitePath       string
	TursoDatabaseURL string
	TursoAuthToken   string
	WatchDataFile    bool

	// Database Pool
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int

	// Auth Configuration
	AdminUsername string
	AdminPassword string
	JWTSecret     string
	CookieMaxAge  int
	CookieSecure  bool

	// Runtime Configuration
	OutboundTimeout  time.Duration
	StatusWindow     time.Duration
	TokenTTL         time.Duration
	CleanupInterval  time.Duration
	CleanupVerbose   bool
	TrustEmbedMarkup bool
	MediaDir         string
	AppIconWidth     int
	MaxUploadBytes   int64

	// Logging Configuration
	LogDirectory string
	LogLevel     string
	LogJSON      bool
	LogToFile    bool
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "10000")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	CORSOrigins = getEnvList("ADMINI_CORS_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"})

	// Storage Configuration
	StorageDriver = getEnvString("ADMINI_STORAGE_DRIVER", StorageDriverFile)
	DataFile = getEnvString("ADMINI_DATA_FILE", "data.json")
	SQLitePath = getEnvString("ADMINI_SQLITE_PATH", "admini.db")
	TursoDatabaseURL = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken = getEnvSecret("TURSO_AUTH_TOKEN", "")
	WatchDataFile = getEnvBool("ADMINI_WATCH_DATA_FILE", true)

	// Database Pool
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)

	// Auth Configuration
	AdminUsername = getEnvString("ADMINI_ADMIN_USERNAME", "admini")
	AdminPassword = getEnvSecret("ADMINI_ADMIN_PASSWORD", "admini")
	JWTSecret = getEnvSecret("ADMINI_JWT_SECRET", "admini-development-secret")
	CookieMaxAge = getEnvInt("ADMINI_COOKIE_MAX_AGE", 86400)
	CookieSecure = getEnvBool("ADMINI_COOKIE_SECURE", false)

	// Runtime Configuration
	OutboundTimeout = getEnvDuration("ADMINI_OUTBOUND_TIMEOUT", 15*time.Second)
	StatusWindow = getEnvDuration("ADMINI_STATUS_WINDOW", 3*time.Second)
	TokenTTL = getEnvDuration("ADMINI_TOKEN_TTL", 30*time.Minute)
	CleanupInterval = getEnvDuration("ADMINI_CLEANUP_INTERVAL", 5*time.Minute)
	CleanupVerbose = getEnvBool("ADMINI_CLEANUP_VERBOSE", false)
	TrustEmbedMarkup = getEnvBool("ADMINI_TRUST_EMBED_MARKUP", false)
	MediaDir = getEnvString("ADMINI_MEDIA_DIR", "media")
	AppIconWidth = getEnvInt("ADMINI_APP_ICON_WIDTH", 128)
	MaxUploadBytes = int64(getEnvInt("ADMINI_MAX_UPLOAD_MB", 10)) << 20

	// Logging Configuration
	LogDirectory = getEnvString("LOG_DIR", "logs")
	LogLevel = getEnvString("LOG_LEVEL", "info")
	LogJSON = getEnvBool("LOG_JSON", false)
	LogToFile = getEnvBool("LOG_TO_FILE", false)
}
