// Package database provides the core functionality for creating and managing
// database connections for the SQL document store.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/pkg/config"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

const (
	DriverSQLite = "sqlite3"
	DriverLibSQL = "libsql"
)

// Settings selects and tunes a connection.
type Settings struct {
	SQLitePath       string
	TursoDatabaseURL string
	TursoAuthToken   string
	UseTurso         bool

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// SettingsFromConfig reads connection settings from the config package.
func SettingsFromConfig() Settings {
	return Settings{
		SQLitePath:       config.SQLitePath,
		TursoDatabaseURL: config.TursoDatabaseURL,
		TursoAuthToken:   config.TursoAuthToken,
		UseTurso:         config.StorageDriver == config.StorageDriverTurso,
		MaxOpenConns:     config.DBMaxOpenConns,
		MaxIdleConns:     config.DBMaxIdleConns,
		ConnMaxLifetime:  time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute,
		ConnMaxIdleTime:  time.Duration(config.DBConnMaxIdleMinutes) * time.Minute,
	}
}

// DB represents a wrapper around the standard SQL database connection.
type DB struct {
	*sql.DB
	Driver string
}

// Open connects to Turso when selected, otherwise to the local SQLite file.
func Open(settings Settings, logger *logging.ChanneledLogger) (*DB, error) {
	var (
		driverName     string
		dataSourceName string
	)
	if settings.UseTurso {
		if settings.TursoDatabaseURL == "" || settings.TursoAuthToken == "" {
			return nil, fmt.Errorf("turso storage requires TURSO_DATABASE_URL and TURSO_AUTH_TOKEN")
		}
		driverName = DriverLibSQL
		dataSourceName = settings.TursoDatabaseURL + "?authToken=" + settings.TursoAuthToken
	} else {
		dbDir := filepath.Dir(settings.SQLitePath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		driverName = DriverSQLite
		dataSourceName = settings.SQLitePath
	}

	db, err := NewConnectionWithLogger(driverName, dataSourceName, logger)
	if err != nil {
		return nil, err
	}

	if settings.MaxOpenConns > 0 {
		db.SetMaxOpenConns(settings.MaxOpenConns)
	}
	if settings.MaxIdleConns > 0 {
		db.SetMaxIdleConns(settings.MaxIdleConns)
	}
	if settings.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(settings.ConnMaxLifetime)
	}
	if settings.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(settings.ConnMaxIdleTime)
	}
	return db, nil
}

// NewConnectionWithLogger establishes a new database connection for the specified driver with logging.
func NewConnectionWithLogger(driverName, dataSourceName string, logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()
	logger.Storage().Debug("Creating new database connection", "driverName", driverName)

	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		logger.Storage().Error("Failed to open database connection", "error", err.Error(), "driverName", driverName)
		return nil, fmt.Errorf("failed to open %s database: %w", driverName, err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		logger.Storage().Error("Database ping failed", "error", err.Error(), "driverName", driverName)
		return nil, fmt.Errorf("%s database ping failed: %w", driverName, err)
	}

	logger.Storage().Info("Database connection established", "driverName", driverName, "duration", time.Since(start))
	return &DB{DB: db, Driver: driverName}, nil
}
