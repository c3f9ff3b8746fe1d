// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/admini-go/internal/application/container"
	"github.com/AtRiskMedia/admini-go/internal/domain/repositories"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/persistence/document"
	"github.com/AtRiskMedia/admini-go/internal/presentation/http/server"
	"github.com/AtRiskMedia/admini-go/pkg/config"
)

// Initialize performs the complete startup sequence and blocks until a
// shutdown signal arrives.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[32m" + `
   __ _  __| |_ __ ___ (_)_ __ (_)
  / _' |/ _' | '_ ' _ \| | '_ \| |
 | (_| | (_| | | | | | | | | | | |
  \__,_|\__,_|_| |_| |_|_|_| |_|_|
` + "\033[0m")

	// Step 1: Channeled logger
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    config.LogToFile,
		OutputToConsole: true,
		LogDirectory:    config.LogDirectory,
		JSONFormat:      config.LogJSON,
		DefaultLevel:    logging.ParseLevel(config.LogLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	// Step 2: Document storage
	phaseStart := time.Now()
	repo, closeRepo, err := openRepository(logger)
	if err != nil {
		logger.LogStartupPhase("storage", time.Since(phaseStart), false)
		return err
	}
	defer closeRepo()
	logger.LogStartupPhase("storage", time.Since(phaseStart), true)

	// Step 3: Dependency injection container
	appContainer := container.NewContainer(repo, logger)
	logger.Startup().Info("Singleton application services initialized via container", "driver", config.StorageDriver)

	// Step 4: Load the document
	phaseStart = time.Now()
	if err := appContainer.DocumentService.Load(ctx); err != nil {
		logger.LogStartupPhase("document", time.Since(phaseStart), false)
		return fmt.Errorf("failed to load document: %w", err)
	}
	logger.LogStartupPhase("document", time.Since(phaseStart), true)

	// Step 5: Background workers
	go appContainer.Broadcaster.Run(ctx)
	go appContainer.CleanupWorker.Start(ctx)
	if watcher, ok := repo.(repositories.DocumentWatcher); ok && config.WatchDataFile {
		go watchDocument(ctx, watcher, appContainer)
	}
	logger.Startup().Info("Background workers started")

	// Step 6: HTTP server
	httpServer := server.New(config.Port, appContainer)
	if err := httpServer.Listen(); err != nil {
		return err
	}

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"address", httpServer.Addr())

	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			return err
		}
	}

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// openRepository selects the document store from ADMINI_STORAGE_DRIVER.
func openRepository(logger *logging.ChanneledLogger) (repositories.DocumentRepository, func(), error) {
	switch config.StorageDriver {
	case config.StorageDriverFile:
		return document.NewFileRepository(config.DataFile, logger), func() {}, nil
	case config.StorageDriverSQLite, config.StorageDriverTurso:
		db, err := database.Open(database.SettingsFromConfig(), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		repo, err := document.NewSQLRepository(db.DB, logger)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to prepare database: %w", err)
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				logger.Shutdown().Error("Error closing database", "error", err.Error())
			}
		}
		return repo, closeDB, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", config.StorageDriver)
	}
}

// watchDocument reloads the document when the data file is edited outside
// the process.
func watchDocument(ctx context.Context, watcher repositories.DocumentWatcher, appContainer *container.Container) {
	logger := appContainer.Logger
	err := watcher.Watch(ctx, func() {
		if _, err := appContainer.DocumentService.Reload(ctx); err != nil {
			logger.Storage().Warn("Document reload failed", "error", err)
		}
	})
	if err != nil {
		logger.Storage().Error("Data file watcher stopped", "error", err)
	}
}

// setupLogging configures gin and the standard logger
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
