// Package cleanup provides background worker
package cleanup

import (
	"context"
	"time"

	"github.com/AtRiskMedia/admini-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
)

// Worker handles background cache cleanup operations
type Worker struct {
	stores []interfaces.ExpiringStore
	config *Config
	logger *logging.ChanneledLogger
	now    func() time.Time
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(config *Config, logger *logging.ChanneledLogger, stores ...interfaces.ExpiringStore) *Worker {
	return &Worker{
		stores: stores,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// Start begins the cleanup worker routine, using the configured interval
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Cache().Info("Cache cleanup worker started",
		"interval", w.config.CleanupInterval, "verbose", w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Cache cleanup worker stopping")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce sweeps every store and returns the number of entries removed.
func (w *Worker) RunOnce(ctx context.Context) int {
	start := time.Now()
	now := w.now()

	var totalCleaned int
	for _, store := range w.stores {
		select {
		case <-ctx.Done():
			return totalCleaned
		default:
		}
		cleaned := store.PurgeExpired(now)
		totalCleaned += cleaned
		if w.config.VerboseReporting {
			w.logger.Cache().Debug("Cache store swept", "store", store.Name(), "cleaned", cleaned, "remaining", store.Len())
		}
	}

	duration := time.Since(start)
	if totalCleaned > 0 {
		w.logger.Cache().Info("Cache cleanup finished", "cleaned", totalCleaned, "stores", len(w.stores), "duration", duration)
	} else if w.config.VerboseReporting {
		w.logger.Cache().Info("Cache cleanup completed - no expired items found", "duration", duration)
	}
	return totalCleaned
}
