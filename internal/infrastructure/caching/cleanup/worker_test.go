package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AtRiskMedia/admini-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
)

func TestWorkerRunOnce(t *testing.T) {
	logger := logging.NewDiscardLogger()
	tokens := stores.NewTokensStore(time.Minute, logger)
	tokens.Put("a")
	tokens.Put("b")

	worker := NewWorker(&Config{CleanupInterval: time.Hour, VerboseReporting: true}, logger, tokens)

	assert.Equal(t, 0, worker.RunOnce(context.Background()))

	worker.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.Equal(t, 2, worker.RunOnce(context.Background()))
	assert.Equal(t, 0, tokens.Len())
}

func TestWorkerStopsOnCancel(t *testing.T) {
	worker := NewWorker(&Config{CleanupInterval: 10 * time.Millisecond}, logging.NewDiscardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
