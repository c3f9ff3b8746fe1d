package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
)

func TestServeAndStop(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	srv := NewWithHandler(Options{Addr: "127.0.0.1:0", ReadTimeout: time.Second, WriteTimeout: time.Second}, handler, logging.NewDiscardLogger())
	require.NoError(t, srv.Listen())
	assert.NotEqual(t, "127.0.0.1:0", srv.Addr())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	assert.NoError(t, <-done)
}

func TestListenFailure(t *testing.T) {
	first := NewWithHandler(Options{Addr: "127.0.0.1:0"}, http.NotFoundHandler(), logging.NewDiscardLogger())
	require.NoError(t, first.Listen())
	defer first.listener.Close()

	second := NewWithHandler(Options{Addr: first.Addr()}, http.NotFoundHandler(), logging.NewDiscardLogger())
	assert.Error(t, second.Listen())
}
