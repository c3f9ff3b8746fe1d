// Package server provides HTTP server initialization and management.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/AtRiskMedia/admini-go/internal/application/container"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/presentation/http/routes"
	"github.com/AtRiskMedia/admini-go/pkg/config"
)

const maxHeaderBytes = 1 << 20

// Options are the listener settings of the server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server serves a handler on one listener. Listen binds before Serve so the
// bound address is known, which matters for ":0" listeners.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	logger     *logging.ChanneledLogger
}

// New builds the application server from config with the full route table.
func New(port string, appContainer *container.Container) *Server {
	return NewWithHandler(Options{
		Addr:         ":" + port,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}, routes.SetupRoutes(appContainer), appContainer.Logger)
}

// NewWithHandler serves handler with opts.
func NewWithHandler(opts Options, handler http.Handler, logger *logging.ChanneledLogger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           handler,
			ReadTimeout:       opts.ReadTimeout,
			ReadHeaderTimeout: opts.ReadTimeout,
			WriteTimeout:      opts.WriteTimeout,
			IdleTimeout:       opts.IdleTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
		},
		logger: logger,
	}
}

// Listen binds the listen address.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	return nil
}

// Addr is the bound address once listening, else the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Start listens when needed and serves until Stop.
func (s *Server) Start() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	s.logger.System().Info("Starting HTTP server", "address", s.Addr())

	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}
	return nil
}

// Stop drains open requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Shutdown().Info("Shutting down HTTP server", "address", s.Addr())
	return s.httpServer.Shutdown(ctx)
}
