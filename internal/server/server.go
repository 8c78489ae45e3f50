// Package server exposes the merge pipeline over HTTP. Each request is
// processed in isolation: uploads are read into memory, merged, and
// discarded, and no state is kept between requests.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/agentstation/attendmerge/cmd/application"
	"github.com/agentstation/attendmerge/internal/server/handlers"
	"github.com/agentstation/attendmerge/pkg/errors"
)

var validate = validator.New()

// Server holds the HTTP server state and dependencies.
type Server struct {
	app       application.Application
	config    Config
	logger    *zerolog.Logger
	handlers  *handlers.Handlers
	startTime time.Time
}

// New creates a new server instance with the given configuration.
func New(app application.Application, cfg Config) (*Server, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.NewConfigError("server", "invalid configuration", err)
	}
	s := &Server{
		app:       app,
		config:    cfg,
		logger:    app.Logger(),
		startTime: time.Now(),
	}
	s.handlers = handlers.New(app.MergeOptions, s.logger, s.startTime)
	return s, nil
}

// Config returns the server configuration.
func (s *Server) Config() Config {
	return s.config
}

// Handler returns the routed handler wrapped in the middleware chain.
// Background work such as rate-limiter eviction stops when ctx is done.
func (s *Server) Handler(ctx context.Context) http.Handler {
	return s.setupRouter(ctx)
}

// ListenAndServe serves until ctx is cancelled, then drains connections
// within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return errors.WrapIO("listen", s.config.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Handler:      s.Handler(ctx),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", ln.Addr().String()).
			Str("prefix", s.config.PathPrefix).
			Int("max_upload_mb", s.config.MaxUploadMB).
			Msg("API server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down API server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info().Msg("API server stopped")
	return nil
}
