// Package server implements the HTTP front-end: the static search page, the
// placeholder search API, index statistics and Prometheus metrics.
//
// Every request is isolated: a failing or panicking handler produces an
// error response for that client only. Only listener failures end Run.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lexidx/lexidx/internal/errors"
)

// DefaultAddress is the listen address used when none is configured.
const DefaultAddress = "127.0.0.1:6969"

// Config configures a Server.
type Config struct {
	// Address is the TCP listen address.
	Address string

	// IndexPath is the index file reported by /api/stats. Empty disables it.
	IndexPath string

	// IndexFormat selects the store backend for IndexPath ("" picks by extension).
	IndexFormat string

	// ReadTimeout, WriteTimeout and ShutdownTimeout bound the HTTP server.
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// StatsCacheSize is the number of loaded index summaries kept in memory.
	StatsCacheSize int

	// MaxBodyBytes caps the size of a search request body.
	MaxBodyBytes int64
}

// DefaultConfig returns the configuration used by `lexidx serve`.
func DefaultConfig() Config {
	return Config{
		Address:         DefaultAddress,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		StatsCacheSize:  8,
		MaxBodyBytes:    1 << 20,
	}
}

// Server serves the query front-end.
type Server struct {
	cfg     Config
	logger  *slog.Logger
	metrics *Metrics
	stats   *statsCache
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New creates a Server. Zero-valued fields of cfg take their defaults.
func New(cfg Config, opts ...Option) (*Server, error) {
	def := DefaultConfig()
	if cfg.Address == "" {
		cfg.Address = def.Address
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}
	if cfg.StatsCacheSize <= 0 {
		cfg.StatsCacheSize = def.StatsCacheSize
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}

	s := &Server{
		cfg:     cfg,
		logger:  slog.Default(),
		metrics: NewMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}

	stats, err := newStatsCache(cfg.StatsCacheSize, s.metrics)
	if err != nil {
		return nil, errors.InternalError("failed to create stats cache", err)
	}
	s.stats = stats
	s.handler = s.routes()
	return s, nil
}

// Handler returns the complete middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.cfg.Address
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return errors.New(errors.ErrCodeIO, fmt.Sprintf("cannot listen on %s: %v", s.cfg.Address, err), err).
			WithDetail("address", s.cfg.Address).
			WithSuggestion("Choose another address: lexidx serve <host:port>")
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within the configured timeout. It takes ownership of ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server_listening", slog.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.New(errors.ErrCodeIO, fmt.Sprintf("server failed: %v", err), err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("server_shutting_down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.InternalError("graceful shutdown failed", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("server_stopped")
	return nil
}
