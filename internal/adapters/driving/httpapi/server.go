// Package httpapi serves the query, reload and inspection endpoints over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/skillroute/internal/core/ports/driving"
	"github.com/custodia-labs/skillroute/internal/logger"
)

// shutdownTimeout bounds how long in-flight requests may drain.
const shutdownTimeout = 5 * time.Second

// HTTPObserver records per-request metrics.
type HTTPObserver interface {
	ObserveHTTP(route string, code int, d time.Duration)
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits each client to rps requests per second.
// rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.limiter = NewRateLimiter(rps, burst)
	}
}

// WithMetrics records request metrics on obs and exposes gatherer on /metrics.
func WithMetrics(obs HTTPObserver, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.observer = obs
		s.gatherer = gatherer
	}
}

// WithMCP mounts an MCP streamable HTTP handler under /mcp.
func WithMCP(h http.Handler) Option {
	return func(s *Server) {
		s.mcp = h
	}
}

// Server is the HTTP front of the router and corpus service.
type Server struct {
	router   driving.QueryRouter
	corpus   driving.CorpusService
	limiter  *RateLimiter
	observer HTTPObserver
	gatherer prometheus.Gatherer
	mcp      http.Handler
	mux      *http.ServeMux
}

// NewServer creates a server. Both router and corpus are required.
func NewServer(router driving.QueryRouter, corpus driving.CorpusService, opts ...Option) (*Server, error) {
	if router == nil {
		return nil, errors.New("httpapi: router is required")
	}
	if corpus == nil {
		return nil, errors.New("httpapi: corpus service is required")
	}

	s := &Server{
		router: router,
		corpus: corpus,
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /query", s.handleQuery)
	s.mux.HandleFunc("POST /reload", s.handleReload)
	s.mux.HandleFunc("GET /status", s.handleStatus)
	s.mux.HandleFunc("GET /documents", s.handleDocuments)
	s.mux.HandleFunc("GET /documents/{id}", s.handleDocument)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /readyz", s.handleReady)

	if s.gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	if s.mcp != nil {
		s.mux.Handle("/mcp", s.mcp)
	}
}

// Handler returns the full middleware chain wrapped around the routes.
func (s *Server) Handler() http.Handler {
	return s.instrument(s.withRequestID(s.rateLimit(s.mux)))
}

// Run listens on addr until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
