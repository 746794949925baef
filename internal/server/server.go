// Package server exposes a generated swagger document over HTTP together with
// an interactive UI, an OpenAPI 3 rendition and operational endpoints.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/negroni"

	"github.com/mark3labs/crudswag/internal/swagger"
)

// Settings configures the server.
type Settings struct {
	Addr            string
	Logger          *slog.Logger
	ShutdownTimeout time.Duration
	// TrustProxyHeaders makes the served host follow X-Forwarded-Host. Enable
	// it only behind a proxy that sets or strips that header.
	TrustProxyHeaders bool
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		Addr:            ":8080",
		Logger:          slog.Default(),
		ShutdownTimeout: 5 * time.Second,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithAddr(addr string) Option                { return func(s *Settings) { s.Addr = addr } }
func WithLogger(l *slog.Logger) Option           { return func(s *Settings) { s.Logger = l } }
func WithShutdownTimeout(d time.Duration) Option { return func(s *Settings) { s.ShutdownTimeout = d } }
func WithTrustProxyHeaders(trust bool) Option    { return func(s *Settings) { s.TrustProxyHeaders = trust } }

// Server serves a read-only snapshot of a swagger document.
type Server struct {
	doc      *swagger.Document
	settings Settings
	registry *prometheus.Registry
	metrics  *metrics
	router   *mux.Router
	handler  http.Handler
}

// New builds a server for doc. doc is cloned so later changes by the caller
// are not observed.
func New(doc *swagger.Document, opts ...Option) *Server {
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.Logger == nil {
		settings.Logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		doc:      doc.Clone(),
		settings: settings,
		registry: registry,
		metrics:  newMetrics(registry),
		router:   mux.NewRouter(),
	}
	s.setupRoutes()

	recovery := negroni.NewRecovery()
	recovery.PrintStack = false
	recovery.Logger = slog.NewLogLogger(settings.Logger.Handler(), slog.LevelError)

	n := negroni.New(recovery, negroni.HandlerFunc(requestID), negroni.HandlerFunc(s.logRequest))
	n.UseHandler(s.router)
	s.handler = n
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/swagger", s.handleUI()).Methods(http.MethodGet)
	s.router.HandleFunc("/swagger.json", s.handleJSON()).Methods(http.MethodGet)
	s.router.HandleFunc("/swagger.yaml", s.handleYAML()).Methods(http.MethodGet)
	s.router.HandleFunc("/openapi.json", s.handleOpenAPI3()).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	s.router.Use(s.metrics.instrument)
}

// Handler returns the root handler with the full middleware chain.
func (s *Server) Handler() http.Handler { return s.handler }

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.settings.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.settings.Logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.settings.Logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.settings.ShutdownTimeout)
	defer cancel()
	s.settings.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
