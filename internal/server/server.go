// Package server exposes the structure comparison over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/CapitalsFunds/site-demo/internal/calculation"
	"github.com/CapitalsFunds/site-demo/internal/config"
	"github.com/CapitalsFunds/site-demo/internal/keyrate"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 5 * time.Second

// Server wires the comparison engine and key-rate client to HTTP routes.
type Server struct {
	Engine         *calculation.CalculationEngine
	KeyRate        keyrate.Fetcher
	Limiter        *IPRateLimiter
	Logger         *slog.Logger
	AllowedOrigins string
	// Now stamps the hello endpoint; overridable in tests.
	Now func() time.Time
}

// New builds a server from process settings. fetcher may be nil, in which
// case /api/keyrate answers 502 and compare requests never fetch a rate.
func New(cfg *config.AppConfig, engine *calculation.CalculationEngine, fetcher keyrate.Fetcher, l *slog.Logger) *Server {
	if engine == nil {
		engine = calculation.NewCalculationEngine()
	}
	if l == nil {
		l = slog.Default()
	}
	return &Server{
		Engine:         engine,
		KeyRate:        fetcher,
		Limiter:        NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		Logger:         l,
		AllowedOrigins: cfg.AllowedOrigins,
		Now:            time.Now,
	}
}

// Handler returns the routed handler with CORS, logging and rate limiting applied.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(requestLogger(s.Logger))

	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.Limiter.LimitMiddleware)

	api.HandleFunc("/hello", s.Hello).Methods("GET")
	api.HandleFunc("/keyrate", s.KeyRateHandler).Methods("GET")
	api.HandleFunc("/compare", s.CompareJSON).Methods("POST")
	api.HandleFunc("/compare", s.CompareQuery).Methods("GET")
	api.HandleFunc("/structures", s.Structures).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return CORS(s.AllowedOrigins, router)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.Logger.Info("shutdown signal received, closing active connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	s.Logger.Info("server stopped")
	return <-errCh
}
