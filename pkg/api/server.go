package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cuemby/nurseduty/pkg/log"
	"github.com/cuemby/nurseduty/pkg/metrics"
	"github.com/cuemby/nurseduty/pkg/storage"
	"github.com/rs/zerolog"
)

// Config configures the HTTP server
type Config struct {
	Addr        string
	CORSOrigins []string

	// RequestsPerSecond and Burst rate-limit each client IP. Zero disables.
	RequestsPerSecond float64
	Burst             int
}

// Server serves the nurse-duty JSON API over a storage.Store
type Server struct {
	store      storage.Store
	cfg        Config
	mux        *http.ServeMux
	handler    http.Handler
	httpServer *http.Server
	limiter    *rateLimiter
	logger     zerolog.Logger
}

// NewServer creates a new API server
func NewServer(store storage.Store, cfg Config) *Server {
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	s := &Server{
		store:  store,
		cfg:    cfg,
		mux:    http.NewServeMux(),
		logger: log.WithComponent("api"),
	}
	if cfg.RequestsPerSecond > 0 {
		s.limiter = newRateLimiter(cfg.RequestsPerSecond, cfg.Burst)
	}

	s.registerRoutes()
	s.handler = s.withLogging(s.withCORS(s.withRateLimit(s.mux)))
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	// Nurses
	s.route("/api/nurses", methods{http.MethodGet: s.getNurses})
	s.route("/api/nurses/reset-groups", methods{http.MethodPost: s.resetGroups})
	s.route("/api/nurses/{id}", methods{http.MethodPut: s.updateNurse})

	// Formula schedules
	s.route("/api/formula", methods{
		http.MethodGet:  s.getFormulas,
		http.MethodPost: s.saveFormulas,
	})

	// Settings
	s.route("/api/settings", methods{
		http.MethodGet:  s.getSettings,
		http.MethodPost: s.saveSettings,
	})

	// Monthly schedules
	s.route("/api/monthly-schedule", methods{http.MethodPost: s.saveMonthlySchedule})
	s.route("/api/monthly-schedule/{year}/{month}", methods{http.MethodGet: s.getMonthlySchedule})
	s.route("/api/monthly-schedule/{year}/{month}/export", methods{http.MethodGet: s.exportMonthlySchedule})

	// Health and metrics
	s.route("/health", methods{http.MethodGet: s.healthHandler})
	s.route("/ready", methods{http.MethodGet: s.readyHandler})
	s.mux.Handle("/metrics", metrics.Handler())

	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
}

// Handler returns the HTTP handler with all middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves until Shutdown
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(lis)
}

// Serve serves on an existing listener until Shutdown
func (s *Server) Serve(lis net.Listener) error {
	metrics.RegisterComponent("api", true, "")
	s.logger.Info().Str("addr", lis.Addr().String()).Msg("HTTP API listening")

	if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		metrics.RegisterComponent("api", false, err.Error())
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	metrics.RegisterComponent("api", false, "shutting down")
	return s.httpServer.Shutdown(ctx)
}
