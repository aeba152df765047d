package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jonathan/jd-matcher/internal/config"
	"github.com/jonathan/jd-matcher/internal/embedding"
	"github.com/jonathan/jd-matcher/internal/entitlement"
	"github.com/jonathan/jd-matcher/internal/observability"
	"github.com/jonathan/jd-matcher/internal/pipeline"
	"github.com/jonathan/jd-matcher/internal/rewriting"
	"github.com/jonathan/jd-matcher/internal/server/ratelimit"
)

const (
	// maxJSONBody caps JSON request bodies.
	maxJSONBody = 1 << 20
	// maxUploadBody caps multipart document uploads.
	maxUploadBody = 10 << 20
	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 30 * time.Second
)

// Server represents the HTTP server
type Server struct {
	cfg         *config.Config
	analyzer    *pipeline.Analyzer
	embedder    embedding.Embedder
	grader      *rewriting.Grader
	tokens      *entitlement.TokenService
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger
	router      *chi.Mux
	handler     http.Handler
	httpServer  *http.Server
}

// New creates a server that scores with embedder. Unlock endpoints are only
// functional when both unlock secrets are configured.
func New(cfg *config.Config, embedder embedding.Embedder, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	planner, err := cfg.BuildPlanner()
	if err != nil {
		return nil, fmt.Errorf("failed to create planner: %w", err)
	}
	grader, err := rewriting.NewGrader(cfg.Rubric)
	if err != nil {
		return nil, fmt.Errorf("failed to create grader: %w", err)
	}

	s := &Server{
		cfg:         cfg,
		analyzer:    pipeline.NewAnalyzer(embedder, planner, logger),
		embedder:    embedder,
		grader:      grader,
		rateLimiter: ratelimit.NewLimiter(ratelimit.FromConfig(cfg.RateLimit)),
		logger:      logger,
	}

	var validator entitlement.TokenValidator
	if cfg.Unlock.Enabled() {
		s.tokens = entitlement.NewTokenService(cfg.Unlock)
		validator = s.tokens
	}

	embedding.RegisterMetrics(prometheus.DefaultRegisterer)
	s.handler = s.routes(validator)
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(validator entitlement.TokenValidator) http.Handler {
	r := chi.NewRouter()
	s.router = r
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.withCORS)
	r.Use(s.withLogging)
	r.Use(withMetrics)
	r.Use(s.withRateLimit)
	r.Use(entitlement.Middleware(validator))

	r.With(withBotShell).Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/plan", s.handlePlan)
		r.Post("/grade", s.handleGrade)
		r.Post("/rewrite", s.handleRewrite)
		r.Post("/draft", s.handleDraft)
		r.Post("/lint", s.handleLint)
		r.Post("/extract", s.handleExtract)
		r.Post("/report", s.handleReport)
		r.Post("/share", s.handleShare)
		r.Get("/share/{payload}", s.handleGetShare)
		r.Post("/unlock/verify", s.handleVerifyUnlock)
		r.Post("/adcopy", s.handleAdCopy)
	})
	return r
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until ctx is cancelled or
// the process receives SIGINT/SIGTERM.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	s.logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	defer s.rateLimiter.Stop()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("Server stopped")
	return nil
}

// Close stops background work without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("Error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps err to a status code and writes it. Server-side failures are logged.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		observability.FromContext(r.Context()).Error("Request error", zap.Int("status", status), zap.Error(err))
	}
	s.errorResponse(w, status, errorMessage(err))
}

// decodeJSON reads a size-capped JSON body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
