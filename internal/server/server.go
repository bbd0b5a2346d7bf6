// Package server provides the HTTP REST API for resume version history and
// comparison.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/atul48kumar90/resume-tailor-agent/internal/ats"
	"github.com/atul48kumar90/resume-tailor-agent/internal/compare"
	"github.com/atul48kumar90/resume-tailor-agent/internal/config"
	"github.com/atul48kumar90/resume-tailor-agent/internal/diff"
	"github.com/atul48kumar90/resume-tailor-agent/internal/observability"
	"github.com/atul48kumar90/resume-tailor-agent/internal/server/ratelimit"
	"github.com/atul48kumar90/resume-tailor-agent/internal/versions"
)

// maxBodyBytes bounds request bodies; two full resumes fit comfortably.
const maxBodyBytes = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       versions.Store
	compare     *compare.Service
	scorer      ats.Service
	metrics     *observability.Collector
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger
	template    string
	closers     []func() error
}

// Deps are the collaborators a Server is built from. Only Store is
// required; nil fields get working defaults.
type Deps struct {
	Store   versions.Store
	Scorer  ats.Service
	Metrics *observability.Collector
	Limiter *ratelimit.Limiter
	Logger  *zap.Logger
}

// New creates a new server instance
func New(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	scorer := deps.Scorer
	if scorer == nil {
		scorer = ats.NewScorer(cfg.ATS)
	}
	limiter := deps.Limiter
	if limiter == nil {
		limiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	}

	store := observability.InstrumentStore(deps.Store, deps.Metrics)
	scorer = observability.InstrumentScorer(scorer, deps.Metrics)

	opts := []compare.Option{compare.WithScorer(scorer), compare.WithLogger(logger)}
	if deps.Metrics != nil {
		opts = append(opts, compare.WithObserver(deps.Metrics))
	}

	s := &Server{
		store:       store,
		compare:     compare.NewService(store, diff.NewEngine(cfg.Diff), opts...),
		scorer:      scorer,
		metrics:     deps.Metrics,
		rateLimiter: limiter,
		logger:      logger,
		template:    cfg.Template,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	// Version history
	mux.HandleFunc("POST /resumes/{resume_id}/versions", s.handleAppendVersion)
	mux.HandleFunc("GET /resumes/{resume_id}/versions", s.handleListVersions)
	mux.HandleFunc("GET /resumes/{resume_id}/versions/{version_id}", s.handleGetVersion)
	mux.HandleFunc("GET /resumes/{resume_id}/current", s.handleGetCurrent)
	mux.HandleFunc("PUT /resumes/{resume_id}/current", s.handleSetCurrent)
	mux.HandleFunc("POST /resumes/{resume_id}/undo", s.handleUndo)
	mux.HandleFunc("POST /resumes/{resume_id}/redo", s.handleRedo)
	mux.HandleFunc("GET /resumes/{resume_id}/versions/{version_id}/export", s.handleExport)

	// Comparison and scoring
	mux.HandleFunc("GET /resumes/{resume_id}/versions/{version_id}/compare", s.handleCompareVersions)
	mux.HandleFunc("POST /resumes/{resume_id}/versions/{version_id}/compare", s.handleCompareVersions)
	mux.HandleFunc("POST /diff", s.handleDiff)
	mux.HandleFunc("POST /ats/score", s.handleScore)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Close stops the rate limiter and releases everything the server owns.
func (s *Server) Close() error {
	s.rateLimiter.Stop()
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging logs each request and records it in the metrics collector.
// The mux pattern, not the raw path, labels the route.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", elapsed),
			zap.String("remote", r.RemoteAddr),
		)
		if s.metrics != nil {
			s.metrics.ObserveHTTP(r.Method, route, rec.status, elapsed)
		}
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps err to a status and writes it. Validation failures carry
// their field errors as details; internal errors are logged and hidden.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.errorResponse(w, status, "internal server error")
		return
	}

	body := map[string]any{"error": err.Error()}
	if details := errorDetails(err); details != nil {
		body["error"] = "validation failed"
		body["details"] = details
	}
	s.jsonResponse(w, status, body)
}

// extractClientID returns the client IP from RemoteAddr. X-Forwarded-For is
// ignored since it is only trustworthy behind a known proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"tier":      info.Tier,
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		retry := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = retry
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retry))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("tier", info.Tier),
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
