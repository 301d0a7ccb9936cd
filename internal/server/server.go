// Package server exposes the analysis pipeline as a JSON HTTP endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ppiankov/credence/internal/metrics"
	"github.com/ppiankov/credence/internal/model"
)

// maxBodyBytes caps a request body
const maxBodyBytes = 1 << 20

// validationMessage is the client-facing text for model.ErrValidation
const validationMessage = "Missing required fields: content and type"

// Analyzer runs one analysis
type Analyzer interface {
	Analyze(ctx context.Context, req model.Request) (*model.AnalysisResult, error)
}

// Server routes fact-check requests to an Analyzer
type Server struct {
	analyzer Analyzer
	metrics  *metrics.Metrics
	logger   *slog.Logger
	router   *chi.Mux
}

// Response is the envelope of every /fact-check reply
type Response struct {
	Success   bool                  `json:"success"`
	Result    *model.AnalysisResult `json:"result,omitempty"`
	Error     string                `json:"error,omitempty"`
	RequestID string                `json:"requestId,omitempty"`
}

// New creates a server. m and logger may be nil.
func New(analyzer Analyzer, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		analyzer: analyzer,
		metrics:  m,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Post("/fact-check", s.handleFactCheck)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", m.Handler())

	s.router = r
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleFactCheck(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	var req model.Request
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	// An empty body decodes as {} and fails validation below
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, Response{
			Error:     "invalid JSON body: " + err.Error(),
			RequestID: requestID,
		})
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		status, message := classify(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("fact-check failed", "request_id", requestID, "type", req.Type, "error", err)
		}
		writeJSON(w, status, Response{Error: message, RequestID: requestID})
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Result: result, RequestID: requestID})
}

// classify maps an analysis error to a status code and client message
func classify(err error) (int, string) {
	if errors.Is(err, model.ErrValidation) {
		return http.StatusBadRequest, validationMessage
	}
	return http.StatusInternalServerError, err.Error()
}

// cors sets the cross-origin headers on every response and answers preflight requests
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type,x-api-key")
		h.Set("Access-Control-Allow-Methods", "POST,OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// logRequests logs each request and counts it by route pattern
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		s.metrics.ObserveHTTP(route, status)
		s.logger.Debug("request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
