// Package api provides the HTTP server for the reconciler.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"billing-reconciliation/internal/domain"
	"billing-reconciliation/internal/usecase"
)

// Reconciler runs a reconciliation for a period.
type Reconciler interface {
	Reconcile(ctx context.Context, period string) (*usecase.Result, error)
}

// History reads archived runs.
type History interface {
	List(ctx context.Context, limit int) ([]domain.RunSummary, error)
	Get(ctx context.Context, id string) (domain.Run, error)
	Latest(ctx context.Context, period string) (domain.Run, error)
}

// Server is the reconciler HTTP API server.
type Server struct {
	reconciler     Reconciler
	history        History
	logger         *slog.Logger
	metricsEnabled bool
}

// NewServer creates a new API server. history may be nil, in which case the
// history routes answer 404.
func NewServer(reconciler Reconciler, history History, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{reconciler: reconciler, history: history, logger: logger}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/reconciliation/{period}", s.handleReconcile)
		if s.history != nil {
			r.Get("/history", s.handleListHistory)
			r.Get("/history/{id}", s.handleGetHistory)
		}
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// handleReconcile runs the period now, or with ?cached=true returns the
// latest archived run for it.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	period := chi.URLParam(r, "period")
	if _, err := time.Parse(domain.PeriodLayout, period); err != nil {
		writeError(w, http.StatusBadRequest, "period must be a date in YYYY-MM-DD form")
		return
	}

	if cached, _ := strconv.ParseBool(r.URL.Query().Get("cached")); cached && s.history != nil {
		run, err := s.history.Latest(r.Context(), period)
		if err == nil {
			writeJSON(w, http.StatusOK, run.Payload)
			return
		}
		if !errors.Is(err, domain.ErrRunNotFound) {
			s.fail(w, r, err)
			return
		}
	}

	result, err := s.reconciler.Reconcile(r.Context(), period)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("X-Run-ID", result.Run.ID)
	writeJSON(w, http.StatusOK, result.Run.Payload)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	runs, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	run, err := s.history.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// fail maps domain errors to status codes and logs the rest.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrRunNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNoPeriod):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"status":  status,
		},
	})
}
