// Package api implements the HTTP layer for the interview report service.
// Handlers are methods on *Server.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nyashahama/interview-report-backend/internal/report"
)

// ReportRunner runs the generate-and-deliver pipeline for one request.
// *report.Pipeline satisfies it.
type ReportRunner interface {
	Run(ctx context.Context, req report.Request) (report.Result, error)
}

// Server holds all shared dependencies.
type Server struct {
	reports ReportRunner
	logger  *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(reports ReportRunner, logger *slog.Logger) http.Handler {
	s := &Server{
		reports: reports,
		logger:  logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	// No request timeout: generation can be slow and the request context
	// already ends when the client goes away.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ── Reports ───────────────────────────────────────────────────────────────
	r.Post("/generate-report", s.handleGenerateReport)

	return r
}
