// Package api exposes the analysis results as a small read-only JSON API:
// projects, their components and relationships, run statistics, and on-demand
// validation reports.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	apihandler "github.com/codemap-labs/codemap/internal/api/handler"
	"github.com/codemap-labs/codemap/internal/store"
)

func NewRouter(logger *slog.Logger, s *store.Store) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)

	health := apihandler.NewHealthHandler(s.Pool())
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	r.Route("/api/v1", func(r chi.Router) {
		projects := apihandler.NewProjectHandler(logger, s)
		reports := apihandler.NewReportHandler(logger, s)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projects.List)
			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", projects.Get)
				r.Get("/stats", reports.Stats)
				r.Get("/components", reports.Components)
				r.Get("/relationships", reports.Relationships)
				r.Get("/violations", reports.Violations)
			})
		})
	})

	return r
}

// requestLogger logs one line per request at INFO with method, path, status,
// and duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds())
		})
	}
}
