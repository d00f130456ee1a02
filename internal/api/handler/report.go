package handler

import (
	"log/slog"
	"net/http"

	"github.com/codemap-labs/codemap/internal/store"
	"github.com/codemap-labs/codemap/internal/validate"
	"github.com/codemap-labs/codemap/pkg/apperr"
	"github.com/codemap-labs/codemap/pkg/models"
)

type ReportHandler struct {
	logger *slog.Logger
	store  *store.Store
}

func NewReportHandler(logger *slog.Logger, s *store.Store) *ReportHandler {
	return &ReportHandler{logger: logger, store: s}
}

// Stats returns the per-project summary: component counts by origin and edge
// counts by relationship type.
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	project, ok := projectOr404(w, r, h.logger, h.store)
	if !ok {
		return
	}

	declared, err := h.store.CountComponentsByOrigin(r.Context(), project.ID, models.OriginDeclared)
	if err != nil {
		writeAPIError(w, h.logger, apperr.ReportFailed(err))
		return
	}
	inferred, err := h.store.CountComponentsByOrigin(r.Context(), project.ID, models.OriginInferred)
	if err != nil {
		writeAPIError(w, h.logger, apperr.ReportFailed(err))
		return
	}
	relCounts, err := h.store.CountRelationshipsByType(r.Context(), project.ID)
	if err != nil {
		writeAPIError(w, h.logger, apperr.ReportFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"project":             project.Name,
		"components_declared": declared,
		"components_inferred": inferred,
		"relationships":       relCounts,
	})
}

// Components lists a project's components, optionally filtered by ?type=.
func (h *ReportHandler) Components(w http.ResponseWriter, r *http.Request) {
	project, ok := projectOr404(w, r, h.logger, h.store)
	if !ok {
		return
	}

	var components []models.Component
	var err error
	if t := r.URL.Query().Get("type"); t != "" {
		components, err = h.store.ListComponentsByType(r.Context(), project.ID, models.ComponentType(t))
	} else {
		components, err = h.store.ListComponentsByProject(r.Context(), project.ID)
	}
	if err != nil {
		writeAPIError(w, h.logger, apperr.ReportFailed(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"components": components})
}

// Relationships lists a project's edges.
func (h *ReportHandler) Relationships(w http.ResponseWriter, r *http.Request) {
	project, ok := projectOr404(w, r, h.logger, h.store)
	if !ok {
		return
	}

	relationships, err := h.store.ListRelationshipsByProject(r.Context(), project.ID)
	if err != nil {
		writeAPIError(w, h.logger, apperr.ReportFailed(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"relationships": relationships})
}

// Violations runs the consistency validator on demand and returns the full
// report. The HTTP status stays 200 even when findings are fatal; the caller
// inspects the payload.
func (h *ReportHandler) Violations(w http.ResponseWriter, r *http.Request) {
	project, ok := projectOr404(w, r, h.logger, h.store)
	if !ok {
		return
	}

	report, err := validate.New(h.store, h.logger).Run(r.Context(), project.ID)
	if err != nil {
		writeAPIError(w, h.logger, apperr.ReportFailed(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"failed": report.Failed(),
		"report": report,
	})
}
