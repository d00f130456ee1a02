package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/codemap-labs/codemap/internal/store"
	"github.com/codemap-labs/codemap/pkg/apperr"
	"github.com/codemap-labs/codemap/pkg/models"
)

type ProjectHandler struct {
	logger *slog.Logger
	store  *store.Store
}

func NewProjectHandler(logger *slog.Logger, s *store.Store) *ProjectHandler {
	return &ProjectHandler{logger: logger, store: s}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context())
	if err != nil {
		writeAPIError(w, h.logger, apperr.ProjectListFailed(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, ok := projectOr404(w, r, h.logger, h.store)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// projectOr404 resolves the {projectID} URL parameter or writes the error
// response and returns ok=false.
func projectOr404(w http.ResponseWriter, r *http.Request, logger *slog.Logger, s *store.Store) (models.Project, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeAPIError(w, logger, apperr.InvalidID("project"))
		return models.Project{}, false
	}
	project, err := s.GetProjectByID(r.Context(), id)
	if apperr.IsNotFound(err) {
		writeAPIError(w, logger, apperr.ProjectNotFound())
		return models.Project{}, false
	}
	if err != nil {
		writeAPIError(w, logger, apperr.InternalError(err))
		return models.Project{}, false
	}
	return project, true
}
