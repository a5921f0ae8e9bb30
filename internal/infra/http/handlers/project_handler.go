package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ProjectHandler struct {
	Projects entity.ProjectRepositoryInterface
	Logger   *zap.Logger
}

func NewProjectHandler(projects entity.ProjectRepositoryInterface, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{Projects: projects, Logger: logger}
}

// List aceita ?clientId= para filtrar pelos projetos de um cliente.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	clientID, ok := optionalIDQuery(w, r, "clientId")
	if !ok {
		return
	}
	projects, err := h.Projects.List(r.Context(), clientID)
	if err != nil {
		storeError(w, h.Logger, err, "projects")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p entity.Project
	if !decodeJSON(w, r, &p) {
		return
	}
	p.ID = 0
	if err := usecase.ValidateProject(&p); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if err := h.Projects.Create(r.Context(), &p); err != nil {
		createError(w, h.Logger, err, "project", "Invalid clientId")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
