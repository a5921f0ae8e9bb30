package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ClientHandler struct {
	Repo   entity.ClientRepositoryInterface
	Logger *zap.Logger
}

func NewClientHandler(repo entity.ClientRepositoryInterface, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{Repo: repo, Logger: logger}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Repo.List(r.Context())
	if err != nil {
		storeError(w, h.Logger, err, "clients")
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "clientId")
	if !ok {
		return
	}
	client, err := h.Repo.FindByID(r.Context(), id)
	if err != nil {
		storeError(w, h.Logger, err, "Client")
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c entity.Client
	if !decodeJSON(w, r, &c) {
		return
	}
	c.ID = 0
	c.CompanyName = strings.TrimSpace(c.CompanyName)
	c.Email = strings.TrimSpace(c.Email)

	if err := usecase.ValidateClient(&c); err != nil {
		writeError(w, h.Logger, err)
		return
	}

	if err := h.Repo.Create(r.Context(), &c); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			writeErrorResponse(w, http.StatusConflict, usecase.ErrCodeConflict, "A client with this email or company name already exists")
			return
		}
		writeError(w, h.Logger, &usecase.TechnicalError{Code: usecase.ErrCodeDatabase, Message: "failed to create client", Err: err})
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

type ClientAliasHandler struct {
	Repo   entity.ClientAliasRepositoryInterface
	Logger *zap.Logger
}

func NewClientAliasHandler(repo entity.ClientAliasRepositoryInterface, logger *zap.Logger) *ClientAliasHandler {
	return &ClientAliasHandler{Repo: repo, Logger: logger}
}

func (h *ClientAliasHandler) List(w http.ResponseWriter, r *http.Request) {
	aliases, err := h.Repo.List(r.Context())
	if err != nil {
		storeError(w, h.Logger, err, "client aliases")
		return
	}
	writeJSON(w, http.StatusOK, aliases)
}

// Upsert recebe a lista inteira: [{"name": "...", "clientId": 1}, ...].
func (h *ClientAliasHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var aliases []entity.ClientAlias
	if !decodeJSON(w, r, &aliases) {
		return
	}

	var problems usecase.ValidationErrors
	for i := range aliases {
		aliases[i].Name = strings.TrimSpace(aliases[i].Name)
		if aliases[i].Name == "" {
			problems = append(problems, usecase.ValidationError{Field: "name", Message: "is required"})
		}
		if aliases[i].ClientID <= 0 {
			problems = append(problems, usecase.ValidationError{Field: "clientId", Message: "must be a positive integer"})
		}
	}
	if len(problems) > 0 {
		writeError(w, h.Logger, problems)
		return
	}

	n, err := h.Repo.Upsert(r.Context(), aliases)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidReference) {
			writeErrorResponse(w, http.StatusBadRequest, usecase.ErrCodeInvalidRelation, "Invalid clientId")
			return
		}
		writeError(w, h.Logger, &usecase.TechnicalError{Code: usecase.ErrCodeDatabase, Message: "failed to store client aliases", Err: err})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"upserted": n})
}
