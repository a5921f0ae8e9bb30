package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ContactHandler struct {
	Contacts     entity.ContactRepositoryInterface
	Interactions entity.InteractionRepositoryInterface
	Logger       *zap.Logger
}

func NewContactHandler(contacts entity.ContactRepositoryInterface, interactions entity.InteractionRepositoryInterface, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{Contacts: contacts, Interactions: interactions, Logger: logger}
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.Contacts.List(r.Context())
	if err != nil {
		storeError(w, h.Logger, err, "contacts")
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "contactId")
	if !ok {
		return
	}
	c, err := h.Contacts.FindByID(r.Context(), id)
	if err != nil {
		storeError(w, h.Logger, err, "Contact")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c entity.Contact
	if !decodeJSON(w, r, &c) {
		return
	}
	c.ID = 0
	if err := usecase.ValidateContact(&c); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if err := h.Contacts.Create(r.Context(), &c); err != nil {
		createError(w, h.Logger, err, "contact", "Invalid clientId")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ContactHandler) ListInteractions(w http.ResponseWriter, r *http.Request) {
	items, err := h.Interactions.List(r.Context())
	if err != nil {
		storeError(w, h.Logger, err, "interactions")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ContactHandler) GetInteraction(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "interactionId")
	if !ok {
		return
	}
	i, err := h.Interactions.FindByID(r.Context(), id)
	if err != nil {
		storeError(w, h.Logger, err, "Interaction")
		return
	}
	writeJSON(w, http.StatusOK, i)
}

func (h *ContactHandler) CreateInteraction(w http.ResponseWriter, r *http.Request) {
	var i entity.Interaction
	if !decodeJSON(w, r, &i) {
		return
	}
	i.ID = 0
	if err := usecase.ValidateInteraction(&i); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if err := h.Interactions.Create(r.Context(), &i); err != nil {
		createError(w, h.Logger, err, "interaction", "Invalid clientId or contactId")
		return
	}
	writeJSON(w, http.StatusCreated, i)
}
