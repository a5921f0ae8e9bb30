package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type UserHandler struct {
	Users  entity.UserRepositoryInterface
	Logger *zap.Logger
}

func NewUserHandler(users entity.UserRepositoryInterface, logger *zap.Logger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		storeError(w, h.Logger, err, "users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}
