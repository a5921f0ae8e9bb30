package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ErrorResponse struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message"`
	Details []usecase.ValidationError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

var domainStatus = map[string]int{
	usecase.ErrCodeValidation:      http.StatusBadRequest,
	usecase.ErrCodeNotFound:        http.StatusNotFound,
	usecase.ErrCodeConflict:        http.StatusConflict,
	usecase.ErrCodeInvalidFile:     http.StatusBadRequest,
	usecase.ErrCodeNoValidRows:     http.StatusBadRequest,
	usecase.ErrCodeDuplicateSale:   http.StatusConflict,
	usecase.ErrCodeInvalidStatus:   http.StatusConflict,
	usecase.ErrCodeInvalidDupMode:  http.StatusBadRequest,
	usecase.ErrCodeInvalidRelation: http.StatusBadRequest,
}

// writeError traduz os erros dos use cases para status + corpo JSON.
// Erro técnico é logado com a causa e devolvido com a mensagem completa.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		ve usecase.ValidationErrors
		de *usecase.DomainError
		te *usecase.TechnicalError
	)

	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   usecase.ErrCodeValidation,
			Message: ve.Error(),
			Details: ve,
		})
	case errors.As(err, &de):
		status, ok := domainStatus[de.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		writeErrorResponse(w, status, de.Code, de.Message)
	case errors.As(err, &te):
		logger.Error(te.Message, zap.String("code", te.Code), zap.Error(te.Err))
		writeErrorResponse(w, http.StatusInternalServerError, te.Code, te.Error())
	default:
		logger.Error("unexpected error", zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// idParam lê um id numérico da rota; responde 400 quando não é número.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeErrorResponse(w, http.StatusBadRequest, usecase.ErrCodeValidation, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// optionalIDQuery lê ?name=<id>; ausente devolve nil.
func optionalIDQuery(w http.ResponseWriter, r *http.Request, name string) (*int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeErrorResponse(w, http.StatusBadRequest, usecase.ErrCodeValidation, name+" must be a positive integer")
		return nil, false
	}
	return &id, true
}

func notFound(w http.ResponseWriter, what string) {
	writeErrorResponse(w, http.StatusNotFound, usecase.ErrCodeNotFound, what+" not found")
}

// storeError cobre o caso comum de leitura: ErrNotFound vira 404, resto 500.
func storeError(w http.ResponseWriter, logger *zap.Logger, err error, what string) {
	if isNotFound(err) {
		notFound(w, what)
		return
	}
	writeError(w, logger, &usecase.TechnicalError{Code: usecase.ErrCodeDatabase, Message: "failed to load " + what, Err: err})
}

func isNotFound(err error) bool {
	return errors.Is(err, entity.ErrNotFound)
}

// createError mapeia as falhas de insert: FK inválida vira 400, unique vira 409.
func createError(w http.ResponseWriter, logger *zap.Logger, err error, what, refMessage string) {
	switch {
	case errors.Is(err, entity.ErrInvalidReference):
		writeErrorResponse(w, http.StatusBadRequest, usecase.ErrCodeInvalidRelation, refMessage)
	case errors.Is(err, entity.ErrDuplicate):
		writeErrorResponse(w, http.StatusConflict, usecase.ErrCodeConflict, what+" already exists")
	default:
		writeError(w, logger, &usecase.TechnicalError{Code: usecase.ErrCodeDatabase, Message: "failed to create " + what, Err: err})
	}
}
