package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LeadHandler struct {
	Leads       entity.LeadRepositoryInterface
	StatusUC    *usecase.UpdateLeadStatusUseCase
	SyncUC      *usecase.SyncLeadsUseCase
	Logger      *zap.Logger
	rateLimiter *RateLimiter
}

// ctx encerra a limpeza do rate limiter.
func NewLeadHandler(
	ctx context.Context,
	leads entity.LeadRepositoryInterface,
	statusUC *usecase.UpdateLeadStatusUseCase,
	syncUC *usecase.SyncLeadsUseCase,
	logger *zap.Logger,
) *LeadHandler {
	return &LeadHandler{
		Leads:       leads,
		StatusUC:    statusUC,
		SyncUC:      syncUC,
		Logger:      logger,
		rateLimiter: NewRateLimiter(ctx, 10, time.Minute), // 10 req/min por IP
	}
}

type CreateLeadRequest struct {
	Name       string  `json:"name"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Company    *string `json:"company,omitempty"`
	Status     string  `json:"status,omitempty"`
	Source     *string `json:"source,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	ClientID   *int64  `json:"clientId,omitempty"`
	AssignedTo *int64  `json:"assignedTo,omitempty"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status"`
}

type SyncLeadsResponse struct {
	Message string `json:"message"`
	*usecase.SyncLeadsOutput
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.List(r.Context())
	if err != nil {
		storeError(w, h.Logger, err, "leads")
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "leadId")
	if !ok {
		return
	}
	lead, err := h.Leads.FindByID(r.Context(), id)
	if err != nil {
		storeError(w, h.Logger, err, "Lead")
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return
	}

	var req CreateLeadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lead := &entity.Lead{
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		Phone:      req.Phone,
		Company:    req.Company,
		Status:     entity.LeadStatus(req.Status),
		Source:     req.Source,
		Notes:      req.Notes,
		ClientID:   req.ClientID,
		AssignedTo: req.AssignedTo,
	}
	if err := usecase.ValidateLead(lead); err != nil {
		writeError(w, h.Logger, err)
		return
	}

	if err := h.Leads.Create(r.Context(), lead); err != nil {
		switch {
		case errors.Is(err, entity.ErrDuplicate):
			writeErrorResponse(w, http.StatusConflict, usecase.ErrCodeConflict, "A lead with this email already exists")
		case errors.Is(err, entity.ErrInvalidReference):
			writeErrorResponse(w, http.StatusBadRequest, usecase.ErrCodeInvalidRelation, "Invalid clientId or assignedTo")
		default:
			writeError(w, h.Logger, &usecase.TechnicalError{Code: usecase.ErrCodeDatabase, Message: "failed to create lead", Err: err})
		}
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "leadId")
	if !ok {
		return
	}
	var req UpdateLeadStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lead, err := h.StatusUC.Execute(r.Context(), id, entity.LeadStatus(req.Status))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// Sync puxa os leads do chatbot. Também responde no GET legado /leads/update/bot.
func (h *LeadHandler) Sync(w http.ResponseWriter, r *http.Request) {
	out, err := h.SyncUC.Execute(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, SyncLeadsResponse{
		Message:         fmt.Sprintf("New leads loaded successfully. %d new leads added.", out.Inserted),
		SyncLeadsOutput: out,
	})
}

// getClientIP usa o primeiro IP do X-Forwarded-For quando existir.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(ctx context.Context, limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup(ctx)
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
