package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type TaskHandler struct {
	Tasks    entity.TaskRepositoryInterface
	CreateUC *usecase.CreateTaskUseCase
	Logger   *zap.Logger
}

func NewTaskHandler(tasks entity.TaskRepositoryInterface, createUC *usecase.CreateTaskUseCase, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{Tasks: tasks, CreateUC: createUC, Logger: logger}
}

type UpdateTaskStatusRequest struct {
	Status entity.TaskStatus `json:"status"`
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := optionalIDQuery(w, r, "projectId")
	if !ok {
		return
	}
	if projectID == nil {
		writeErrorResponse(w, http.StatusBadRequest, usecase.ErrCodeValidation, "projectId is required")
		return
	}
	tasks, err := h.Tasks.ListByProject(r.Context(), *projectID)
	if err != nil {
		storeError(w, h.Logger, err, "tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(w, r, "userId")
	if !ok {
		return
	}
	tasks, err := h.Tasks.ListByUser(r.Context(), userID)
	if err != nil {
		storeError(w, h.Logger, err, "tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var t entity.Task
	if !decodeJSON(w, r, &t) {
		return
	}
	t.ID = 0
	if err := h.CreateUC.Execute(r.Context(), &t); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "taskId")
	if !ok {
		return
	}
	var req UpdateTaskStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		writeError(w, h.Logger, usecase.ValidationErrors{{Field: "status", Message: "must be one of To Do, Work In Progress, Under Review, Completed"}})
		return
	}

	task, err := h.Tasks.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		storeError(w, h.Logger, err, "Task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	taskID, ok := idParam(w, r, "taskId")
	if !ok {
		return
	}
	if _, err := h.Tasks.FindByID(r.Context(), taskID); err != nil {
		storeError(w, h.Logger, err, "Task")
		return
	}
	comments, err := h.Tasks.ListComments(r.Context(), taskID)
	if err != nil {
		storeError(w, h.Logger, err, "comments")
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *TaskHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	taskID, ok := idParam(w, r, "taskId")
	if !ok {
		return
	}
	var c entity.Comment
	if !decodeJSON(w, r, &c) {
		return
	}
	c.ID = 0
	c.TaskID = taskID
	if err := usecase.ValidateComment(&c); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if err := h.Tasks.CreateComment(r.Context(), &c); err != nil {
		createError(w, h.Logger, err, "comment", "Invalid taskId or userId")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
