package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskops/taskboard/internal/model"
	"github.com/taskops/taskboard/internal/repository"
	"github.com/taskops/taskboard/internal/telemetry"
	"github.com/taskops/taskboard/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	uc      *usecase.TaskUseCases
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(uc *usecase.TaskUseCases, logger *slog.Logger, metrics *telemetry.Metrics) *TaskHandler {
	return &TaskHandler{uc: uc, logger: logger, metrics: metrics}
}

// Routes returns the chi router with task routes.
func (h *TaskHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Patch("/{id}/priority", h.UpdatePriority)
	r.Patch("/{id}/assign", h.UpdateAssignment)

	return r
}

type createTaskRequest struct {
	Title          string             `json:"title"`
	Description    string             `json:"description,omitempty"`
	TaskListID     uuid.UUID          `json:"task_list_id"`
	Priority       model.TaskPriority `json:"priority,omitempty"`
	AssignedUserID *uuid.UUID         `json:"assigned_user_id,omitempty"`
	DueDate        *time.Time         `json:"due_date,omitempty"`
}

type updateTaskRequest struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type updateTaskStatusRequest struct {
	Status model.TaskStatus `json:"status"`
}

type updateTaskPriorityRequest struct {
	Priority model.TaskPriority `json:"priority"`
}

type updateTaskAssignmentRequest struct {
	AssignedUserID *uuid.UUID `json:"assigned_user_id"`
}

// Create adds a new task.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "TaskHandler.Create")
	defer span.End()

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid request body", slog.Any("error", err))
		respondError(w, http.StatusBadRequest, "invalid request body")
		recordMetrics(ctx, h.metrics, "POST", "/api/v1/tasks", http.StatusBadRequest, start)
		return
	}

	h.logger.InfoContext(ctx, "creating task",
		slog.String("title", req.Title),
		slog.String("task_list_id", req.TaskListID.String()),
	)

	task, err := h.uc.Create.Execute(ctx, usecase.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		TaskListID:     req.TaskListID,
		Priority:       req.Priority,
		AssignedUserID: req.AssignedUserID,
		DueDate:        req.DueDate,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create task", slog.Any("error", err))
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "POST", "/api/v1/tasks", status, start)
		return
	}

	span.SetAttributes(attribute.String("task.id", task.ID.String()))
	respondJSON(w, http.StatusCreated, task)
	recordMetrics(ctx, h.metrics, "POST", "/api/v1/tasks", http.StatusCreated, start)
}

// List returns a page of tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "TaskHandler.List")
	defer span.End()

	params := pageParams(r)
	filters, err := taskFilters(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		recordMetrics(ctx, h.metrics, "GET", "/api/v1/tasks", http.StatusBadRequest, start)
		return
	}

	tasks, total, err := h.uc.List.Execute(ctx, params, filters)
	if err != nil {
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "GET", "/api/v1/tasks", status, start)
		return
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	respondJSON(w, http.StatusOK, newPaginatedResponse(tasks, total, params))
	recordMetrics(ctx, h.metrics, "GET", "/api/v1/tasks", http.StatusOK, start)
}

// taskFilters translates the list query parameters into repository filters.
func taskFilters(r *http.Request) (repository.Filters, error) {
	filters := repository.Filters{}
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		status := model.TaskStatus(raw)
		if !status.Valid() {
			return nil, model.NewValidationError("invalid status: %s", raw)
		}
		filters["status"] = status
	}
	if raw := q.Get("priority"); raw != "" {
		priority := model.TaskPriority(raw)
		if !priority.Valid() {
			return nil, model.NewValidationError("invalid priority: %s", raw)
		}
		filters["priority"] = priority
	}
	if raw := q.Get("task_list_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, model.NewValidationError("invalid task_list_id")
		}
		filters["task_list_id"] = id
	}
	if raw := q.Get("assigned_user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, model.NewValidationError("invalid assigned_user_id")
		}
		filters["assigned_user_id"] = id
	}
	if search := q.Get("search"); search != "" {
		filters["search"] = search
	}
	if raw := q.Get("due_date_from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, model.NewValidationError("invalid due_date_from")
		}
		filters["due_date_from"] = from
	}
	if raw := q.Get("due_date_to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, model.NewValidationError("invalid due_date_to")
		}
		filters["due_date_to"] = to
	}

	return filters, nil
}

// GetByID returns a task by ID.
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	ctx, span := tracer.Start(ctx, "TaskHandler.GetByID",
		trace.WithAttributes(attribute.String("task.id", id.String())),
	)
	defer span.End()

	task, err := h.uc.Get.Execute(ctx, id)
	if err != nil {
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "GET", "/api/v1/tasks/{id}", status, start)
		return
	}

	respondJSON(w, http.StatusOK, task)
	recordMetrics(ctx, h.metrics, "GET", "/api/v1/tasks/{id}", http.StatusOK, start)
}

// Update modifies a task's title, description or due date.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	ctx, span := tracer.Start(ctx, "TaskHandler.Update",
		trace.WithAttributes(attribute.String("task.id", id.String())),
	)
	defer span.End()

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		recordMetrics(ctx, h.metrics, "PUT", "/api/v1/tasks/{id}", http.StatusBadRequest, start)
		return
	}

	task, err := h.uc.Update.Execute(ctx, id, usecase.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to update task", slog.Any("error", err))
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "PUT", "/api/v1/tasks/{id}", status, start)
		return
	}

	respondJSON(w, http.StatusOK, task)
	recordMetrics(ctx, h.metrics, "PUT", "/api/v1/tasks/{id}", http.StatusOK, start)
}

// Delete removes a task unless it is in its archival window.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	ctx, span := tracer.Start(ctx, "TaskHandler.Delete",
		trace.WithAttributes(attribute.String("task.id", id.String())),
	)
	defer span.End()

	if err := h.uc.Delete.Execute(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "failed to delete task", slog.Any("error", err))
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "DELETE", "/api/v1/tasks/{id}", status, start)
		return
	}

	h.logger.InfoContext(ctx, "task deleted", slog.String("id", id.String()))
	w.WriteHeader(http.StatusNoContent)
	recordMetrics(ctx, h.metrics, "DELETE", "/api/v1/tasks/{id}", http.StatusNoContent, start)
}

// UpdateStatus transitions a task between statuses.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	ctx, span := tracer.Start(ctx, "TaskHandler.UpdateStatus",
		trace.WithAttributes(attribute.String("task.id", id.String())),
	)
	defer span.End()

	var req updateTaskStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		recordMetrics(ctx, h.metrics, "PATCH", "/api/v1/tasks/{id}/status", http.StatusBadRequest, start)
		return
	}

	span.SetAttributes(attribute.String("task.status", string(req.Status)))

	task, err := h.uc.UpdateStatus.Execute(ctx, id, req.Status)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to update task status", slog.Any("error", err))
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "PATCH", "/api/v1/tasks/{id}/status", status, start)
		return
	}

	respondJSON(w, http.StatusOK, task)
	recordMetrics(ctx, h.metrics, "PATCH", "/api/v1/tasks/{id}/status", http.StatusOK, start)
}

// UpdatePriority changes a task's priority.
func (h *TaskHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	ctx, span := tracer.Start(ctx, "TaskHandler.UpdatePriority",
		trace.WithAttributes(attribute.String("task.id", id.String())),
	)
	defer span.End()

	var req updateTaskPriorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		recordMetrics(ctx, h.metrics, "PATCH", "/api/v1/tasks/{id}/priority", http.StatusBadRequest, start)
		return
	}

	task, err := h.uc.UpdatePriority.Execute(ctx, id, req.Priority)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to update task priority", slog.Any("error", err))
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "PATCH", "/api/v1/tasks/{id}/priority", status, start)
		return
	}

	respondJSON(w, http.StatusOK, task)
	recordMetrics(ctx, h.metrics, "PATCH", "/api/v1/tasks/{id}/priority", http.StatusOK, start)
}

// UpdateAssignment assigns or unassigns a task. A null assigned_user_id
// unassigns.
func (h *TaskHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	ctx, span := tracer.Start(ctx, "TaskHandler.UpdateAssignment",
		trace.WithAttributes(attribute.String("task.id", id.String())),
	)
	defer span.End()

	var req updateTaskAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		recordMetrics(ctx, h.metrics, "PATCH", "/api/v1/tasks/{id}/assign", http.StatusBadRequest, start)
		return
	}

	task, err := h.uc.UpdateAssign.Execute(ctx, id, req.AssignedUserID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to update task assignment", slog.Any("error", err))
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "PATCH", "/api/v1/tasks/{id}/assign", status, start)
		return
	}

	respondJSON(w, http.StatusOK, task)
	recordMetrics(ctx, h.metrics, "PATCH", "/api/v1/tasks/{id}/assign", http.StatusOK, start)
}
