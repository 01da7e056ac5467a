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

// TaskListHandler handles HTTP requests for task lists.
type TaskListHandler struct {
	uc      *usecase.TaskListUseCases
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewTaskListHandler creates a new TaskListHandler.
func NewTaskListHandler(uc *usecase.TaskListUseCases, logger *slog.Logger, metrics *telemetry.Metrics) *TaskListHandler {
	return &TaskListHandler{uc: uc, logger: logger, metrics: metrics}
}

// Routes returns the chi router with task list routes.
func (h *TaskListHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Get("/{id}/tasks", h.Tasks)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

type createTaskListRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
}

type updateTaskListRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// taskListResponse carries a task list with optional aggregate stats.
type taskListResponse struct {
	model.TaskList
	Stats *usecase.TaskListStats `json:"stats,omitempty"`
}

// taskListTasksResponse carries a task list, its stats and one page of
// its tasks.
type taskListTasksResponse struct {
	model.TaskList
	Stats *usecase.TaskListStats `json:"stats"`
	Tasks paginatedResponse      `json:"tasks"`
}

// Create adds a new task list.
func (h *TaskListHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "TaskListHandler.Create")
	defer span.End()

	var req createTaskListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid request body", slog.Any("error", err))
		respondError(w, http.StatusBadRequest, "invalid request body")
		recordMetrics(ctx, h.metrics, "POST", "/api/v1/tasklists", http.StatusBadRequest, start)
		return
	}

	h.logger.InfoContext(ctx, "creating task list", slog.String("name", req.Name))

	list, err := h.uc.Create.Execute(ctx, usecase.CreateTaskListInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create task list", slog.Any("error", err))
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "POST", "/api/v1/tasklists", status, start)
		return
	}

	span.SetAttributes(attribute.String("tasklist.id", list.ID.String()))
	respondJSON(w, http.StatusCreated, list)
	recordMetrics(ctx, h.metrics, "POST", "/api/v1/tasklists", http.StatusCreated, start)
}

// List returns a page of task lists.
func (h *TaskListHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "TaskListHandler.List")
	defer span.End()

	params := pageParams(r)
	filters := repository.Filters{}
	if raw := r.URL.Query().Get("owner_id"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid owner_id")
			recordMetrics(ctx, h.metrics, "GET", "/api/v1/tasklists", http.StatusBadRequest, start)
			return
		}
		filters["owner_id"] = ownerID
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filters["search"] = search
	}

	lists, total, err := h.uc.List.Execute(ctx, params, filters)
	if err != nil {
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "GET", "/api/v1/tasklists", status, start)
		return
	}

	span.SetAttributes(attribute.Int("tasklist.count", len(lists)))
	respondJSON(w, http.StatusOK, newPaginatedResponse(lists, total, params))
	recordMetrics(ctx, h.metrics, "GET", "/api/v1/tasklists", http.StatusOK, start)
}

// GetByID returns a task list, with stats when include_stats=true.
func (h *TaskListHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task list id")
		return
	}

	includeStats := r.URL.Query().Get("include_stats") == "true"

	ctx, span := tracer.Start(ctx, "TaskListHandler.GetByID",
		trace.WithAttributes(
			attribute.String("tasklist.id", id.String()),
			attribute.Bool("tasklist.include_stats", includeStats),
		),
	)
	defer span.End()

	list, stats, err := h.uc.Get.Execute(ctx, id, includeStats)
	if err != nil {
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "GET", "/api/v1/tasklists/{id}", status, start)
		return
	}

	respondJSON(w, http.StatusOK, taskListResponse{TaskList: list, Stats: stats})
	recordMetrics(ctx, h.metrics, "GET", "/api/v1/tasklists/{id}", http.StatusOK, start)
}

// Tasks returns a task list with its stats and a filtered page of its
// tasks.
func (h *TaskListHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task list id")
		return
	}

	ctx, span := tracer.Start(ctx, "TaskListHandler.Tasks",
		trace.WithAttributes(attribute.String("tasklist.id", id.String())),
	)
	defer span.End()

	params := pageParams(r)
	filters, err := taskFilters(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		recordMetrics(ctx, h.metrics, "GET", "/api/v1/tasklists/{id}/tasks", http.StatusBadRequest, start)
		return
	}

	list, stats, tasks, total, err := h.uc.Tasks.Execute(ctx, id, params, filters)
	if err != nil {
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "GET", "/api/v1/tasklists/{id}/tasks", status, start)
		return
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	respondJSON(w, http.StatusOK, taskListTasksResponse{
		TaskList: list,
		Stats:    stats,
		Tasks:    newPaginatedResponse(tasks, total, params),
	})
	recordMetrics(ctx, h.metrics, "GET", "/api/v1/tasklists/{id}/tasks", http.StatusOK, start)
}

// Update modifies a task list.
func (h *TaskListHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task list id")
		return
	}

	ctx, span := tracer.Start(ctx, "TaskListHandler.Update",
		trace.WithAttributes(attribute.String("tasklist.id", id.String())),
	)
	defer span.End()

	var req updateTaskListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		recordMetrics(ctx, h.metrics, "PUT", "/api/v1/tasklists/{id}", http.StatusBadRequest, start)
		return
	}

	list, err := h.uc.Update.Execute(ctx, id, usecase.UpdateTaskListInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to update task list", slog.Any("error", err))
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "PUT", "/api/v1/tasklists/{id}", status, start)
		return
	}

	respondJSON(w, http.StatusOK, list)
	recordMetrics(ctx, h.metrics, "PUT", "/api/v1/tasklists/{id}", http.StatusOK, start)
}

// Delete removes a task list and its tasks.
func (h *TaskListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task list id")
		return
	}

	ctx, span := tracer.Start(ctx, "TaskListHandler.Delete",
		trace.WithAttributes(attribute.String("tasklist.id", id.String())),
	)
	defer span.End()

	if err := h.uc.Delete.Execute(ctx, id); err != nil {
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "DELETE", "/api/v1/tasklists/{id}", status, start)
		return
	}

	h.logger.InfoContext(ctx, "task list deleted", slog.String("id", id.String()))
	w.WriteHeader(http.StatusNoContent)
	recordMetrics(ctx, h.metrics, "DELETE", "/api/v1/tasklists/{id}", http.StatusNoContent, start)
}
