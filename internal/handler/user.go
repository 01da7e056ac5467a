package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/taskops/taskboard/internal/repository"
	"github.com/taskops/taskboard/internal/telemetry"
	"github.com/taskops/taskboard/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	uc      *usecase.UserUseCases
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(uc *usecase.UserUseCases, logger *slog.Logger, metrics *telemetry.Metrics) *UserHandler {
	return &UserHandler{uc: uc, logger: logger, metrics: metrics}
}

// Routes returns the chi router with user routes.
func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/email/{email}", h.GetByEmail)
	r.Get("/username/{username}", h.GetByUsername)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/activate", h.Activate)
	r.Post("/{id}/deactivate", h.Deactivate)

	return r
}

type createUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

type updateUserRequest struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// Create adds a new user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "UserHandler.Create")
	defer span.End()

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid request body", slog.Any("error", err))
		respondError(w, http.StatusBadRequest, "invalid request body")
		recordMetrics(ctx, h.metrics, "POST", "/api/v1/users", http.StatusBadRequest, start)
		return
	}

	h.logger.InfoContext(ctx, "creating user", slog.String("username", req.Username))

	user, err := h.uc.Create.Execute(ctx, usecase.CreateUserInput{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create user", slog.Any("error", err))
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "POST", "/api/v1/users", status, start)
		return
	}

	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	h.logger.InfoContext(ctx, "user created", slog.String("id", user.ID.String()))

	respondJSON(w, http.StatusCreated, user)
	recordMetrics(ctx, h.metrics, "POST", "/api/v1/users", http.StatusCreated, start)
}

// List returns a page of users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "UserHandler.List")
	defer span.End()

	params := pageParams(r)
	filters := repository.Filters{}
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid is_active")
			recordMetrics(ctx, h.metrics, "GET", "/api/v1/users", http.StatusBadRequest, start)
			return
		}
		filters["is_active"] = active
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filters["search"] = search
	}

	users, total, err := h.uc.List.Execute(ctx, params, filters)
	if err != nil {
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "GET", "/api/v1/users", status, start)
		return
	}

	span.SetAttributes(attribute.Int("user.count", len(users)))
	respondJSON(w, http.StatusOK, newPaginatedResponse(users, total, params))
	recordMetrics(ctx, h.metrics, "GET", "/api/v1/users", http.StatusOK, start)
}

// GetByID returns a user by ID.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, span := tracer.Start(ctx, "UserHandler.GetByID",
		trace.WithAttributes(attribute.String("user.id", id.String())),
	)
	defer span.End()

	user, err := h.uc.Get.Execute(ctx, id)
	if err != nil {
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "GET", "/api/v1/users/{id}", status, start)
		return
	}

	respondJSON(w, http.StatusOK, user)
	recordMetrics(ctx, h.metrics, "GET", "/api/v1/users/{id}", http.StatusOK, start)
}

// GetByEmail returns a user by email address.
func (h *UserHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "UserHandler.GetByEmail")
	defer span.End()

	user, err := h.uc.GetByEmail.Execute(ctx, chi.URLParam(r, "email"))
	if err != nil {
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "GET", "/api/v1/users/email/{email}", status, start)
		return
	}

	respondJSON(w, http.StatusOK, user)
	recordMetrics(ctx, h.metrics, "GET", "/api/v1/users/email/{email}", http.StatusOK, start)
}

// GetByUsername returns a user by username.
func (h *UserHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	username := chi.URLParam(r, "username")
	ctx, span := tracer.Start(ctx, "UserHandler.GetByUsername",
		trace.WithAttributes(attribute.String("user.username", username)),
	)
	defer span.End()

	user, err := h.uc.GetByUsername.Execute(ctx, username)
	if err != nil {
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "GET", "/api/v1/users/username/{username}", status, start)
		return
	}

	respondJSON(w, http.StatusOK, user)
	recordMetrics(ctx, h.metrics, "GET", "/api/v1/users/username/{username}", http.StatusOK, start)
}

// Update modifies a user's profile.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, span := tracer.Start(ctx, "UserHandler.Update",
		trace.WithAttributes(attribute.String("user.id", id.String())),
	)
	defer span.End()

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		recordMetrics(ctx, h.metrics, "PUT", "/api/v1/users/{id}", http.StatusBadRequest, start)
		return
	}

	user, err := h.uc.Update.Execute(ctx, id, usecase.UpdateUserInput{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to update user", slog.Any("error", err))
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "PUT", "/api/v1/users/{id}", status, start)
		return
	}

	respondJSON(w, http.StatusOK, user)
	recordMetrics(ctx, h.metrics, "PUT", "/api/v1/users/{id}", http.StatusOK, start)
}

// Delete removes a user.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, span := tracer.Start(ctx, "UserHandler.Delete",
		trace.WithAttributes(attribute.String("user.id", id.String())),
	)
	defer span.End()

	if err := h.uc.Delete.Execute(ctx, id); err != nil {
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "DELETE", "/api/v1/users/{id}", status, start)
		return
	}

	h.logger.InfoContext(ctx, "user deleted", slog.String("id", id.String()))
	w.WriteHeader(http.StatusNoContent)
	recordMetrics(ctx, h.metrics, "DELETE", "/api/v1/users/{id}", http.StatusNoContent, start)
}

// Activate marks a user active.
func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// Deactivate marks a user inactive.
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *UserHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	ctx := r.Context()
	start := time.Now()
	route := "/api/v1/users/{id}/deactivate"
	if active {
		route = "/api/v1/users/{id}/activate"
	}

	id, err := urlUUID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, span := tracer.Start(ctx, "UserHandler.SetActive",
		trace.WithAttributes(
			attribute.String("user.id", id.String()),
			attribute.Bool("user.active", active),
		),
	)
	defer span.End()

	execute := h.uc.Deactivate.Execute
	if active {
		execute = h.uc.Activate.Execute
	}

	user, err := execute(ctx, id)
	if err != nil {
		status := respondDomainError(w, err)
		recordMetrics(ctx, h.metrics, "POST", route, status, start)
		return
	}

	respondJSON(w, http.StatusOK, user)
	recordMetrics(ctx, h.metrics, "POST", route, http.StatusOK, start)
}
