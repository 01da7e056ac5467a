// Package handler exposes the REST surface over chi. Handlers decode and
// validate transport input, call one use case, and translate domain
// errors into HTTP status codes: NotFound to 404, AlreadyExists to 409,
// Validation to 400.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskops/taskboard/internal/model"
	"github.com/taskops/taskboard/internal/telemetry"
	"github.com/taskops/taskboard/internal/usecase"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("github.com/taskops/taskboard/internal/handler")

// paginatedResponse is the envelope for list endpoints.
type paginatedResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

func newPaginatedResponse(items any, total int, params usecase.PageParams) paginatedResponse {
	pages := 0
	if params.Size > 0 {
		pages = (total + params.Size - 1) / params.Size
	}
	return paginatedResponse{
		Items: items,
		Total: total,
		Page:  params.Page,
		Size:  params.Size,
		Pages: pages,
	}
}

// pageParams reads 1-based page/size query parameters with defaults.
// Malformed values pass through so the use case rejects them.
func pageParams(r *http.Request) usecase.PageParams {
	params := usecase.PageParams{Page: 1, Size: 50}
	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			params.Page = page
		} else {
			params.Page = 0
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil {
			params.Size = size
		} else {
			params.Size = 0
		}
	}
	return params
}

func urlUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps a domain error onto the HTTP surface.
func respondDomainError(w http.ResponseWriter, err error) int {
	switch {
	case model.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
		return http.StatusNotFound
	case model.IsAlreadyExists(err):
		respondError(w, http.StatusConflict, err.Error())
		return http.StatusConflict
	case model.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
		return http.StatusBadRequest
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
		return http.StatusInternalServerError
	}
}

func recordMetrics(ctx context.Context, metrics *telemetry.Metrics, method, route string, status int, start time.Time) {
	if metrics == nil {
		return
	}
	duration := time.Since(start).Seconds()

	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)

	metrics.RequestCounter.Add(ctx, 1, attrs)
	metrics.RequestDuration.Record(ctx, duration, attrs)
}

// Health returns a health check response.
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
