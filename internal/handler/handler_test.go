package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskops/taskboard/internal/model"
	"github.com/taskops/taskboard/internal/repository"
	"github.com/taskops/taskboard/internal/service"
	"github.com/taskops/taskboard/internal/usecase"
)

// newTestRouter mounts the full API over in-memory repositories.
func newTestRouter() chi.Router {
	users := repository.NewInMemoryUserRepository()
	taskLists := repository.NewInMemoryTaskListRepository()
	tasks := repository.NewInMemoryTaskRepository()

	userSvc := service.NewUserDomainService(users)
	taskSvc := service.NewTaskDomainService(tasks, taskLists, users)
	taskListSvc := service.NewTaskListDomainService(taskLists)

	userVal := usecase.NewUserValidationService(userSvc)
	taskVal := usecase.NewTaskValidationService(taskSvc)
	taskListVal := usecase.NewTaskListValidationService(taskListSvc, users)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userHandler := NewUserHandler(usecase.NewUserUseCases(users, userSvc, userVal), logger, nil)
	taskListHandler := NewTaskListHandler(usecase.NewTaskListUseCases(taskListSvc, taskListVal, taskLists, tasks, taskSvc), logger, nil)
	taskHandler := NewTaskHandler(usecase.NewTaskUseCases(tasks, taskVal, taskListVal), logger, nil)

	r := chi.NewRouter()
	r.Get("/health", Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/users", userHandler.Routes())
		r.Mount("/tasklists", taskListHandler.Routes())
		r.Mount("/tasks", taskHandler.Routes())
	})
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func createTestUser(t *testing.T, r chi.Router, username string) model.User {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/api/v1/users", map[string]string{
		"email":     username + "@example.com",
		"username":  username,
		"full_name": "Test User",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.User](t, rec)
}

func createTestTaskList(t *testing.T, r chi.Router, name string, ownerID *uuid.UUID) model.TaskList {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/api/v1/tasklists", map[string]any{
		"name":     name,
		"owner_id": ownerID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.TaskList](t, rec)
}

func createTestTask(t *testing.T, r chi.Router, title string, taskListID uuid.UUID) model.Task {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/api/v1/tasks", map[string]any{
		"title":        title,
		"task_list_id": taskListID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.Task](t, rec)
}

func TestHealth(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateUser(t *testing.T) {
	r := newTestRouter()

	user := createTestUser(t, r, "alice")
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, uuid.Nil, user.ID)
}

func TestCreateUserConflict(t *testing.T) {
	r := newTestRouter()
	createTestUser(t, r, "alice")

	rec := doJSON(t, r, http.MethodPost, "/api/v1/users", map[string]string{
		"email":     "alice@example.com",
		"username":  "alice2",
		"full_name": "Other",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateUserInvalid(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"email": "not-an-email", "username": "alice", "full_name": "A"}},
		{"short username", map[string]string{"email": "a@example.com", "username": "ab", "full_name": "A"}},
		{"leading underscore", map[string]string{"email": "a@example.com", "username": "_alice", "full_name": "A"}},
		{"empty full name", map[string]string{"email": "a@example.com", "username": "alice", "full_name": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, "/api/v1/users", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetUserNotFound(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodGet, "/api/v1/users/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUserInvalidID(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodGet, "/api/v1/users/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListUsersPagination(t *testing.T) {
	r := newTestRouter()
	for i := 0; i < 5; i++ {
		createTestUser(t, r, fmt.Sprintf("user%d", i))
	}

	rec := doJSON(t, r, http.MethodGet, "/api/v1/users?page=2&size=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[paginatedResponse](t, rec)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Size)
	assert.Equal(t, 3, page.Pages)
	assert.Len(t, page.Items, 2)
}

func TestListUsersInvalidPage(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodGet, "/api/v1/users?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUser(t *testing.T) {
	r := newTestRouter()
	user := createTestUser(t, r, "alice")

	rec := doJSON(t, r, http.MethodPut, "/api/v1/users/"+user.ID.String(), map[string]string{
		"full_name": "Alice Renamed",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decode[model.User](t, rec)
	assert.Equal(t, "Alice Renamed", updated.FullName)
	assert.Equal(t, "alice", updated.Username)
}

func TestUpdateUserValidation(t *testing.T) {
	r := newTestRouter()
	user := createTestUser(t, r, "alice")

	tests := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"email": "not-an-email"}},
		{"short username", map[string]string{"username": "ab"}},
		{"leading underscore", map[string]string{"username": "_alice"}},
		{"over-long full name", map[string]string{"full_name": strings.Repeat("a", 101)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPut, "/api/v1/users/"+user.ID.String(), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	// The profile is untouched after the rejected updates.
	rec := doJSON(t, r, http.MethodGet, "/api/v1/users/"+user.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", decode[model.User](t, rec).Email)
}

func TestUpdateUserMalformedUsernameBeatsConflict(t *testing.T) {
	r := newTestRouter()
	createTestUser(t, r, "alice")
	bob := createTestUser(t, r, "bob")

	// A malformed replacement username is a validation failure, not a
	// uniqueness conflict.
	rec := doJSON(t, r, http.MethodPut, "/api/v1/users/"+bob.ID.String(), map[string]string{
		"username": "_a",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = doJSON(t, r, http.MethodPut, "/api/v1/users/"+bob.ID.String(), map[string]string{
		"username": "alice",
	})
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestGetUserByEmail(t *testing.T) {
	r := newTestRouter()
	user := createTestUser(t, r, "alice")

	rec := doJSON(t, r, http.MethodGet, "/api/v1/users/email/alice@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, decode[model.User](t, rec).ID)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/users/email/ghost@example.com", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUserByUsername(t *testing.T) {
	r := newTestRouter()
	user := createTestUser(t, r, "alice")

	rec := doJSON(t, r, http.MethodGet, "/api/v1/users/username/alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, decode[model.User](t, rec).ID)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/users/username/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListUsersSearch(t *testing.T) {
	r := newTestRouter()
	createTestUser(t, r, "alice")
	createTestUser(t, r, "bob")

	rec := doJSON(t, r, http.MethodGet, "/api/v1/users?search=BOB", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[paginatedResponse](t, rec).Total)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/users?search=example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[paginatedResponse](t, rec).Total)
}

func TestListUsersInvalidIsActive(t *testing.T) {
	r := newTestRouter()
	createTestUser(t, r, "alice")

	rec := doJSON(t, r, http.MethodGet, "/api/v1/users?is_active=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/users?is_active=false", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[paginatedResponse](t, rec).Total)
}

func TestDeleteUser(t *testing.T) {
	r := newTestRouter()
	user := createTestUser(t, r, "alice")

	rec := doJSON(t, r, http.MethodDelete, "/api/v1/users/"+user.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/users/"+user.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestActivateDeactivateUser(t *testing.T) {
	r := newTestRouter()
	user := createTestUser(t, r, "alice")

	rec := doJSON(t, r, http.MethodPost, "/api/v1/users/"+user.ID.String()+"/deactivate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[model.User](t, rec).IsActive)

	rec = doJSON(t, r, http.MethodPost, "/api/v1/users/"+user.ID.String()+"/activate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[model.User](t, rec).IsActive)
}

func TestCreateTaskList(t *testing.T) {
	r := newTestRouter()
	owner := createTestUser(t, r, "alice")

	list := createTestTaskList(t, r, "Work", &owner.ID)
	assert.Equal(t, "Work", list.Name)
	require.NotNil(t, list.OwnerID)
	assert.Equal(t, owner.ID, *list.OwnerID)
}

func TestCreateTaskListUnknownOwner(t *testing.T) {
	r := newTestRouter()
	ownerID := uuid.New()

	rec := doJSON(t, r, http.MethodPost, "/api/v1/tasklists", map[string]any{
		"name":     "Work",
		"owner_id": ownerID,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTaskListWithStats(t *testing.T) {
	r := newTestRouter()
	list := createTestTaskList(t, r, "Work", nil)
	task := createTestTask(t, r, "First", list.ID)
	createTestTask(t, r, "Second", list.ID)

	rec := doJSON(t, r, http.MethodPatch, "/api/v1/tasks/"+task.ID.String()+"/status", map[string]string{
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/tasklists/"+list.ID.String()+"?include_stats=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[taskListResponse](t, rec)
	require.NotNil(t, resp.Stats)
	assert.Equal(t, 2, resp.Stats.TaskCount)
	assert.InDelta(t, 50.0, resp.Stats.CompletionRate, 0.01)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/tasklists/"+list.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[taskListResponse](t, rec).Stats)
}

func TestUpdateTaskListValidation(t *testing.T) {
	r := newTestRouter()
	list := createTestTaskList(t, r, "Work", nil)

	rec := doJSON(t, r, http.MethodPut, "/api/v1/tasklists/"+list.ID.String(), map[string]string{
		"name": strings.Repeat("n", 101),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = doJSON(t, r, http.MethodGet, "/api/v1/tasklists/"+list.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Work", decode[taskListResponse](t, rec).Name)
}

func TestListTaskListsSearch(t *testing.T) {
	r := newTestRouter()
	createTestTaskList(t, r, "Work", nil)
	createTestTaskList(t, r, "Home", nil)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/tasklists?search=wor", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[paginatedResponse](t, rec).Total)
}

func TestGetTaskListTasks(t *testing.T) {
	r := newTestRouter()
	list := createTestTaskList(t, r, "Work", nil)
	other := createTestTaskList(t, r, "Home", nil)
	task := createTestTask(t, r, "First", list.ID)
	createTestTask(t, r, "Second", list.ID)
	createTestTask(t, r, "Elsewhere", other.ID)

	rec := doJSON(t, r, http.MethodPatch, "/api/v1/tasks/"+task.ID.String()+"/status", map[string]string{
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/tasklists/"+list.ID.String()+"/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[taskListTasksResponse](t, rec)
	assert.Equal(t, "Work", resp.Name)
	require.NotNil(t, resp.Stats)
	assert.Equal(t, 2, resp.Stats.TaskCount)
	assert.InDelta(t, 50.0, resp.Stats.CompletionRate, 0.01)
	assert.Equal(t, 2, resp.Tasks.Total)

	// Task filters narrow the page but not the stats.
	rec = doJSON(t, r, http.MethodGet, "/api/v1/tasklists/"+list.ID.String()+"/tasks?status=completed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[taskListTasksResponse](t, rec)
	assert.Equal(t, 1, resp.Tasks.Total)
	assert.Equal(t, 2, resp.Stats.TaskCount)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/tasklists/"+list.ID.String()+"/tasks?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/tasklists/"+uuid.NewString()+"/tasks", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTaskListCascades(t *testing.T) {
	r := newTestRouter()
	list := createTestTaskList(t, r, "Work", nil)
	task := createTestTask(t, r, "First", list.ID)

	rec := doJSON(t, r, http.MethodDelete, "/api/v1/tasklists/"+list.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/tasks/"+task.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTask(t *testing.T) {
	r := newTestRouter()
	list := createTestTaskList(t, r, "Work", nil)

	task := createTestTask(t, r, "First", list.ID)
	assert.Equal(t, model.StatusPending, task.Status)
	assert.Equal(t, model.PriorityMedium, task.Priority)
}

func TestCreateTaskUnknownList(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodPost, "/api/v1/tasks", map[string]any{
		"title":        "Orphan",
		"task_list_id": uuid.New(),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskStatusAndPriority(t *testing.T) {
	r := newTestRouter()
	list := createTestTaskList(t, r, "Work", nil)
	task := createTestTask(t, r, "First", list.ID)

	rec := doJSON(t, r, http.MethodPatch, "/api/v1/tasks/"+task.ID.String()+"/status", map[string]string{
		"status": "in_progress",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StatusInProgress, decode[model.Task](t, rec).Status)

	rec = doJSON(t, r, http.MethodPatch, "/api/v1/tasks/"+task.ID.String()+"/status", map[string]string{
		"status": "bogus",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPatch, "/api/v1/tasks/"+task.ID.String()+"/priority", map[string]string{
		"priority": "critical",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.PriorityCritical, decode[model.Task](t, rec).Priority)
}

func TestTaskAssignment(t *testing.T) {
	r := newTestRouter()
	user := createTestUser(t, r, "alice")
	list := createTestTaskList(t, r, "Work", nil)
	task := createTestTask(t, r, "First", list.ID)

	rec := doJSON(t, r, http.MethodPatch, "/api/v1/tasks/"+task.ID.String()+"/assign", map[string]any{
		"assigned_user_id": user.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assigned := decode[model.Task](t, rec)
	require.NotNil(t, assigned.AssignedUserID)
	assert.Equal(t, user.ID, *assigned.AssignedUserID)

	rec = doJSON(t, r, http.MethodPatch, "/api/v1/tasks/"+task.ID.String()+"/assign", map[string]any{
		"assigned_user_id": nil,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[model.Task](t, rec).AssignedUserID)
}

func TestTaskAssignmentUnknownUser(t *testing.T) {
	r := newTestRouter()
	list := createTestTaskList(t, r, "Work", nil)
	task := createTestTask(t, r, "First", list.ID)

	rec := doJSON(t, r, http.MethodPatch, "/api/v1/tasks/"+task.ID.String()+"/assign", map[string]any{
		"assigned_user_id": uuid.New(),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTasksFiltered(t *testing.T) {
	r := newTestRouter()
	list := createTestTaskList(t, r, "Work", nil)
	other := createTestTaskList(t, r, "Home", nil)
	createTestTask(t, r, "First", list.ID)
	createTestTask(t, r, "Second", other.ID)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/tasks?task_list_id="+list.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[paginatedResponse](t, rec).Total)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/tasks?status=nonsense", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTaskValidation(t *testing.T) {
	r := newTestRouter()
	list := createTestTaskList(t, r, "Work", nil)
	task := createTestTask(t, r, "First", list.ID)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"over-long title", map[string]string{"title": strings.Repeat("t", 201)}},
		{"over-long description", map[string]string{"description": strings.Repeat("d", 1001)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPut, "/api/v1/tasks/"+task.ID.String(), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	rec := doJSON(t, r, http.MethodGet, "/api/v1/tasks/"+task.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "First", decode[model.Task](t, rec).Title)
}

func TestListTasksSearch(t *testing.T) {
	r := newTestRouter()
	list := createTestTaskList(t, r, "Work", nil)
	createTestTask(t, r, "Write report", list.ID)
	createTestTask(t, r, "File taxes", list.ID)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/tasks?search=REPORT", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[paginatedResponse](t, rec).Total)
}

func TestListTasksDueDateRange(t *testing.T) {
	r := newTestRouter()
	list := createTestTaskList(t, r, "Work", nil)

	now := time.Now().UTC()
	soon := now.Add(24 * time.Hour)
	later := now.Add(30 * 24 * time.Hour)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/tasks", map[string]any{
		"title":        "Due soon",
		"task_list_id": list.ID,
		"due_date":     soon,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = doJSON(t, r, http.MethodPost, "/api/v1/tasks", map[string]any{
		"title":        "Due later",
		"task_list_id": list.ID,
		"due_date":     later,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	createTestTask(t, r, "No deadline", list.ID)

	cutoff := now.Add(7 * 24 * time.Hour).Format(time.RFC3339)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/tasks?due_date_to="+url.QueryEscape(cutoff), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[paginatedResponse](t, rec).Total)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/tasks?due_date_from="+url.QueryEscape(cutoff), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[paginatedResponse](t, rec).Total)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/tasks?due_date_from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvalidBody(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
