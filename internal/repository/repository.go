// Package repository defines the persistence contracts for the domain
// entities and provides in-memory implementations used by tests and the
// development storage mode. Absence is always reported as a
// model.NotFoundError, never as a nil value.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskops/taskboard/internal/model"
)

// Filters narrows paginated listings. Keys are column names; unknown keys
// are ignored by implementations.
type Filters map[string]any

// UserRepository is the persistence contract for users.
type UserRepository interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	Update(ctx context.Context, user model.User) (model.User, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	GetPaginated(ctx context.Context, offset, limit int, filters Filters) ([]model.User, int, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// TaskListRepository is the persistence contract for task lists.
type TaskListRepository interface {
	Create(ctx context.Context, list model.TaskList) (model.TaskList, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.TaskList, error)
	Update(ctx context.Context, list model.TaskList) (model.TaskList, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	GetPaginated(ctx context.Context, offset, limit int, filters Filters) ([]model.TaskList, int, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// TaskRepository is the persistence contract for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task model.Task) (model.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Task, error)
	Update(ctx context.Context, task model.Task) (model.Task, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	GetByTaskListID(ctx context.Context, taskListID uuid.UUID) ([]model.Task, error)
	GetByAssignedUserID(ctx context.Context, userID uuid.UUID) ([]model.Task, error)
	CountByTaskListID(ctx context.Context, taskListID uuid.UUID) (int, error)
	DeleteByTaskListID(ctx context.Context, taskListID uuid.UUID) (int, error)
	GetPaginated(ctx context.Context, offset, limit int, filters Filters) ([]model.Task, int, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
