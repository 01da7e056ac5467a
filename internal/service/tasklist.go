package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskops/taskboard/internal/model"
	"github.com/taskops/taskboard/internal/repository"
)

// TaskListDomainService is a thin orchestration layer over the task list
// repository. It carries no business rules of its own.
type TaskListDomainService struct {
	taskLists repository.TaskListRepository
}

// NewTaskListDomainService creates a TaskListDomainService.
func NewTaskListDomainService(taskLists repository.TaskListRepository) *TaskListDomainService {
	return &TaskListDomainService{taskLists: taskLists}
}

// CreateTaskList persists a new task list.
func (s *TaskListDomainService) CreateTaskList(ctx context.Context, list model.TaskList) (model.TaskList, error) {
	return s.taskLists.Create(ctx, list)
}

// GetTaskListByID fetches a task list by ID.
func (s *TaskListDomainService) GetTaskListByID(ctx context.Context, id uuid.UUID) (model.TaskList, error) {
	return s.taskLists.GetByID(ctx, id)
}

// GetPaginatedTaskLists fetches a page of task lists and the total match count.
func (s *TaskListDomainService) GetPaginatedTaskLists(ctx context.Context, offset, limit int, filters repository.Filters) ([]model.TaskList, int, error) {
	return s.taskLists.GetPaginated(ctx, offset, limit, filters)
}

// DeleteTaskList removes a task list. It reports whether a list was removed.
func (s *TaskListDomainService) DeleteTaskList(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.taskLists.Delete(ctx, id)
}

// TaskListExists reports whether a task list exists.
func (s *TaskListDomainService) TaskListExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.taskLists.Exists(ctx, id)
}
