package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskops/taskboard/internal/model"
	"github.com/taskops/taskboard/internal/repository"
	"github.com/taskops/taskboard/internal/service"
)

// CreateTaskListInput is the parsed input for task list creation.
type CreateTaskListInput struct {
	Name        string
	Description string
	OwnerID     *uuid.UUID
}

// UpdateTaskListInput is the parsed input for a task list update. Empty
// fields are left unchanged.
type UpdateTaskListInput struct {
	Name        string
	Description string
}

// TaskListStats summarizes the tasks of one list.
type TaskListStats struct {
	TaskCount      int     `json:"task_count"`
	CompletionRate float64 `json:"completion_rate"`
}

// CreateTaskListUseCase creates a task list after owner validation.
type CreateTaskListUseCase struct {
	domain     *service.TaskListDomainService
	validation *TaskListValidationService
}

// NewCreateTaskListUseCase creates a CreateTaskListUseCase.
func NewCreateTaskListUseCase(domain *service.TaskListDomainService, validation *TaskListValidationService) *CreateTaskListUseCase {
	return &CreateTaskListUseCase{domain: domain, validation: validation}
}

// Execute validates the owner reference when present and persists the
// new task list.
func (uc *CreateTaskListUseCase) Execute(ctx context.Context, input CreateTaskListInput) (model.TaskList, error) {
	list, err := model.NewTaskList(input.Name, input.Description, input.OwnerID)
	if err != nil {
		return model.TaskList{}, err
	}
	if input.OwnerID != nil {
		if err := uc.validation.ValidateOwnerExists(ctx, *input.OwnerID); err != nil {
			return model.TaskList{}, err
		}
	}
	return uc.domain.CreateTaskList(ctx, list)
}

// GetTaskListUseCase fetches a task list, optionally with task statistics.
type GetTaskListUseCase struct {
	domain  *service.TaskListDomainService
	tasks   repository.TaskRepository
	taskSvc *service.TaskDomainService
}

// NewGetTaskListUseCase creates a GetTaskListUseCase.
func NewGetTaskListUseCase(domain *service.TaskListDomainService, tasks repository.TaskRepository, taskSvc *service.TaskDomainService) *GetTaskListUseCase {
	return &GetTaskListUseCase{domain: domain, tasks: tasks, taskSvc: taskSvc}
}

// Execute returns the task list, plus its task stats when requested.
func (uc *GetTaskListUseCase) Execute(ctx context.Context, id uuid.UUID, includeStats bool) (model.TaskList, *TaskListStats, error) {
	list, err := uc.domain.GetTaskListByID(ctx, id)
	if err != nil {
		return model.TaskList{}, nil, err
	}
	if !includeStats {
		return list, nil, nil
	}

	count, err := uc.tasks.CountByTaskListID(ctx, id)
	if err != nil {
		return model.TaskList{}, nil, fmt.Errorf("counting tasks: %w", err)
	}
	rate, err := uc.taskSvc.CalculateTaskCompletionRate(ctx, id, nil)
	if err != nil {
		return model.TaskList{}, nil, fmt.Errorf("calculating completion rate: %w", err)
	}
	return list, &TaskListStats{TaskCount: count, CompletionRate: rate}, nil
}

// GetTaskListTasksUseCase fetches a task list together with its stats
// and a filtered page of its tasks.
type GetTaskListTasksUseCase struct {
	domain  *service.TaskListDomainService
	tasks   repository.TaskRepository
	taskSvc *service.TaskDomainService
}

// NewGetTaskListTasksUseCase creates a GetTaskListTasksUseCase.
func NewGetTaskListTasksUseCase(domain *service.TaskListDomainService, tasks repository.TaskRepository, taskSvc *service.TaskDomainService) *GetTaskListTasksUseCase {
	return &GetTaskListTasksUseCase{domain: domain, tasks: tasks, taskSvc: taskSvc}
}

// Execute returns the task list, its stats and one page of its tasks.
// The task_list_id filter is forced to the addressed list.
func (uc *GetTaskListTasksUseCase) Execute(ctx context.Context, id uuid.UUID, params PageParams, filters repository.Filters) (model.TaskList, *TaskListStats, []model.Task, int, error) {
	if err := params.Validate(); err != nil {
		return model.TaskList{}, nil, nil, 0, err
	}

	list, err := uc.domain.GetTaskListByID(ctx, id)
	if err != nil {
		return model.TaskList{}, nil, nil, 0, err
	}

	count, err := uc.tasks.CountByTaskListID(ctx, id)
	if err != nil {
		return model.TaskList{}, nil, nil, 0, fmt.Errorf("counting tasks: %w", err)
	}
	rate, err := uc.taskSvc.CalculateTaskCompletionRate(ctx, id, nil)
	if err != nil {
		return model.TaskList{}, nil, nil, 0, fmt.Errorf("calculating completion rate: %w", err)
	}

	if filters == nil {
		filters = repository.Filters{}
	}
	filters["task_list_id"] = id

	tasks, total, err := uc.tasks.GetPaginated(ctx, params.Offset(), params.Size, filters)
	if err != nil {
		return model.TaskList{}, nil, nil, 0, err
	}
	return list, &TaskListStats{TaskCount: count, CompletionRate: rate}, tasks, total, nil
}

// GetTaskListsUseCase lists task lists with pagination and optional filters.
type GetTaskListsUseCase struct {
	domain *service.TaskListDomainService
}

// NewGetTaskListsUseCase creates a GetTaskListsUseCase.
func NewGetTaskListsUseCase(domain *service.TaskListDomainService) *GetTaskListsUseCase {
	return &GetTaskListsUseCase{domain: domain}
}

// Execute validates the page parameters and returns one page of task
// lists plus the total match count.
func (uc *GetTaskListsUseCase) Execute(ctx context.Context, params PageParams, filters repository.Filters) ([]model.TaskList, int, error) {
	if err := params.Validate(); err != nil {
		return nil, 0, err
	}
	return uc.domain.GetPaginatedTaskLists(ctx, params.Offset(), params.Size, filters)
}

// UpdateTaskListUseCase updates a task list's details.
type UpdateTaskListUseCase struct {
	domain    *service.TaskListDomainService
	taskLists repository.TaskListRepository
}

// NewUpdateTaskListUseCase creates an UpdateTaskListUseCase.
func NewUpdateTaskListUseCase(domain *service.TaskListDomainService, taskLists repository.TaskListRepository) *UpdateTaskListUseCase {
	return &UpdateTaskListUseCase{domain: domain, taskLists: taskLists}
}

// Execute fetches the list, validates the proposed details and persists
// the update.
func (uc *UpdateTaskListUseCase) Execute(ctx context.Context, id uuid.UUID, input UpdateTaskListInput) (model.TaskList, error) {
	existing, err := uc.domain.GetTaskListByID(ctx, id)
	if err != nil {
		return model.TaskList{}, err
	}
	proposed, err := existing.UpdateDetails(input.Name, input.Description)
	if err != nil {
		return model.TaskList{}, err
	}
	return uc.taskLists.Update(ctx, proposed)
}

// DeleteTaskListUseCase deletes a task list and its tasks.
type DeleteTaskListUseCase struct {
	domain     *service.TaskListDomainService
	validation *TaskListValidationService
	tasks      repository.TaskRepository
}

// NewDeleteTaskListUseCase creates a DeleteTaskListUseCase.
func NewDeleteTaskListUseCase(domain *service.TaskListDomainService, validation *TaskListValidationService, tasks repository.TaskRepository) *DeleteTaskListUseCase {
	return &DeleteTaskListUseCase{domain: domain, validation: validation, tasks: tasks}
}

// Execute removes the task list after an existence check, cascading the
// delete to its tasks first. The two deletes are sequential, not atomic.
func (uc *DeleteTaskListUseCase) Execute(ctx context.Context, id uuid.UUID) error {
	if err := uc.validation.ValidateTaskListExists(ctx, id); err != nil {
		return err
	}
	if _, err := uc.tasks.DeleteByTaskListID(ctx, id); err != nil {
		return fmt.Errorf("deleting tasks of list: %w", err)
	}
	if _, err := uc.domain.DeleteTaskList(ctx, id); err != nil {
		return fmt.Errorf("deleting task list: %w", err)
	}
	return nil
}
