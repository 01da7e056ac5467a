package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskops/taskboard/internal/model"
	"github.com/taskops/taskboard/internal/repository"
)

// CreateTaskInput is the parsed input for task creation.
type CreateTaskInput struct {
	Title          string
	Description    string
	TaskListID     uuid.UUID
	Priority       model.TaskPriority
	AssignedUserID *uuid.UUID
	DueDate        *time.Time
}

// UpdateTaskInput is the parsed input for a task detail update. Zero
// fields are left unchanged.
type UpdateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// CreateTaskUseCase creates a task after reference and rule validation.
type CreateTaskUseCase struct {
	tasks              repository.TaskRepository
	validation         *TaskValidationService
	taskListValidation *TaskListValidationService
}

// NewCreateTaskUseCase creates a CreateTaskUseCase.
func NewCreateTaskUseCase(tasks repository.TaskRepository, validation *TaskValidationService, taskListValidation *TaskListValidationService) *CreateTaskUseCase {
	return &CreateTaskUseCase{tasks: tasks, validation: validation, taskListValidation: taskListValidation}
}

// Execute validates the task list reference, the assignment and the
// due-date rule, then persists the new task.
func (uc *CreateTaskUseCase) Execute(ctx context.Context, input CreateTaskInput) (model.Task, error) {
	if err := uc.taskListValidation.ValidateTaskListExists(ctx, input.TaskListID); err != nil {
		return model.Task{}, err
	}

	task, err := model.NewTask(input.Title, input.Description, input.TaskListID, input.Priority, input.AssignedUserID, input.DueDate)
	if err != nil {
		return model.Task{}, err
	}
	if err := uc.validation.ValidateTaskCreation(ctx, task); err != nil {
		return model.Task{}, err
	}
	return uc.tasks.Create(ctx, task)
}

// GetTaskUseCase fetches a single task.
type GetTaskUseCase struct {
	tasks repository.TaskRepository
}

// NewGetTaskUseCase creates a GetTaskUseCase.
func NewGetTaskUseCase(tasks repository.TaskRepository) *GetTaskUseCase {
	return &GetTaskUseCase{tasks: tasks}
}

// Execute returns the task with the given ID.
func (uc *GetTaskUseCase) Execute(ctx context.Context, id uuid.UUID) (model.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

// GetTasksUseCase lists tasks with pagination and optional filters.
type GetTasksUseCase struct {
	tasks repository.TaskRepository
}

// NewGetTasksUseCase creates a GetTasksUseCase.
func NewGetTasksUseCase(tasks repository.TaskRepository) *GetTasksUseCase {
	return &GetTasksUseCase{tasks: tasks}
}

// Execute validates the page parameters and returns one page of tasks
// plus the total match count.
func (uc *GetTasksUseCase) Execute(ctx context.Context, params PageParams, filters repository.Filters) ([]model.Task, int, error) {
	if err := params.Validate(); err != nil {
		return nil, 0, err
	}
	return uc.tasks.GetPaginated(ctx, params.Offset(), params.Size, filters)
}

// UpdateTaskUseCase updates a task's details.
type UpdateTaskUseCase struct {
	tasks      repository.TaskRepository
	validation *TaskValidationService
}

// NewUpdateTaskUseCase creates an UpdateTaskUseCase.
func NewUpdateTaskUseCase(tasks repository.TaskRepository, validation *TaskValidationService) *UpdateTaskUseCase {
	return &UpdateTaskUseCase{tasks: tasks, validation: validation}
}

// Execute fetches the task, validates the proposed state and persists
// the detail update.
func (uc *UpdateTaskUseCase) Execute(ctx context.Context, id uuid.UUID, input UpdateTaskInput) (model.Task, error) {
	existing, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	proposed, err := existing.UpdateDetails(input.Title, input.Description, input.DueDate)
	if err != nil {
		return model.Task{}, err
	}
	if err := uc.validation.ValidateTaskUpdate(ctx, id, proposed); err != nil {
		return model.Task{}, err
	}
	return uc.tasks.Update(ctx, proposed)
}

// DeleteTaskUseCase deletes a task after a deletability check.
type DeleteTaskUseCase struct {
	tasks      repository.TaskRepository
	validation *TaskValidationService
}

// NewDeleteTaskUseCase creates a DeleteTaskUseCase.
func NewDeleteTaskUseCase(tasks repository.TaskRepository, validation *TaskValidationService) *DeleteTaskUseCase {
	return &DeleteTaskUseCase{tasks: tasks, validation: validation}
}

// Execute removes the task unless the archival policy forbids it.
func (uc *DeleteTaskUseCase) Execute(ctx context.Context, id uuid.UUID) error {
	if err := uc.validation.ValidateTaskDeletion(ctx, id); err != nil {
		return err
	}

	deleted, err := uc.tasks.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if !deleted {
		return model.NewTaskNotFoundError(id)
	}
	return nil
}

// UpdateTaskStatusUseCase moves a task through its status workflow via
// the entity transition methods.
type UpdateTaskStatusUseCase struct {
	tasks repository.TaskRepository
}

// NewUpdateTaskStatusUseCase creates an UpdateTaskStatusUseCase.
func NewUpdateTaskStatusUseCase(tasks repository.TaskRepository) *UpdateTaskStatusUseCase {
	return &UpdateTaskStatusUseCase{tasks: tasks}
}

// Execute applies the requested status through the matching transition
// method and persists the result.
func (uc *UpdateTaskStatusUseCase) Execute(ctx context.Context, id uuid.UUID, status model.TaskStatus) (model.Task, error) {
	existing, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	var updated model.Task
	switch status {
	case model.StatusPending:
		updated = existing.MarkAsPending()
	case model.StatusInProgress:
		updated = existing.MarkAsInProgress()
	case model.StatusCompleted:
		updated = existing.MarkAsCompleted()
	default:
		return model.Task{}, model.NewValidationError("invalid task status: %s", status)
	}
	return uc.tasks.Update(ctx, updated)
}

// UpdateTaskPriorityUseCase changes a task's priority.
type UpdateTaskPriorityUseCase struct {
	tasks repository.TaskRepository
}

// NewUpdateTaskPriorityUseCase creates an UpdateTaskPriorityUseCase.
func NewUpdateTaskPriorityUseCase(tasks repository.TaskRepository) *UpdateTaskPriorityUseCase {
	return &UpdateTaskPriorityUseCase{tasks: tasks}
}

// Execute validates the priority value, applies it through the entity
// transition and persists the result.
func (uc *UpdateTaskPriorityUseCase) Execute(ctx context.Context, id uuid.UUID, priority model.TaskPriority) (model.Task, error) {
	existing, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if !priority.Valid() {
		return model.Task{}, model.NewValidationError("invalid task priority: %s", priority)
	}
	return uc.tasks.Update(ctx, existing.ChangePriority(priority))
}

// UpdateTaskAssignmentUseCase assigns or unassigns a task.
type UpdateTaskAssignmentUseCase struct {
	tasks      repository.TaskRepository
	validation *TaskValidationService
}

// NewUpdateTaskAssignmentUseCase creates an UpdateTaskAssignmentUseCase.
func NewUpdateTaskAssignmentUseCase(tasks repository.TaskRepository, validation *TaskValidationService) *UpdateTaskAssignmentUseCase {
	return &UpdateTaskAssignmentUseCase{tasks: tasks, validation: validation}
}

// Execute validates the assignee, applies the assignment through the
// entity transition and persists the result. A nil user unassigns.
func (uc *UpdateTaskAssignmentUseCase) Execute(ctx context.Context, id uuid.UUID, assignedUserID *uuid.UUID) (model.Task, error) {
	existing, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if err := uc.validation.ValidateTaskAssignmentUpdate(ctx, id, assignedUserID); err != nil {
		return model.Task{}, err
	}

	var updated model.Task
	if assignedUserID != nil {
		updated = existing.AssignToUser(*assignedUserID)
	} else {
		updated = existing.Unassign()
	}
	return uc.tasks.Update(ctx, updated)
}
