package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskops/taskboard/internal/model"
	"github.com/taskops/taskboard/internal/repository"
)

// archiveAfter is how long a completed task may linger before deletion
// is refused in favor of archiving.
const archiveAfter = 30 * 24 * time.Hour

// TaskDomainService evaluates cross-entity task business rules.
type TaskDomainService struct {
	tasks     repository.TaskRepository
	taskLists repository.TaskListRepository
	users     repository.UserRepository
}

// NewTaskDomainService creates a TaskDomainService.
func NewTaskDomainService(tasks repository.TaskRepository, taskLists repository.TaskListRepository, users repository.UserRepository) *TaskDomainService {
	return &TaskDomainService{tasks: tasks, taskLists: taskLists, users: users}
}

// ValidateTaskAssignment reports whether a task may be assigned to the
// given user. A nil user ID means unassignment, which is always valid;
// otherwise the user must exist and be active.
func (s *TaskDomainService) ValidateTaskAssignment(ctx context.Context, taskID uuid.UUID, assignedUserID *uuid.UUID) (bool, error) {
	if assignedUserID == nil {
		return true, nil
	}

	user, err := s.users.GetByID(ctx, *assignedUserID)
	if err != nil {
		if model.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("looking up assignee: %w", err)
	}
	return user.IsActive, nil
}

// ValidateTaskListOwnership reports whether the user owns the task list.
// An absent or inactive list never grants access.
func (s *TaskDomainService) ValidateTaskListOwnership(ctx context.Context, taskListID, userID uuid.UUID) (bool, error) {
	list, err := s.taskLists.GetByID(ctx, taskListID)
	if err != nil {
		if model.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("looking up task list: %w", err)
	}
	if !list.IsActive {
		return false, nil
	}
	return list.OwnerID != nil && *list.OwnerID == userID, nil
}

// CanTaskBeDeleted reports whether a task may be deleted, with a
// human-readable reason. Tasks completed more than 30 days ago should be
// archived instead of deleted.
func (s *TaskDomainService) CanTaskBeDeleted(ctx context.Context, taskID uuid.UUID) (bool, string, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if model.IsNotFound(err) {
			return false, "Task not found", nil
		}
		return false, "", fmt.Errorf("looking up task: %w", err)
	}

	if task.Status == model.StatusCompleted && task.CompletedAt != nil {
		if time.Now().UTC().Sub(*task.CompletedAt) > archiveAfter {
			return false, "Completed tasks older than 30 days should be archived instead of deleted", nil
		}
	}
	return true, "Task can be deleted", nil
}

// GetOverdueTasksForUser returns the overdue tasks assigned to a user.
func (s *TaskDomainService) GetOverdueTasksForUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	tasks, err := s.tasks.GetByAssignedUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching assigned tasks: %w", err)
	}

	overdue := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.IsOverdue() {
			overdue = append(overdue, task)
		}
	}
	return overdue, nil
}

// CalculateTaskCompletionRate returns the percentage of completed tasks
// in a task list, in [0, 100]. When userID is non-nil the rate is scoped
// to tasks assigned to that user within the list. An empty selection
// yields 0.
func (s *TaskDomainService) CalculateTaskCompletionRate(ctx context.Context, taskListID uuid.UUID, userID *uuid.UUID) (float64, error) {
	var tasks []model.Task
	var err error

	if userID != nil {
		assigned, err2 := s.tasks.GetByAssignedUserID(ctx, *userID)
		if err2 != nil {
			return 0, fmt.Errorf("fetching assigned tasks: %w", err2)
		}
		for _, task := range assigned {
			if task.TaskListID == taskListID {
				tasks = append(tasks, task)
			}
		}
	} else {
		tasks, err = s.tasks.GetByTaskListID(ctx, taskListID)
		if err != nil {
			return 0, fmt.Errorf("fetching task list tasks: %w", err)
		}
	}

	if len(tasks) == 0 {
		return 0, nil
	}

	completed := 0
	for _, task := range tasks {
		if task.Status == model.StatusCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(tasks)) * 100.0, nil
}

// ValidateDueDateConsistency reports whether a completed task finished
// on or before its due date. Non-completed tasks and tasks missing either
// timestamp are always consistent.
func (s *TaskDomainService) ValidateDueDateConsistency(task model.Task) bool {
	if task.Status != model.StatusCompleted {
		return true
	}
	if task.DueDate == nil || task.CompletedAt == nil {
		return true
	}
	return !task.CompletedAt.After(*task.DueDate)
}
