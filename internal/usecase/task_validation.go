package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/taskops/taskboard/internal/model"
	"github.com/taskops/taskboard/internal/service"
)

// TaskValidationService runs the domain task checks before task writes.
type TaskValidationService struct {
	domain *service.TaskDomainService
}

// NewTaskValidationService creates a TaskValidationService.
func NewTaskValidationService(domain *service.TaskDomainService) *TaskValidationService {
	return &TaskValidationService{domain: domain}
}

// ValidateTaskCreation checks the assignment (if any) and due-date
// consistency of a task about to be created.
func (s *TaskValidationService) ValidateTaskCreation(ctx context.Context, task model.Task) error {
	if task.AssignedUserID != nil {
		if err := s.validateAssignment(ctx, task.ID, task.AssignedUserID); err != nil {
			return err
		}
	}
	if !s.domain.ValidateDueDateConsistency(task) {
		return model.NewValidationError("due date is inconsistent with task status")
	}
	return nil
}

// ValidateTaskUpdate checks the proposed updated state of a task.
func (s *TaskValidationService) ValidateTaskUpdate(ctx context.Context, taskID uuid.UUID, task model.Task) error {
	if task.AssignedUserID != nil {
		if err := s.validateAssignment(ctx, taskID, task.AssignedUserID); err != nil {
			return err
		}
	}
	if !s.domain.ValidateDueDateConsistency(task) {
		return model.NewValidationError("due date is inconsistent with task status")
	}
	return nil
}

// ValidateTaskAssignmentUpdate checks that a task can be assigned to the
// given user. A nil user ID (unassignment) always passes.
func (s *TaskValidationService) ValidateTaskAssignmentUpdate(ctx context.Context, taskID uuid.UUID, assignedUserID *uuid.UUID) error {
	return s.validateAssignment(ctx, taskID, assignedUserID)
}

// ValidateTaskDeletion checks the task's deletability, surfacing the
// archival policy as a validation error.
func (s *TaskValidationService) ValidateTaskDeletion(ctx context.Context, taskID uuid.UUID) error {
	canDelete, reason, err := s.domain.CanTaskBeDeleted(ctx, taskID)
	if err != nil {
		return err
	}
	if !canDelete {
		if strings.Contains(strings.ToLower(reason), "not found") {
			return model.NewTaskNotFoundError(taskID)
		}
		return model.NewValidationError("%s", reason)
	}
	return nil
}

func (s *TaskValidationService) validateAssignment(ctx context.Context, taskID uuid.UUID, assignedUserID *uuid.UUID) error {
	valid, err := s.domain.ValidateTaskAssignment(ctx, taskID, assignedUserID)
	if err != nil {
		return err
	}
	if !valid && assignedUserID != nil {
		return model.NewUserNotFoundError(*assignedUserID)
	}
	return nil
}
