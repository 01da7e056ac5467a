package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskops/taskboard/internal/model"
	"github.com/taskops/taskboard/internal/repository"
	"github.com/taskops/taskboard/internal/service"
)

// TaskListValidationService checks task list and owner references.
type TaskListValidationService struct {
	domain *service.TaskListDomainService
	users  repository.UserRepository
}

// NewTaskListValidationService creates a TaskListValidationService.
func NewTaskListValidationService(domain *service.TaskListDomainService, users repository.UserRepository) *TaskListValidationService {
	return &TaskListValidationService{domain: domain, users: users}
}

// ValidateTaskListExists fails with a not-found error when the task list
// is absent.
func (s *TaskListValidationService) ValidateTaskListExists(ctx context.Context, taskListID uuid.UUID) error {
	exists, err := s.domain.TaskListExists(ctx, taskListID)
	if err != nil {
		return fmt.Errorf("checking task list existence: %w", err)
	}
	if !exists {
		return model.NewTaskListNotFoundError(taskListID)
	}
	return nil
}

// ValidateOwnerExists fails with a not-found error when the owner user
// is absent.
func (s *TaskListValidationService) ValidateOwnerExists(ctx context.Context, ownerID uuid.UUID) error {
	_, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		if model.IsNotFound(err) {
			return model.NewUserNotFoundError(ownerID)
		}
		return fmt.Errorf("looking up owner: %w", err)
	}
	return nil
}
