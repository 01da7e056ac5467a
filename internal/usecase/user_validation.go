// Package usecase holds the application operations. Validation services
// translate domain-service booleans into typed errors; use cases compose
// one validation step with one persistence call.
package usecase

import (
	"context"

	"github.com/taskops/taskboard/internal/model"
	"github.com/taskops/taskboard/internal/service"
)

// UserValidationService checks username/email availability before user
// writes, skipping fields unchanged from the existing user.
type UserValidationService struct {
	domain *service.UserDomainService
}

// NewUserValidationService creates a UserValidationService.
func NewUserValidationService(domain *service.UserDomainService) *UserValidationService {
	return &UserValidationService{domain: domain}
}

// ValidateUserAvailability ensures the user's email and username are free.
// existing carries the pre-update state during updates; fields equal to
// the existing value are not re-checked.
func (s *UserValidationService) ValidateUserAvailability(ctx context.Context, user model.User, existing *model.User) error {
	if err := s.validateEmail(ctx, user.Email, existing); err != nil {
		return err
	}
	return s.validateUsername(ctx, user.Username, existing)
}

func (s *UserValidationService) validateEmail(ctx context.Context, email string, existing *model.User) error {
	if existing != nil && email == existing.Email {
		return nil
	}
	available, err := s.domain.ValidateEmailAvailability(ctx, email, nil)
	if err != nil {
		return err
	}
	if !available {
		return model.NewUserAlreadyExistsError("email", email)
	}
	return nil
}

func (s *UserValidationService) validateUsername(ctx context.Context, username string, existing *model.User) error {
	if existing != nil && username == existing.Username {
		return nil
	}
	available, err := s.domain.ValidateUsernameAvailability(ctx, username, nil)
	if err != nil {
		return err
	}
	if !available {
		return model.NewUserAlreadyExistsError("username", username)
	}
	return nil
}
