package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskops/taskboard/internal/model"
	"github.com/taskops/taskboard/internal/repository"
	"github.com/taskops/taskboard/internal/service"
)

// CreateUserInput is the parsed input for user creation.
type CreateUserInput struct {
	Email    string
	Username string
	FullName string
}

// UpdateUserInput is the parsed input for a profile update. Empty fields
// are left unchanged.
type UpdateUserInput struct {
	Email    string
	Username string
	FullName string
}

// CreateUserUseCase creates a user after availability validation.
type CreateUserUseCase struct {
	users      repository.UserRepository
	validation *UserValidationService
}

// NewCreateUserUseCase creates a CreateUserUseCase.
func NewCreateUserUseCase(users repository.UserRepository, validation *UserValidationService) *CreateUserUseCase {
	return &CreateUserUseCase{users: users, validation: validation}
}

// Execute validates availability and persists the new user.
func (uc *CreateUserUseCase) Execute(ctx context.Context, input CreateUserInput) (model.User, error) {
	user, err := model.NewUser(input.Email, input.Username, input.FullName)
	if err != nil {
		return model.User{}, err
	}
	if err := uc.validation.ValidateUserAvailability(ctx, user, nil); err != nil {
		return model.User{}, err
	}
	return uc.users.Create(ctx, user)
}

// GetUserUseCase fetches a single user.
type GetUserUseCase struct {
	users repository.UserRepository
}

// NewGetUserUseCase creates a GetUserUseCase.
func NewGetUserUseCase(users repository.UserRepository) *GetUserUseCase {
	return &GetUserUseCase{users: users}
}

// Execute returns the user with the given ID.
func (uc *GetUserUseCase) Execute(ctx context.Context, id uuid.UUID) (model.User, error) {
	return uc.users.GetByID(ctx, id)
}

// GetUserByEmailUseCase fetches a user by email address.
type GetUserByEmailUseCase struct {
	users repository.UserRepository
}

// NewGetUserByEmailUseCase creates a GetUserByEmailUseCase.
func NewGetUserByEmailUseCase(users repository.UserRepository) *GetUserByEmailUseCase {
	return &GetUserByEmailUseCase{users: users}
}

// Execute returns the user holding the given email.
func (uc *GetUserByEmailUseCase) Execute(ctx context.Context, email string) (model.User, error) {
	return uc.users.GetByEmail(ctx, email)
}

// GetUserByUsernameUseCase fetches a user by username.
type GetUserByUsernameUseCase struct {
	users repository.UserRepository
}

// NewGetUserByUsernameUseCase creates a GetUserByUsernameUseCase.
func NewGetUserByUsernameUseCase(users repository.UserRepository) *GetUserByUsernameUseCase {
	return &GetUserByUsernameUseCase{users: users}
}

// Execute returns the user holding the given username.
func (uc *GetUserByUsernameUseCase) Execute(ctx context.Context, username string) (model.User, error) {
	return uc.users.GetByUsername(ctx, username)
}

// GetUsersUseCase lists users with pagination and optional filters.
type GetUsersUseCase struct {
	users repository.UserRepository
}

// NewGetUsersUseCase creates a GetUsersUseCase.
func NewGetUsersUseCase(users repository.UserRepository) *GetUsersUseCase {
	return &GetUsersUseCase{users: users}
}

// Execute validates the page parameters and returns one page of users
// plus the total match count.
func (uc *GetUsersUseCase) Execute(ctx context.Context, params PageParams, filters repository.Filters) ([]model.User, int, error) {
	if err := params.Validate(); err != nil {
		return nil, 0, err
	}
	return uc.users.GetPaginated(ctx, params.Offset(), params.Size, filters)
}

// UpdateUserUseCase updates a user's profile after availability validation.
type UpdateUserUseCase struct {
	users      repository.UserRepository
	validation *UserValidationService
}

// NewUpdateUserUseCase creates an UpdateUserUseCase.
func NewUpdateUserUseCase(users repository.UserRepository, validation *UserValidationService) *UpdateUserUseCase {
	return &UpdateUserUseCase{users: users, validation: validation}
}

// Execute fetches the user, validates changed fields, applies the
// profile update and persists the result.
func (uc *UpdateUserUseCase) Execute(ctx context.Context, id uuid.UUID, input UpdateUserInput) (model.User, error) {
	existing, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	proposed, err := existing.UpdateProfile(input.Username, input.FullName, input.Email)
	if err != nil {
		return model.User{}, err
	}
	if err := uc.validation.ValidateUserAvailability(ctx, proposed, &existing); err != nil {
		return model.User{}, err
	}
	return uc.users.Update(ctx, proposed)
}

// DeleteUserUseCase deletes a user after an eligibility check.
type DeleteUserUseCase struct {
	users  repository.UserRepository
	domain *service.UserDomainService
}

// NewDeleteUserUseCase creates a DeleteUserUseCase.
func NewDeleteUserUseCase(users repository.UserRepository, domain *service.UserDomainService) *DeleteUserUseCase {
	return &DeleteUserUseCase{users: users, domain: domain}
}

// Execute removes the user. There is no soft delete for users.
func (uc *DeleteUserUseCase) Execute(ctx context.Context, id uuid.UUID) error {
	// the only refusal the eligibility check produces today is absence
	canDelete, _, err := uc.domain.CanUserBeDeleted(ctx, id)
	if err != nil {
		return err
	}
	if !canDelete {
		return model.NewUserNotFoundError(id)
	}

	deleted, err := uc.users.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if !deleted {
		return model.NewUserNotFoundError(id)
	}
	return nil
}

// ActivateUserUseCase re-activates a user account.
type ActivateUserUseCase struct {
	users repository.UserRepository
}

// NewActivateUserUseCase creates an ActivateUserUseCase.
func NewActivateUserUseCase(users repository.UserRepository) *ActivateUserUseCase {
	return &ActivateUserUseCase{users: users}
}

// Execute marks the user active.
func (uc *ActivateUserUseCase) Execute(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	return uc.users.Update(ctx, user.Activate())
}

// DeactivateUserUseCase deactivates a user account.
type DeactivateUserUseCase struct {
	users repository.UserRepository
}

// NewDeactivateUserUseCase creates a DeactivateUserUseCase.
func NewDeactivateUserUseCase(users repository.UserRepository) *DeactivateUserUseCase {
	return &DeactivateUserUseCase{users: users}
}

// Execute marks the user inactive.
func (uc *DeactivateUserUseCase) Execute(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	return uc.users.Update(ctx, user.Deactivate())
}
