package model

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TaskList is an immutable task list entity. OwnerID is nullable; a list
// without an owner is allowed. IsActive doubles as the soft-delete flag.
type TaskList struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty" db:"owner_id"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// NewTaskList creates an active task list after validating field constraints.
func NewTaskList(name, description string, ownerID *uuid.UUID) (TaskList, error) {
	if err := validateTaskListName(name); err != nil {
		return TaskList{}, err
	}
	if err := validateTaskListDescription(description); err != nil {
		return TaskList{}, err
	}

	now := time.Now().UTC()
	return TaskList{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateDetails returns a copy with the non-empty fields replaced. Each
// replacement field is held to the same constraints as in NewTaskList.
func (l TaskList) UpdateDetails(name, description string) (TaskList, error) {
	if name != "" {
		if err := validateTaskListName(name); err != nil {
			return TaskList{}, err
		}
		l.Name = name
	}
	if description != "" {
		if err := validateTaskListDescription(description); err != nil {
			return TaskList{}, err
		}
		l.Description = description
	}
	l.UpdatedAt = time.Now().UTC()
	return l, nil
}

func validateTaskListName(name string) error {
	if l := utf8.RuneCountInString(name); l < 1 || l > 100 {
		return NewValidationError("task list name must be between 1 and 100 characters")
	}
	return nil
}

func validateTaskListDescription(description string) error {
	if utf8.RuneCountInString(description) > 500 {
		return NewValidationError("task list description must be at most 500 characters")
	}
	return nil
}

// Activate returns a copy with IsActive set.
func (l TaskList) Activate() TaskList {
	l.IsActive = true
	l.UpdatedAt = time.Now().UTC()
	return l
}

// Deactivate returns a copy with IsActive cleared (soft delete).
func (l TaskList) Deactivate() TaskList {
	l.IsActive = false
	l.UpdatedAt = time.Now().UTC()
	return l
}
