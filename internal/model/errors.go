package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError reports that a requested entity does not exist.
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Entity, e.ID)
}

// AlreadyExistsError reports a uniqueness violation on a named field.
type AlreadyExistsError struct {
	Entity string
	Field  string
	Value  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with %s '%s' already exists", e.Entity, e.Field, e.Value)
}

// ValidationError reports malformed or business-rule-inconsistent input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UnauthorizedOperationError is reserved for access-control violations.
// Declared for the transport layer; no use case raises it yet.
type UnauthorizedOperationError struct {
	Operation string
	Resource  string
}

func (e *UnauthorizedOperationError) Error() string {
	return fmt.Sprintf("operation '%s' not authorized on %s", e.Operation, e.Resource)
}

// NewUserNotFoundError returns a NotFoundError for a user.
func NewUserNotFoundError(id uuid.UUID) error {
	return &NotFoundError{Entity: "User", ID: id}
}

// NewTaskNotFoundError returns a NotFoundError for a task.
func NewTaskNotFoundError(id uuid.UUID) error {
	return &NotFoundError{Entity: "Task", ID: id}
}

// NewTaskListNotFoundError returns a NotFoundError for a task list.
func NewTaskListNotFoundError(id uuid.UUID) error {
	return &NotFoundError{Entity: "TaskList", ID: id}
}

// NewUserAlreadyExistsError returns an AlreadyExistsError for a user field.
func NewUserAlreadyExistsError(field, value string) error {
	return &AlreadyExistsError{Entity: "User", Field: field, Value: value}
}

// NewValidationError returns a ValidationError with the given message.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsAlreadyExists reports whether err is an AlreadyExistsError.
func IsAlreadyExists(err error) bool {
	var e *AlreadyExistsError
	return errors.As(err, &e)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}
