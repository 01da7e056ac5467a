package model

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TaskPriority is the urgency level of a task.
type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Task is an immutable task entity. Status transitions go through the
// MarkAs* methods so CompletedAt stays consistent with Status: it is
// non-nil exactly when the task is completed.
type Task struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	Title          string       `json:"title" db:"title"`
	Description    string       `json:"description,omitempty" db:"description"`
	Status         TaskStatus   `json:"status" db:"status"`
	Priority       TaskPriority `json:"priority" db:"priority"`
	TaskListID     uuid.UUID    `json:"task_list_id" db:"task_list_id"`
	AssignedUserID *uuid.UUID   `json:"assigned_user_id,omitempty" db:"assigned_user_id"`
	DueDate        *time.Time   `json:"due_date,omitempty" db:"due_date"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

// NewTask creates a pending task after validating field constraints.
// An empty priority defaults to medium.
func NewTask(title, description string, taskListID uuid.UUID, priority TaskPriority, assignedUserID *uuid.UUID, dueDate *time.Time) (Task, error) {
	if err := validateTaskTitle(title); err != nil {
		return Task{}, err
	}
	if err := validateTaskDescription(description); err != nil {
		return Task{}, err
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return Task{}, NewValidationError("invalid task priority: %s", priority)
	}

	now := time.Now().UTC()
	return Task{
		ID:             uuid.New(),
		Title:          title,
		Description:    description,
		Status:         StatusPending,
		Priority:       priority,
		TaskListID:     taskListID,
		AssignedUserID: assignedUserID,
		DueDate:        dueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// MarkAsPending returns a copy in pending status with CompletedAt cleared.
func (t Task) MarkAsPending() Task {
	t.Status = StatusPending
	t.CompletedAt = nil
	t.UpdatedAt = time.Now().UTC()
	return t
}

// MarkAsInProgress returns a copy in in_progress status with CompletedAt cleared.
func (t Task) MarkAsInProgress() Task {
	t.Status = StatusInProgress
	t.CompletedAt = nil
	t.UpdatedAt = time.Now().UTC()
	return t
}

// MarkAsCompleted returns a copy in completed status with CompletedAt set to now.
func (t Task) MarkAsCompleted() Task {
	now := time.Now().UTC()
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	return t
}

// ChangePriority returns a copy with the given priority.
func (t Task) ChangePriority(priority TaskPriority) Task {
	t.Priority = priority
	t.UpdatedAt = time.Now().UTC()
	return t
}

// AssignToUser returns a copy assigned to the given user.
func (t Task) AssignToUser(userID uuid.UUID) Task {
	t.AssignedUserID = &userID
	t.UpdatedAt = time.Now().UTC()
	return t
}

// Unassign returns a copy with no assignee.
func (t Task) Unassign() Task {
	t.AssignedUserID = nil
	t.UpdatedAt = time.Now().UTC()
	return t
}

// UpdateDetails returns a copy with the non-zero fields replaced. Each
// replacement field is held to the same constraints as in NewTask.
func (t Task) UpdateDetails(title, description string, dueDate *time.Time) (Task, error) {
	if title != "" {
		if err := validateTaskTitle(title); err != nil {
			return Task{}, err
		}
		t.Title = title
	}
	if description != "" {
		if err := validateTaskDescription(description); err != nil {
			return Task{}, err
		}
		t.Description = description
	}
	if dueDate != nil {
		t.DueDate = dueDate
	}
	t.UpdatedAt = time.Now().UTC()
	return t, nil
}

func validateTaskTitle(title string) error {
	if l := utf8.RuneCountInString(title); l < 1 || l > 200 {
		return NewValidationError("task title must be between 1 and 200 characters")
	}
	return nil
}

func validateTaskDescription(description string) error {
	if utf8.RuneCountInString(description) > 1000 {
		return NewValidationError("task description must be at most 1000 characters")
	}
	return nil
}

// IsCompleted reports whether the task status is completed.
func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsOverdue reports whether the due date has passed and the task is not
// completed. Completed tasks are never overdue.
func (t Task) IsOverdue() bool {
	if t.DueDate == nil || t.IsCompleted() {
		return false
	}
	return time.Now().UTC().After(*t.DueDate)
}
