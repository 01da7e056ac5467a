package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskops/taskboard/internal/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InMemoryTaskRepository stores tasks in a mutex-guarded map.
type InMemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]model.Task
}

// NewInMemoryTaskRepository creates an empty in-memory task store.
func NewInMemoryTaskRepository() *InMemoryTaskRepository {
	return &InMemoryTaskRepository{
		tasks: make(map[uuid.UUID]model.Task),
	}
}

// Create adds a new task.
func (r *InMemoryTaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	_, span := tracer.Start(ctx, "TaskRepository.Create",
		trace.WithAttributes(attribute.String("task.title", task.Title)),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[task.ID] = task
	span.SetAttributes(attribute.String("task.id", task.ID.String()))
	return task, nil
}

// GetByID retrieves a task by its ID.
func (r *InMemoryTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Task, error) {
	_, span := tracer.Start(ctx, "TaskRepository.GetByID",
		trace.WithAttributes(attribute.String("task.id", id.String())),
	)
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		span.SetAttributes(attribute.Bool("task.found", false))
		return model.Task{}, model.NewTaskNotFoundError(id)
	}
	return task, nil
}

// Update replaces an existing task.
func (r *InMemoryTaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	_, span := tracer.Start(ctx, "TaskRepository.Update",
		trace.WithAttributes(attribute.String("task.id", task.ID.String())),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.ID]; !ok {
		return model.Task{}, model.NewTaskNotFoundError(task.ID)
	}
	r.tasks[task.ID] = task
	return task, nil
}

// Delete removes a task. It reports whether a task was removed.
func (r *InMemoryTaskRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	_, span := tracer.Start(ctx, "TaskRepository.Delete",
		trace.WithAttributes(attribute.String("task.id", id.String())),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return false, nil
	}
	delete(r.tasks, id)
	return true, nil
}

// GetByTaskListID returns all tasks belonging to a task list.
func (r *InMemoryTaskRepository) GetByTaskListID(ctx context.Context, taskListID uuid.UUID) ([]model.Task, error) {
	_, span := tracer.Start(ctx, "TaskRepository.GetByTaskListID",
		trace.WithAttributes(attribute.String("tasklist.id", taskListID.String())),
	)
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks []model.Task
	for _, task := range r.tasks {
		if task.TaskListID == taskListID {
			tasks = append(tasks, task)
		}
	}
	sortTasks(tasks)
	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

// GetByAssignedUserID returns all tasks assigned to a user.
func (r *InMemoryTaskRepository) GetByAssignedUserID(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	_, span := tracer.Start(ctx, "TaskRepository.GetByAssignedUserID",
		trace.WithAttributes(attribute.String("user.id", userID.String())),
	)
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks []model.Task
	for _, task := range r.tasks {
		if task.AssignedUserID != nil && *task.AssignedUserID == userID {
			tasks = append(tasks, task)
		}
	}
	sortTasks(tasks)
	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

// CountByTaskListID counts the tasks in a task list.
func (r *InMemoryTaskRepository) CountByTaskListID(ctx context.Context, taskListID uuid.UUID) (int, error) {
	_, span := tracer.Start(ctx, "TaskRepository.CountByTaskListID")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, task := range r.tasks {
		if task.TaskListID == taskListID {
			count++
		}
	}
	return count, nil
}

// DeleteByTaskListID removes every task in a task list and returns the
// number removed. Used by the cascading task list delete.
func (r *InMemoryTaskRepository) DeleteByTaskListID(ctx context.Context, taskListID uuid.UUID) (int, error) {
	_, span := tracer.Start(ctx, "TaskRepository.DeleteByTaskListID",
		trace.WithAttributes(attribute.String("tasklist.id", taskListID.String())),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, task := range r.tasks {
		if task.TaskListID == taskListID {
			delete(r.tasks, id)
			removed++
		}
	}
	span.SetAttributes(attribute.Int("task.deleted", removed))
	return removed, nil
}

// GetPaginated returns a page of tasks plus the total count of matches.
// Supported filters: status (model.TaskStatus), priority (model.TaskPriority),
// task_list_id (uuid.UUID), assigned_user_id (uuid.UUID), search (string),
// due_date_from (time.Time), due_date_to (time.Time).
func (r *InMemoryTaskRepository) GetPaginated(ctx context.Context, offset, limit int, filters Filters) ([]model.Task, int, error) {
	_, span := tracer.Start(ctx, "TaskRepository.GetPaginated")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]model.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		if status, ok := filters["status"].(model.TaskStatus); ok && task.Status != status {
			continue
		}
		if priority, ok := filters["priority"].(model.TaskPriority); ok && task.Priority != priority {
			continue
		}
		if listID, ok := filters["task_list_id"].(uuid.UUID); ok && task.TaskListID != listID {
			continue
		}
		if userID, ok := filters["assigned_user_id"].(uuid.UUID); ok {
			if task.AssignedUserID == nil || *task.AssignedUserID != userID {
				continue
			}
		}
		if search, ok := filters["search"].(string); ok && search != "" {
			if !containsFold(search, task.Title, task.Description) {
				continue
			}
		}
		if from, ok := filters["due_date_from"].(time.Time); ok {
			if task.DueDate == nil || task.DueDate.Before(from) {
				continue
			}
		}
		if to, ok := filters["due_date_to"].(time.Time); ok {
			if task.DueDate == nil || task.DueDate.After(to) {
				continue
			}
		}
		matched = append(matched, task)
	}
	sortTasks(matched)

	span.SetAttributes(attribute.Int("task.count", len(matched)))
	return page(matched, offset, limit), len(matched), nil
}

// Exists reports whether a task with the given ID exists.
func (r *InMemoryTaskRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, span := tracer.Start(ctx, "TaskRepository.Exists")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tasks[id]
	return ok, nil
}

// Count returns the current number of tasks.
func (r *InMemoryTaskRepository) Count() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.tasks))
}

func sortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID.String() < tasks[j].ID.String()
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}
