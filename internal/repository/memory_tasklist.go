package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/taskops/taskboard/internal/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InMemoryTaskListRepository stores task lists in a mutex-guarded map.
type InMemoryTaskListRepository struct {
	mu    sync.RWMutex
	lists map[uuid.UUID]model.TaskList
}

// NewInMemoryTaskListRepository creates an empty in-memory task list store.
func NewInMemoryTaskListRepository() *InMemoryTaskListRepository {
	return &InMemoryTaskListRepository{
		lists: make(map[uuid.UUID]model.TaskList),
	}
}

// Create adds a new task list.
func (r *InMemoryTaskListRepository) Create(ctx context.Context, list model.TaskList) (model.TaskList, error) {
	_, span := tracer.Start(ctx, "TaskListRepository.Create",
		trace.WithAttributes(attribute.String("tasklist.name", list.Name)),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lists[list.ID] = list
	span.SetAttributes(attribute.String("tasklist.id", list.ID.String()))
	return list, nil
}

// GetByID retrieves a task list by its ID.
func (r *InMemoryTaskListRepository) GetByID(ctx context.Context, id uuid.UUID) (model.TaskList, error) {
	_, span := tracer.Start(ctx, "TaskListRepository.GetByID",
		trace.WithAttributes(attribute.String("tasklist.id", id.String())),
	)
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	list, ok := r.lists[id]
	if !ok {
		span.SetAttributes(attribute.Bool("tasklist.found", false))
		return model.TaskList{}, model.NewTaskListNotFoundError(id)
	}
	return list, nil
}

// Update replaces an existing task list.
func (r *InMemoryTaskListRepository) Update(ctx context.Context, list model.TaskList) (model.TaskList, error) {
	_, span := tracer.Start(ctx, "TaskListRepository.Update",
		trace.WithAttributes(attribute.String("tasklist.id", list.ID.String())),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lists[list.ID]; !ok {
		return model.TaskList{}, model.NewTaskListNotFoundError(list.ID)
	}
	r.lists[list.ID] = list
	return list, nil
}

// Delete removes a task list. It reports whether a list was removed.
func (r *InMemoryTaskListRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	_, span := tracer.Start(ctx, "TaskListRepository.Delete",
		trace.WithAttributes(attribute.String("tasklist.id", id.String())),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lists[id]; !ok {
		return false, nil
	}
	delete(r.lists, id)
	return true, nil
}

// GetPaginated returns a page of task lists plus the total count of matches.
// Supported filters: owner_id (uuid.UUID), is_active (bool), search (string).
func (r *InMemoryTaskListRepository) GetPaginated(ctx context.Context, offset, limit int, filters Filters) ([]model.TaskList, int, error) {
	_, span := tracer.Start(ctx, "TaskListRepository.GetPaginated")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]model.TaskList, 0, len(r.lists))
	for _, list := range r.lists {
		if ownerID, ok := filters["owner_id"].(uuid.UUID); ok {
			if list.OwnerID == nil || *list.OwnerID != ownerID {
				continue
			}
		}
		if active, ok := filters["is_active"].(bool); ok && list.IsActive != active {
			continue
		}
		if search, ok := filters["search"].(string); ok && search != "" {
			if !containsFold(search, list.Name, list.Description) {
				continue
			}
		}
		matched = append(matched, list)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.String() < matched[j].ID.String()
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	span.SetAttributes(attribute.Int("tasklist.count", len(matched)))
	return page(matched, offset, limit), len(matched), nil
}

// Exists reports whether a task list with the given ID exists.
func (r *InMemoryTaskListRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, span := tracer.Start(ctx, "TaskListRepository.Exists")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.lists[id]
	return ok, nil
}

// Count returns the current number of task lists.
func (r *InMemoryTaskListRepository) Count() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.lists))
}
