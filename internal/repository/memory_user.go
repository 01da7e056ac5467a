package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/taskops/taskboard/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/taskops/taskboard/internal/repository")

// InMemoryUserRepository stores users in a mutex-guarded map.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]model.User
}

// NewInMemoryUserRepository creates an empty in-memory user store.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[uuid.UUID]model.User),
	}
}

// Create adds a new user, enforcing email and username uniqueness.
func (r *InMemoryUserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	_, span := tracer.Start(ctx, "UserRepository.Create",
		trace.WithAttributes(attribute.String("user.username", user.Username)),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return model.User{}, model.NewUserAlreadyExistsError("email", user.Email)
		}
		if existing.Username == user.Username {
			return model.User{}, model.NewUserAlreadyExistsError("username", user.Username)
		}
	}

	r.users[user.ID] = user
	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	return user, nil
}

// GetByID retrieves a user by its ID.
func (r *InMemoryUserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	_, span := tracer.Start(ctx, "UserRepository.GetByID",
		trace.WithAttributes(attribute.String("user.id", id.String())),
	)
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		span.SetAttributes(attribute.Bool("user.found", false))
		return model.User{}, model.NewUserNotFoundError(id)
	}
	return user, nil
}

// GetByEmail retrieves a user by email.
func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	_, span := tracer.Start(ctx, "UserRepository.GetByEmail")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return model.User{}, model.NewUserNotFoundError(uuid.Nil)
}

// GetByUsername retrieves a user by username.
func (r *InMemoryUserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	_, span := tracer.Start(ctx, "UserRepository.GetByUsername",
		trace.WithAttributes(attribute.String("user.username", username)),
	)
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return model.User{}, model.NewUserNotFoundError(uuid.Nil)
}

// Update replaces an existing user.
func (r *InMemoryUserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	_, span := tracer.Start(ctx, "UserRepository.Update",
		trace.WithAttributes(attribute.String("user.id", user.ID.String())),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return model.User{}, model.NewUserNotFoundError(user.ID)
	}
	r.users[user.ID] = user
	return user, nil
}

// Delete removes a user. It reports whether a user was removed.
func (r *InMemoryUserRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	_, span := tracer.Start(ctx, "UserRepository.Delete",
		trace.WithAttributes(attribute.String("user.id", id.String())),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

// GetPaginated returns a page of users plus the total count of matches.
// Supported filters: is_active (bool), search (string, case-insensitive
// substring over username, email and full name).
func (r *InMemoryUserRepository) GetPaginated(ctx context.Context, offset, limit int, filters Filters) ([]model.User, int, error) {
	_, span := tracer.Start(ctx, "UserRepository.GetPaginated")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]model.User, 0, len(r.users))
	for _, user := range r.users {
		if active, ok := filters["is_active"].(bool); ok && user.IsActive != active {
			continue
		}
		if search, ok := filters["search"].(string); ok && search != "" {
			if !containsFold(search, user.Username, user.Email, user.FullName) {
				continue
			}
		}
		matched = append(matched, user)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.String() < matched[j].ID.String()
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	span.SetAttributes(attribute.Int("user.count", len(matched)))
	return page(matched, offset, limit), len(matched), nil
}

// Exists reports whether a user with the given ID exists.
func (r *InMemoryUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, span := tracer.Start(ctx, "UserRepository.Exists")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[id]
	return ok, nil
}

// Count returns the current number of users.
func (r *InMemoryUserRepository) Count() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users))
}

// page slices out one pagination window, clamped to the item count.
func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// containsFold reports whether any field contains needle,
// case-insensitively.
func containsFold(needle string, fields ...string) bool {
	needle = strings.ToLower(needle)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
