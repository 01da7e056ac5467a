package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/taskops/taskboard/internal/model"
	"github.com/taskops/taskboard/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var userColumns = []string{"id", "email", "username", "full_name", "is_active", "created_at", "updated_at", "last_login"}

// UserRepository is the PostgreSQL-backed user store.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a UserRepository over the given connection.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. Unique violations on email or username are
// reported as AlreadyExistsError.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.Create",
		trace.WithAttributes(attribute.String("user.username", user.Username)),
	)
	defer span.End()

	query, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Email, user.Username, user.FullName, user.IsActive, user.CreatedAt, user.UpdatedAt, user.LastLogin).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("building insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if strings.Contains(constraint, "email") {
				return model.User{}, model.NewUserAlreadyExistsError("email", user.Email)
			}
			return model.User{}, model.NewUserAlreadyExistsError("username", user.Username)
		}
		return model.User{}, fmt.Errorf("inserting user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by its ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetByID",
		trace.WithAttributes(attribute.String("user.id", id.String())),
	)
	defer span.End()

	return r.getOne(ctx, map[string]any{"id": id}, id)
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetByEmail")
	defer span.End()

	return r.getOne(ctx, map[string]any{"email": email}, uuid.Nil)
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetByUsername",
		trace.WithAttributes(attribute.String("user.username", username)),
	)
	defer span.End()

	return r.getOne(ctx, map[string]any{"username": username}, uuid.Nil)
}

func (r *UserRepository) getOne(ctx context.Context, where map[string]any, id uuid.UUID) (model.User, error) {
	query, args, err := squirrelEq(psql.Select(userColumns...).From("users"), where).ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("building select: %w", err)
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.NewUserNotFoundError(id)
		}
		return model.User{}, fmt.Errorf("selecting user: %w", err)
	}
	return user, nil
}

// Update replaces the mutable columns of an existing user.
func (r *UserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.Update",
		trace.WithAttributes(attribute.String("user.id", user.ID.String())),
	)
	defer span.End()

	query, args, err := psql.Update("users").
		Set("email", user.Email).
		Set("username", user.Username).
		Set("full_name", user.FullName).
		Set("is_active", user.IsActive).
		Set("updated_at", user.UpdatedAt).
		Set("last_login", user.LastLogin).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("building update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if strings.Contains(constraint, "email") {
				return model.User{}, model.NewUserAlreadyExistsError("email", user.Email)
			}
			return model.User{}, model.NewUserAlreadyExistsError("username", user.Username)
		}
		return model.User{}, fmt.Errorf("updating user: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return model.User{}, model.NewUserNotFoundError(user.ID)
	}
	return user, nil
}

// Delete removes a user. It reports whether a user was removed.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.Delete",
		trace.WithAttributes(attribute.String("user.id", id.String())),
	)
	defer span.End()

	query, args, err := psql.Delete("users").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("building delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("deleting user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return affected > 0, nil
}

// GetPaginated returns a page of users plus the total count of matches.
// Supported filters: is_active (bool), search (string, case-insensitive
// substring over username, email and full_name).
func (r *UserRepository) GetPaginated(ctx context.Context, offset, limit int, filters repository.Filters) ([]model.User, int, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetPaginated")
	defer span.End()

	countBuilder := psql.Select("COUNT(*)").From("users")
	selectBuilder := psql.Select(userColumns...).From("users")

	if active, ok := filters["is_active"].(bool); ok {
		countBuilder = countBuilder.Where(squirrel.Eq{"is_active": active})
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": active})
	}
	if search, ok := filters["search"].(string); ok && search != "" {
		pattern := "%" + search + "%"
		match := squirrel.Or{
			squirrel.ILike{"username": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"full_name": pattern},
		}
		countBuilder = countBuilder.Where(match)
		selectBuilder = selectBuilder.Where(match)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building count: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}

	query, args, err := selectBuilder.
		OrderBy("created_at", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building select: %w", err)
	}

	users := []model.User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("selecting users: %w", err)
	}

	span.SetAttributes(attribute.Int("user.count", total))
	return users, total, nil
}

// Exists reports whether a user with the given ID exists.
func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.Exists")
	defer span.End()

	var exists bool
	err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", id)
	if err != nil {
		return false, fmt.Errorf("checking user existence: %w", err)
	}
	return exists, nil
}

// Count returns the stored user count for the entity gauge.
func (r *UserRepository) Count() int64 {
	return tableCount(r.db, "users")
}

// squirrelEq appends one Eq predicate per map entry.
func squirrelEq(builder squirrel.SelectBuilder, where map[string]any) squirrel.SelectBuilder {
	for column, value := range where {
		builder = builder.Where(squirrel.Eq{column: value})
	}
	return builder
}
