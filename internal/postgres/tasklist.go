package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/taskops/taskboard/internal/model"
	"github.com/taskops/taskboard/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var taskListColumns = []string{"id", "name", "description", "owner_id", "is_active", "created_at", "updated_at"}

// TaskListRepository is the PostgreSQL-backed task list store.
type TaskListRepository struct {
	db *sqlx.DB
}

// NewTaskListRepository creates a TaskListRepository over the given connection.
func NewTaskListRepository(db *sqlx.DB) *TaskListRepository {
	return &TaskListRepository{db: db}
}

// Create inserts a new task list. A missing owner reference surfaces as
// a NotFoundError through the foreign key.
func (r *TaskListRepository) Create(ctx context.Context, list model.TaskList) (model.TaskList, error) {
	ctx, span := tracer.Start(ctx, "TaskListRepository.Create",
		trace.WithAttributes(attribute.String("tasklist.name", list.Name)),
	)
	defer span.End()

	query, args, err := psql.Insert("task_lists").
		Columns(taskListColumns...).
		Values(list.ID, list.Name, list.Description, list.OwnerID, list.IsActive, list.CreatedAt, list.UpdatedAt).
		ToSql()
	if err != nil {
		return model.TaskList{}, fmt.Errorf("building insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) && list.OwnerID != nil {
			return model.TaskList{}, model.NewUserNotFoundError(*list.OwnerID)
		}
		return model.TaskList{}, fmt.Errorf("inserting task list: %w", err)
	}
	return list, nil
}

// GetByID retrieves a task list by its ID.
func (r *TaskListRepository) GetByID(ctx context.Context, id uuid.UUID) (model.TaskList, error) {
	ctx, span := tracer.Start(ctx, "TaskListRepository.GetByID",
		trace.WithAttributes(attribute.String("tasklist.id", id.String())),
	)
	defer span.End()

	query, args, err := psql.Select(taskListColumns...).
		From("task_lists").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.TaskList{}, fmt.Errorf("building select: %w", err)
	}

	var list model.TaskList
	if err := r.db.GetContext(ctx, &list, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TaskList{}, model.NewTaskListNotFoundError(id)
		}
		return model.TaskList{}, fmt.Errorf("selecting task list: %w", err)
	}
	return list, nil
}

// Update replaces the mutable columns of an existing task list.
func (r *TaskListRepository) Update(ctx context.Context, list model.TaskList) (model.TaskList, error) {
	ctx, span := tracer.Start(ctx, "TaskListRepository.Update",
		trace.WithAttributes(attribute.String("tasklist.id", list.ID.String())),
	)
	defer span.End()

	query, args, err := psql.Update("task_lists").
		Set("name", list.Name).
		Set("description", list.Description).
		Set("owner_id", list.OwnerID).
		Set("is_active", list.IsActive).
		Set("updated_at", list.UpdatedAt).
		Where(squirrel.Eq{"id": list.ID}).
		ToSql()
	if err != nil {
		return model.TaskList{}, fmt.Errorf("building update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return model.TaskList{}, fmt.Errorf("updating task list: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return model.TaskList{}, model.NewTaskListNotFoundError(list.ID)
	}
	return list, nil
}

// Delete removes a task list. It reports whether a list was removed.
func (r *TaskListRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, span := tracer.Start(ctx, "TaskListRepository.Delete",
		trace.WithAttributes(attribute.String("tasklist.id", id.String())),
	)
	defer span.End()

	query, args, err := psql.Delete("task_lists").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("building delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("deleting task list: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return affected > 0, nil
}

// GetPaginated returns a page of task lists plus the total count of
// matches. Supported filters: owner_id (uuid.UUID), is_active (bool),
// search (string, case-insensitive substring over name and description).
func (r *TaskListRepository) GetPaginated(ctx context.Context, offset, limit int, filters repository.Filters) ([]model.TaskList, int, error) {
	ctx, span := tracer.Start(ctx, "TaskListRepository.GetPaginated")
	defer span.End()

	countBuilder := psql.Select("COUNT(*)").From("task_lists")
	selectBuilder := psql.Select(taskListColumns...).From("task_lists")

	if ownerID, ok := filters["owner_id"].(uuid.UUID); ok {
		countBuilder = countBuilder.Where(squirrel.Eq{"owner_id": ownerID})
		selectBuilder = selectBuilder.Where(squirrel.Eq{"owner_id": ownerID})
	}
	if active, ok := filters["is_active"].(bool); ok {
		countBuilder = countBuilder.Where(squirrel.Eq{"is_active": active})
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": active})
	}
	if search, ok := filters["search"].(string); ok && search != "" {
		pattern := "%" + search + "%"
		match := squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
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
		return nil, 0, fmt.Errorf("counting task lists: %w", err)
	}

	query, args, err := selectBuilder.
		OrderBy("created_at", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building select: %w", err)
	}

	lists := []model.TaskList{}
	if err := r.db.SelectContext(ctx, &lists, query, args...); err != nil {
		return nil, 0, fmt.Errorf("selecting task lists: %w", err)
	}

	span.SetAttributes(attribute.Int("tasklist.count", total))
	return lists, total, nil
}

// Exists reports whether a task list with the given ID exists.
func (r *TaskListRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, span := tracer.Start(ctx, "TaskListRepository.Exists")
	defer span.End()

	var exists bool
	err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM task_lists WHERE id = $1)", id)
	if err != nil {
		return false, fmt.Errorf("checking task list existence: %w", err)
	}
	return exists, nil
}

// Count returns the stored task list count for the entity gauge.
func (r *TaskListRepository) Count() int64 {
	return tableCount(r.db, "task_lists")
}
