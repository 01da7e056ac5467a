package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/taskops/taskboard/internal/model"
	"github.com/taskops/taskboard/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var taskColumns = []string{"id", "title", "description", "status", "priority", "task_list_id", "assigned_user_id", "due_date", "completed_at", "created_at", "updated_at"}

// TaskRepository is the PostgreSQL-backed task store.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a TaskRepository over the given connection.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task. Missing task list or assignee references
// surface as NotFoundError through the foreign keys.
func (r *TaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.Create",
		trace.WithAttributes(attribute.String("task.title", task.Title)),
	)
	defer span.End()

	query, args, err := psql.Insert("tasks").
		Columns(taskColumns...).
		Values(task.ID, task.Title, task.Description, task.Status, task.Priority, task.TaskListID,
			task.AssignedUserID, task.DueDate, task.CompletedAt, task.CreatedAt, task.UpdatedAt).
		ToSql()
	if err != nil {
		return model.Task{}, fmt.Errorf("building insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return model.Task{}, model.NewTaskListNotFoundError(task.TaskListID)
		}
		return model.Task{}, fmt.Errorf("inserting task: %w", err)
	}
	return task, nil
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.GetByID",
		trace.WithAttributes(attribute.String("task.id", id.String())),
	)
	defer span.End()

	query, args, err := psql.Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Task{}, fmt.Errorf("building select: %w", err)
	}

	var task model.Task
	if err := r.db.GetContext(ctx, &task, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, model.NewTaskNotFoundError(id)
		}
		return model.Task{}, fmt.Errorf("selecting task: %w", err)
	}
	return task, nil
}

// Update replaces the mutable columns of an existing task.
func (r *TaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.Update",
		trace.WithAttributes(attribute.String("task.id", task.ID.String())),
	)
	defer span.End()

	query, args, err := psql.Update("tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("status", task.Status).
		Set("priority", task.Priority).
		Set("assigned_user_id", task.AssignedUserID).
		Set("due_date", task.DueDate).
		Set("completed_at", task.CompletedAt).
		Set("updated_at", task.UpdatedAt).
		Where(squirrel.Eq{"id": task.ID}).
		ToSql()
	if err != nil {
		return model.Task{}, fmt.Errorf("building update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return model.Task{}, fmt.Errorf("updating task: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return model.Task{}, model.NewTaskNotFoundError(task.ID)
	}
	return task, nil
}

// Delete removes a task. It reports whether a task was removed.
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.Delete",
		trace.WithAttributes(attribute.String("task.id", id.String())),
	)
	defer span.End()

	query, args, err := psql.Delete("tasks").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("building delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("deleting task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return affected > 0, nil
}

// GetByTaskListID returns all tasks belonging to a task list.
func (r *TaskRepository) GetByTaskListID(ctx context.Context, taskListID uuid.UUID) ([]model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.GetByTaskListID",
		trace.WithAttributes(attribute.String("tasklist.id", taskListID.String())),
	)
	defer span.End()

	return r.selectWhere(ctx, squirrel.Eq{"task_list_id": taskListID})
}

// GetByAssignedUserID returns all tasks assigned to a user.
func (r *TaskRepository) GetByAssignedUserID(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.GetByAssignedUserID",
		trace.WithAttributes(attribute.String("user.id", userID.String())),
	)
	defer span.End()

	return r.selectWhere(ctx, squirrel.Eq{"assigned_user_id": userID})
}

func (r *TaskRepository) selectWhere(ctx context.Context, where squirrel.Eq) ([]model.Task, error) {
	query, args, err := psql.Select(taskColumns...).
		From("tasks").
		Where(where).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	tasks := []model.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("selecting tasks: %w", err)
	}
	return tasks, nil
}

// CountByTaskListID counts the tasks in a task list.
func (r *TaskRepository) CountByTaskListID(ctx context.Context, taskListID uuid.UUID) (int, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.CountByTaskListID")
	defer span.End()

	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM tasks WHERE task_list_id = $1", taskListID)
	if err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return count, nil
}

// DeleteByTaskListID removes every task in a task list and returns the
// number removed.
func (r *TaskRepository) DeleteByTaskListID(ctx context.Context, taskListID uuid.UUID) (int, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.DeleteByTaskListID",
		trace.WithAttributes(attribute.String("tasklist.id", taskListID.String())),
	)
	defer span.End()

	query, args, err := psql.Delete("tasks").Where(squirrel.Eq{"task_list_id": taskListID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("building delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting tasks: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	span.SetAttributes(attribute.Int("task.deleted", int(affected)))
	return int(affected), nil
}

// GetPaginated returns a page of tasks plus the total count of matches.
// Supported filters: status (model.TaskStatus), priority
// (model.TaskPriority), task_list_id (uuid.UUID), assigned_user_id
// (uuid.UUID), search (string, case-insensitive substring over title
// and description), due_date_from (time.Time), due_date_to (time.Time).
func (r *TaskRepository) GetPaginated(ctx context.Context, offset, limit int, filters repository.Filters) ([]model.Task, int, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.GetPaginated")
	defer span.End()

	eq := squirrel.Eq{}
	if status, ok := filters["status"].(model.TaskStatus); ok {
		eq["status"] = status
	}
	if priority, ok := filters["priority"].(model.TaskPriority); ok {
		eq["priority"] = priority
	}
	if listID, ok := filters["task_list_id"].(uuid.UUID); ok {
		eq["task_list_id"] = listID
	}
	if userID, ok := filters["assigned_user_id"].(uuid.UUID); ok {
		eq["assigned_user_id"] = userID
	}

	countBuilder := psql.Select("COUNT(*)").From("tasks")
	selectBuilder := psql.Select(taskColumns...).From("tasks")
	if len(eq) > 0 {
		countBuilder = countBuilder.Where(eq)
		selectBuilder = selectBuilder.Where(eq)
	}
	if search, ok := filters["search"].(string); ok && search != "" {
		pattern := "%" + search + "%"
		match := squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"description": pattern},
		}
		countBuilder = countBuilder.Where(match)
		selectBuilder = selectBuilder.Where(match)
	}
	if from, ok := filters["due_date_from"].(time.Time); ok {
		countBuilder = countBuilder.Where(squirrel.GtOrEq{"due_date": from})
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"due_date": from})
	}
	if to, ok := filters["due_date_to"].(time.Time); ok {
		countBuilder = countBuilder.Where(squirrel.LtOrEq{"due_date": to})
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"due_date": to})
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building count: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("counting tasks: %w", err)
	}

	query, args, err := selectBuilder.
		OrderBy("created_at", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building select: %w", err)
	}

	tasks := []model.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, 0, fmt.Errorf("selecting tasks: %w", err)
	}

	span.SetAttributes(attribute.Int("task.count", total))
	return tasks, total, nil
}

// Exists reports whether a task with the given ID exists.
func (r *TaskRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.Exists")
	defer span.End()

	var exists bool
	err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)", id)
	if err != nil {
		return false, fmt.Errorf("checking task existence: %w", err)
	}
	return exists, nil
}

// Count returns the stored task count for the entity gauge.
func (r *TaskRepository) Count() int64 {
	return tableCount(r.db, "tasks")
}
