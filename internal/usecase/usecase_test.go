package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskops/taskboard/internal/model"
	"github.com/taskops/taskboard/internal/repository"
	"github.com/taskops/taskboard/internal/service"
)

// fixture wires every use case over the in-memory repositories.
type fixture struct {
	users     *repository.InMemoryUserRepository
	taskLists *repository.InMemoryTaskListRepository
	tasks     *repository.InMemoryTaskRepository

	createUser     *CreateUserUseCase
	getUsers       *GetUsersUseCase
	updateUser     *UpdateUserUseCase
	deleteUser     *DeleteUserUseCase
	deactivateUser *DeactivateUserUseCase

	createTaskList *CreateTaskListUseCase
	getTaskList    *GetTaskListUseCase
	deleteTaskList *DeleteTaskListUseCase

	createTask     *CreateTaskUseCase
	getTasks       *GetTasksUseCase
	updateTask     *UpdateTaskUseCase
	deleteTask     *DeleteTaskUseCase
	updateStatus   *UpdateTaskStatusUseCase
	updatePriority *UpdateTaskPriorityUseCase
	updateAssign   *UpdateTaskAssignmentUseCase

	taskSvc *service.TaskDomainService
}

func newFixture() *fixture {
	users := repository.NewInMemoryUserRepository()
	taskLists := repository.NewInMemoryTaskListRepository()
	tasks := repository.NewInMemoryTaskRepository()

	userSvc := service.NewUserDomainService(users)
	taskSvc := service.NewTaskDomainService(tasks, taskLists, users)
	taskListSvc := service.NewTaskListDomainService(taskLists)

	userVal := NewUserValidationService(userSvc)
	taskVal := NewTaskValidationService(taskSvc)
	taskListVal := NewTaskListValidationService(taskListSvc, users)

	return &fixture{
		users:     users,
		taskLists: taskLists,
		tasks:     tasks,

		createUser:     NewCreateUserUseCase(users, userVal),
		getUsers:       NewGetUsersUseCase(users),
		updateUser:     NewUpdateUserUseCase(users, userVal),
		deleteUser:     NewDeleteUserUseCase(users, userSvc),
		deactivateUser: NewDeactivateUserUseCase(users),

		createTaskList: NewCreateTaskListUseCase(taskListSvc, taskListVal),
		getTaskList:    NewGetTaskListUseCase(taskListSvc, tasks, taskSvc),
		deleteTaskList: NewDeleteTaskListUseCase(taskListSvc, taskListVal, tasks),

		createTask:     NewCreateTaskUseCase(tasks, taskVal, taskListVal),
		getTasks:       NewGetTasksUseCase(tasks),
		updateTask:     NewUpdateTaskUseCase(tasks, taskVal),
		deleteTask:     NewDeleteTaskUseCase(tasks, taskVal),
		updateStatus:   NewUpdateTaskStatusUseCase(tasks),
		updatePriority: NewUpdateTaskPriorityUseCase(tasks),
		updateAssign:   NewUpdateTaskAssignmentUseCase(tasks, taskVal),

		taskSvc: taskSvc,
	}
}

func TestCreateUserUniqueness(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.createUser.Execute(ctx, CreateUserInput{Email: "dup@example.com", Username: "first", FullName: "First"})
	require.NoError(t, err)

	_, err = f.createUser.Execute(ctx, CreateUserInput{Email: "dup@example.com", Username: "second", FullName: "Second"})
	assert.True(t, model.IsAlreadyExists(err), "duplicate email must be rejected, got %v", err)

	_, err = f.createUser.Execute(ctx, CreateUserInput{Email: "other@example.com", Username: "first", FullName: "Other"})
	assert.True(t, model.IsAlreadyExists(err), "duplicate username must be rejected, got %v", err)
}

func TestUpdateUserKeepsOwnFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	created, err := f.createUser.Execute(ctx, CreateUserInput{Email: "self@example.com", Username: "selfsame", FullName: "Self"})
	require.NoError(t, err)

	// re-submitting the user's own email and username must not conflict
	updated, err := f.updateUser.Execute(ctx, created.ID, UpdateUserInput{Email: "self@example.com", Username: "selfsame", FullName: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FullName)
}

func TestPaginationValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, _, err := f.getUsers.Execute(ctx, PageParams{Page: 0, Size: 10}, nil)
	assert.True(t, model.IsValidation(err))

	_, _, err = f.getTasks.Execute(ctx, PageParams{Page: 1, Size: 0}, nil)
	assert.True(t, model.IsValidation(err))

	_, _, err = f.getUsers.Execute(ctx, PageParams{Page: 1, Size: 10}, nil)
	assert.NoError(t, err)
}

func TestGetUsersPaging(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	for i := 0; i < 5; i++ {
		_, err := f.createUser.Execute(ctx, CreateUserInput{
			Email:    string(rune('a'+i)) + "@example.com",
			Username: "user_" + string(rune('a'+i)),
			FullName: "User",
		})
		require.NoError(t, err)
	}

	items, total, err := f.getUsers.Execute(ctx, PageParams{Page: 2, Size: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, items, 2)

	items, total, err = f.getUsers.Execute(ctx, PageParams{Page: 3, Size: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, items, 1)
}

func TestCreateTaskValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	t.Run("unknown task list", func(t *testing.T) {
		_, err := f.createTask.Execute(ctx, CreateTaskInput{Title: "orphan", TaskListID: uuid.New()})
		assert.True(t, model.IsNotFound(err))
	})

	list, err := f.createTaskList.Execute(ctx, CreateTaskListInput{Name: "inbox"})
	require.NoError(t, err)

	t.Run("unknown assignee", func(t *testing.T) {
		ghost := uuid.New()
		_, err := f.createTask.Execute(ctx, CreateTaskInput{Title: "haunted", TaskListID: list.ID, AssignedUserID: &ghost})
		assert.True(t, model.IsNotFound(err))
	})

	t.Run("inactive assignee", func(t *testing.T) {
		user, err := f.createUser.Execute(ctx, CreateUserInput{Email: "gone@example.com", Username: "gone", FullName: "Gone"})
		require.NoError(t, err)
		_, err = f.deactivateUser.Execute(ctx, user.ID)
		require.NoError(t, err)

		_, err = f.createTask.Execute(ctx, CreateTaskInput{Title: "idle", TaskListID: list.ID, AssignedUserID: &user.ID})
		assert.True(t, model.IsNotFound(err))
	})

	t.Run("valid unassigned task", func(t *testing.T) {
		task, err := f.createTask.Execute(ctx, CreateTaskInput{Title: "free", TaskListID: list.ID})
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, task.Status)
	})
}

func TestUpdateTaskStatusAndPriority(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	list, err := f.createTaskList.Execute(ctx, CreateTaskListInput{Name: "work"})
	require.NoError(t, err)
	task, err := f.createTask.Execute(ctx, CreateTaskInput{Title: "switches", TaskListID: list.ID})
	require.NoError(t, err)

	completed, err := f.updateStatus.Execute(ctx, task.ID, model.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	reopened, err := f.updateStatus.Execute(ctx, task.ID, model.StatusInProgress)
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)

	_, err = f.updateStatus.Execute(ctx, task.ID, model.TaskStatus("archived"))
	assert.True(t, model.IsValidation(err))

	critical, err := f.updatePriority.Execute(ctx, task.ID, model.PriorityCritical)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityCritical, critical.Priority)

	_, err = f.updatePriority.Execute(ctx, task.ID, model.TaskPriority("urgent"))
	assert.True(t, model.IsValidation(err))
}

func TestDeleteTaskListCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	list, err := f.createTaskList.Execute(ctx, CreateTaskListInput{Name: "doomed"})
	require.NoError(t, err)
	task, err := f.createTask.Execute(ctx, CreateTaskInput{Title: "going down", TaskListID: list.ID})
	require.NoError(t, err)

	require.NoError(t, f.deleteTaskList.Execute(ctx, list.ID))

	_, err = f.tasks.GetByID(ctx, task.ID)
	assert.True(t, model.IsNotFound(err))

	err = f.deleteTaskList.Execute(ctx, list.ID)
	assert.True(t, model.IsNotFound(err))
}

func TestTaskListStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	list, err := f.createTaskList.Execute(ctx, CreateTaskListInput{Name: "stats"})
	require.NoError(t, err)
	done, err := f.createTask.Execute(ctx, CreateTaskInput{Title: "done", TaskListID: list.ID})
	require.NoError(t, err)
	_, err = f.createTask.Execute(ctx, CreateTaskInput{Title: "open", TaskListID: list.ID})
	require.NoError(t, err)
	_, err = f.updateStatus.Execute(ctx, done.ID, model.StatusCompleted)
	require.NoError(t, err)

	_, stats, err := f.getTaskList.Execute(ctx, list.ID, true)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.TaskCount)
	assert.Equal(t, 50.0, stats.CompletionRate)

	_, stats, err = f.getTaskList.Execute(ctx, list.ID, false)
	require.NoError(t, err)
	assert.Nil(t, stats)
}

// TestEndToEndScenario follows one user, list and task through the full
// workflow: create, assign, complete, then check deletability before and
// after the archival window.
func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	user, err := f.createUser.Execute(ctx, CreateUserInput{Email: "e2e@example.com", Username: "endtoend", FullName: "End to End"})
	require.NoError(t, err)

	list, err := f.createTaskList.Execute(ctx, CreateTaskListInput{Name: "scenario", OwnerID: &user.ID})
	require.NoError(t, err)
	require.NotNil(t, list.OwnerID)

	task, err := f.createTask.Execute(ctx, CreateTaskInput{Title: "the one task", TaskListID: list.ID})
	require.NoError(t, err)
	assert.Nil(t, task.AssignedUserID)

	assigned, err := f.updateAssign.Execute(ctx, task.ID, &user.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedUserID)
	assert.Equal(t, user.ID, *assigned.AssignedUserID)

	completed, err := f.updateStatus.Execute(ctx, task.ID, model.StatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)

	ok, _, err := f.taskSvc.CanTaskBeDeleted(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, ok, "freshly completed tasks are deletable")

	// backdate completion beyond the archival window
	backdated := time.Now().UTC().Add(-31 * 24 * time.Hour)
	completed.CompletedAt = &backdated
	_, err = f.tasks.Update(ctx, completed)
	require.NoError(t, err)

	ok, reason, err := f.taskSvc.CanTaskBeDeleted(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, reason, "archived")

	err = f.deleteTask.Execute(ctx, task.ID)
	assert.True(t, model.IsValidation(err), "archival policy surfaces as a validation error")

	err = f.deleteTask.Execute(ctx, uuid.New())
	assert.True(t, model.IsNotFound(err))
}

func TestCreateTaskListOwnerValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	ghost := uuid.New()
	_, err := f.createTaskList.Execute(ctx, CreateTaskListInput{Name: "orphaned", OwnerID: &ghost})
	assert.True(t, model.IsNotFound(err))

	_, err = f.createTaskList.Execute(ctx, CreateTaskListInput{Name: "ownerless"})
	assert.NoError(t, err, "a nil owner is allowed")
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	err := f.deleteUser.Execute(ctx, uuid.New())
	assert.True(t, model.IsNotFound(err))

	user, err := f.createUser.Execute(ctx, CreateUserInput{Email: "bye@example.com", Username: "byebye", FullName: "Bye"})
	require.NoError(t, err)
	require.NoError(t, f.deleteUser.Execute(ctx, user.ID))

	_, err = f.users.GetByID(ctx, user.ID)
	assert.True(t, model.IsNotFound(err))
}
