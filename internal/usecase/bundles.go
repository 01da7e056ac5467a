package usecase

import (
	"github.com/taskops/taskboard/internal/repository"
	"github.com/taskops/taskboard/internal/service"
)

// UserUseCases bundles the user operations for handler wiring.
type UserUseCases struct {
	Create        *CreateUserUseCase
	Get           *GetUserUseCase
	GetByEmail    *GetUserByEmailUseCase
	GetByUsername *GetUserByUsernameUseCase
	List          *GetUsersUseCase
	Update        *UpdateUserUseCase
	Delete        *DeleteUserUseCase
	Activate      *ActivateUserUseCase
	Deactivate    *DeactivateUserUseCase
}

// NewUserUseCases wires the user use cases over one repository.
func NewUserUseCases(users repository.UserRepository, domain *service.UserDomainService, validation *UserValidationService) *UserUseCases {
	return &UserUseCases{
		Create:        NewCreateUserUseCase(users, validation),
		Get:           NewGetUserUseCase(users),
		GetByEmail:    NewGetUserByEmailUseCase(users),
		GetByUsername: NewGetUserByUsernameUseCase(users),
		List:          NewGetUsersUseCase(users),
		Update:        NewUpdateUserUseCase(users, validation),
		Delete:        NewDeleteUserUseCase(users, domain),
		Activate:      NewActivateUserUseCase(users),
		Deactivate:    NewDeactivateUserUseCase(users),
	}
}

// TaskListUseCases bundles the task list operations for handler wiring.
type TaskListUseCases struct {
	Create *CreateTaskListUseCase
	Get    *GetTaskListUseCase
	Tasks  *GetTaskListTasksUseCase
	List   *GetTaskListsUseCase
	Update *UpdateTaskListUseCase
	Delete *DeleteTaskListUseCase
}

// NewTaskListUseCases wires the task list use cases.
func NewTaskListUseCases(domain *service.TaskListDomainService, validation *TaskListValidationService, taskLists repository.TaskListRepository, tasks repository.TaskRepository, taskSvc *service.TaskDomainService) *TaskListUseCases {
	return &TaskListUseCases{
		Create: NewCreateTaskListUseCase(domain, validation),
		Get:    NewGetTaskListUseCase(domain, tasks, taskSvc),
		Tasks:  NewGetTaskListTasksUseCase(domain, tasks, taskSvc),
		List:   NewGetTaskListsUseCase(domain),
		Update: NewUpdateTaskListUseCase(domain, taskLists),
		Delete: NewDeleteTaskListUseCase(domain, validation, tasks),
	}
}

// TaskUseCases bundles the task operations for handler wiring.
type TaskUseCases struct {
	Create         *CreateTaskUseCase
	Get            *GetTaskUseCase
	List           *GetTasksUseCase
	Update         *UpdateTaskUseCase
	Delete         *DeleteTaskUseCase
	UpdateStatus   *UpdateTaskStatusUseCase
	UpdatePriority *UpdateTaskPriorityUseCase
	UpdateAssign   *UpdateTaskAssignmentUseCase
}

// NewTaskUseCases wires the task use cases.
func NewTaskUseCases(tasks repository.TaskRepository, validation *TaskValidationService, taskListValidation *TaskListValidationService) *TaskUseCases {
	return &TaskUseCases{
		Create:         NewCreateTaskUseCase(tasks, validation, taskListValidation),
		Get:            NewGetTaskUseCase(tasks),
		List:           NewGetTasksUseCase(tasks),
		Update:         NewUpdateTaskUseCase(tasks, validation),
		Delete:         NewDeleteTaskUseCase(tasks, validation),
		UpdateStatus:   NewUpdateTaskStatusUseCase(tasks),
		UpdatePriority: NewUpdateTaskPriorityUseCase(tasks),
		UpdateAssign:   NewUpdateTaskAssignmentUseCase(tasks, validation),
	}
}
