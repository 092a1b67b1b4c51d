package ports

import (
	"context"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/domain"
)

// TaskRepository is the only component allowed to query storage. Every method
// takes the owner id right after the context and scopes its predicate by it.
type TaskRepository interface {
	ListByOwner(ctx context.Context, ownerID string, filter domain.TaskFilter) ([]domain.Task, int, error)
	FindByID(ctx context.Context, ownerID, taskID string) (domain.Task, error)
	Create(ctx context.Context, ownerID string, input domain.CreateTaskInput) (domain.Task, error)
	Update(ctx context.Context, ownerID, taskID string, input domain.UpdateTaskInput) (domain.Task, error)
	SoftDelete(ctx context.Context, ownerID, taskID string) error
}

type TaskService interface {
	ListTasks(ctx context.Context, ownerID string, filter domain.TaskFilter) (domain.TaskPage, error)
	CreateTask(ctx context.Context, ownerID string, input domain.CreateTaskInput) (domain.Task, error)
	GetTask(ctx context.Context, ownerID, taskID string) (domain.Task, error)
	UpdateTask(ctx context.Context, ownerID, taskID string, input domain.UpdateTaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID string) error
}
