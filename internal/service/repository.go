package service

import (
	"candidateTasks/internal/models/task"
	"context"

	"github.com/google/uuid"
)

// Repository - хранилище задач, списков и назначений
type Repository interface {
	HealthCheck(ctx context.Context) error

	CreateTask(ctx context.Context, t *task.Task) error
	GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error)
	ListTasks(ctx context.Context) ([]*task.Task, error)

	AddListMembers(ctx context.Context, listID uuid.UUID, candidateIDs ...uuid.UUID) error
	ListMembers(ctx context.Context, listID uuid.UUID) ([]uuid.UUID, error)

	CreateAssignment(ctx context.Context, a *task.Assignment) error
	UpdateAssignment(ctx context.Context, a *task.Assignment) error
	GetAssignment(ctx context.Context, id uuid.UUID) (*task.Assignment, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*task.Assignment, error)
	ListByTaskAndList(ctx context.Context, taskID, listID uuid.UUID) ([]*task.Assignment, error)
}
