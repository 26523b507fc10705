package handlers

import (
	"candidateTasks/internal/models/task"
	"candidateTasks/internal/monitor"
	"candidateTasks/internal/worker"
	"context"
	"time"

	"github.com/google/uuid"
)

type Service interface {
	HealthCheck(ctx context.Context) error
	Now() time.Time

	CreateTask(ctx context.Context, draft *task.Task) (*task.Task, error)
	ListTasks(ctx context.Context) ([]*task.Task, error)
	AddListMembers(ctx context.Context, listID uuid.UUID, candidateIDs ...uuid.UUID) error

	AssignToCandidate(ctx context.Context, taskID, candidateID uuid.UUID, options ...task.AssignmentOption) (*task.Assignment, error)
	AssignToList(ctx context.Context, taskID, listID uuid.UUID, options ...task.AssignmentOption) ([]*task.Assignment, error)
	RemoveTaskFromList(ctx context.Context, taskID, listID uuid.UUID) ([]*task.Assignment, error)
	GetAssignment(ctx context.Context, id uuid.UUID) (*task.Assignment, error)
	UpdateAssignment(ctx context.Context, id uuid.UUID, options ...task.AssignmentOption) (*task.Assignment, error)
	CompleteAssignment(ctx context.Context, id uuid.UUID) (*task.Assignment, error)
	AbandonAssignment(ctx context.Context, id uuid.UUID) (*task.Assignment, error)
	DeactivateAssignment(ctx context.Context, id uuid.UUID) (*task.Assignment, error)
	DeleteAssignment(ctx context.Context, id uuid.UUID) error

	CandidateAssignments(ctx context.Context, candidateID uuid.UUID) ([]*task.Assignment, error)
	CandidateMonitor(ctx context.Context, candidateID uuid.UUID, activeOnly bool) (monitor.Summary, error)
	ListTaskMonitor(ctx context.Context, taskID, listID uuid.UUID, activeOnly bool) (monitor.Summary, error)
}

// OverdueReporter - источник снимка просроченных назначений
type OverdueReporter interface {
	Snapshot() worker.Snapshot
}
