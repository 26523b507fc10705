package monitor

import (
	"candidateTasks/internal/lifecycle"
	"candidateTasks/internal/logger"
	"candidateTasks/internal/models/task"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssignmentQuery - внешний источник назначений
type AssignmentQuery interface {
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*task.Assignment, error)
	ListByTaskAndList(ctx context.Context, taskID, listID uuid.UUID) ([]*task.Assignment, error)
}

// Filter отбирает назначения до классификации, например по статусу
type Filter func(*task.Assignment) bool

// Monitor получает назначения через AssignmentQuery и строит Summary.
// Ничего не кэширует: каждый вызов классифицирует заново.
type Monitor struct {
	query AssignmentQuery
	clock lifecycle.Clock
}

type Option func(*Monitor)

func WithClock(clock lifecycle.Clock) Option {
	return func(m *Monitor) {
		if clock != nil {
			m.clock = clock
		}
	}
}

func New(query AssignmentQuery, options ...Option) *Monitor {
	m := &Monitor{
		query: query,
		clock: lifecycle.SystemClock,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *Monitor) ForCandidate(ctx context.Context, candidateID uuid.UUID, filters ...Filter) (Summary, error) {
	assignments, err := m.query.ListByCandidate(ctx, candidateID)
	if err != nil {
		logger.Warn("Monitor: Не удалось получить назначения кандидата",
			zap.String("candidate_id", candidateID.String()),
			zap.Error(err))
		return Summary{}, fmt.Errorf("назначения кандидата %s: %w", candidateID.String(), err)
	}

	return m.summarize(apply(assignments, filters), SummarizeForCandidate)
}

func (m *Monitor) ForListTask(ctx context.Context, taskID, listID uuid.UUID, filters ...Filter) (Summary, error) {
	assignments, err := m.query.ListByTaskAndList(ctx, taskID, listID)
	if err != nil {
		logger.Warn("Monitor: Не удалось получить назначения списка",
			zap.String("task_id", taskID.String()),
			zap.String("list_id", listID.String()),
			zap.Error(err))
		return Summary{}, fmt.Errorf("назначения задачи %s в списке %s: %w", taskID.String(), listID.String(), err)
	}

	return m.summarize(apply(assignments, filters), SummarizeForListTask)
}

func (m *Monitor) summarize(assignments []*task.Assignment, fn func([]*task.Assignment, time.Time) Summary) (Summary, error) {
	if err := lifecycle.Validate(assignments); err != nil {
		logger.Error("Monitor: Некорректные данные от источника", err)
		return Summary{}, err
	}
	return fn(assignments, m.clock()), nil
}

// ExcludeDeleted - стандартный фильтр для кандидатских представлений
func ExcludeDeleted(a *task.Assignment) bool {
	return a.Status != task.StatusDeleted
}

// OnlyActive - только активные назначения
func OnlyActive(a *task.Assignment) bool {
	return a.Status == task.StatusActive
}

func apply(assignments []*task.Assignment, filters []Filter) []*task.Assignment {
	if len(filters) == 0 {
		return assignments
	}
	res := make([]*task.Assignment, 0, len(assignments))
outer:
	for _, a := range assignments {
		for _, f := range filters {
			if a != nil && !f(a) {
				continue outer
			}
		}
		res = append(res, a)
	}
	return res
}
