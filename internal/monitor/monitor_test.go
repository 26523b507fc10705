package monitor_test

import (
	"candidateTasks/internal/lifecycle"
	"candidateTasks/internal/models/task"
	"candidateTasks/internal/monitor"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAssignmentQuery - мок источника назначений
type MockAssignmentQuery struct {
	mock.Mock
}

func (m *MockAssignmentQuery) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*task.Assignment, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Assignment), args.Error(1)
}

func (m *MockAssignmentQuery) ListByTaskAndList(ctx context.Context, taskID, listID uuid.UUID) ([]*task.Assignment, error) {
	args := m.Called(ctx, taskID, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Assignment), args.Error(1)
}

var _ monitor.AssignmentQuery = (*MockAssignmentQuery)(nil)

func fixedClock() time.Time { return now }

// TestMonitor_ForCandidate тестирует получение и классификацию по кандидату
func TestMonitor_ForCandidate(t *testing.T) {
	ctx := context.Background()
	candidateID := uuid.New()

	deleted := assignment("Deleted", -10, false)
	deleted.Status = task.StatusDeleted
	inactive := assignment("Inactive", -10, false)
	inactive.Status = task.StatusInactive

	tests := []struct {
		name          string
		setupMock     func(*MockAssignmentQuery)
		filters       []monitor.Filter
		expectError   bool
		expectedCount monitor.Counts
	}{
		{
			name: "success - classified with injected clock",
			setupMock: func(m *MockAssignmentQuery) {
				m.On("ListByCandidate", mock.Anything, candidateID).Return([]*task.Assignment{
					completed("A"),
					assignment("B", -1, false),
					assignment("C", 1, false),
				}, nil)
			},
			expectedCount: monitor.Counts{Total: 3, Completed: 1, OutstandingOverdue: 1, OutstandingNotOverdue: 1},
		},
		{
			name: "success - deleted filtered out",
			setupMock: func(m *MockAssignmentQuery) {
				m.On("ListByCandidate", mock.Anything, candidateID).Return([]*task.Assignment{deleted, inactive}, nil)
			},
			filters:       []monitor.Filter{monitor.ExcludeDeleted},
			expectedCount: monitor.Counts{Total: 1, OutstandingOverdue: 1},
		},
		{
			name: "success - only active",
			setupMock: func(m *MockAssignmentQuery) {
				m.On("ListByCandidate", mock.Anything, candidateID).Return([]*task.Assignment{deleted, inactive}, nil)
			},
			filters:       []monitor.Filter{monitor.OnlyActive},
			expectedCount: monitor.Counts{},
		},
		{
			name: "success - empty",
			setupMock: func(m *MockAssignmentQuery) {
				m.On("ListByCandidate", mock.Anything, candidateID).Return([]*task.Assignment{}, nil)
			},
			expectedCount: monitor.Counts{},
		},
		{
			name: "error - fetch failed",
			setupMock: func(m *MockAssignmentQuery) {
				m.On("ListByCandidate", mock.Anything, candidateID).Return(nil, errors.New("connection refused"))
			},
			expectError: true,
		},
		{
			name: "error - assignment without task",
			setupMock: func(m *MockAssignmentQuery) {
				m.On("ListByCandidate", mock.Anything, candidateID).Return([]*task.Assignment{{UUID: uuid.New()}}, nil)
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := new(MockAssignmentQuery)
			tt.setupMock(query)

			m := monitor.New(query, monitor.WithClock(fixedClock))
			summary, err := m.ForCandidate(ctx, candidateID, tt.filters...)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedCount, summary.Counts())
			}

			query.AssertExpectations(t)
		})
	}
}

// TestMonitor_ForListTask тестирует мониторинг задачи в списке
func TestMonitor_ForListTask(t *testing.T) {
	ctx := context.Background()
	taskID, listID := uuid.New(), uuid.New()

	t.Run("success", func(t *testing.T) {
		query := new(MockAssignmentQuery)
		query.On("ListByTaskAndList", mock.Anything, taskID, listID).Return([]*task.Assignment{
			completed("Same"), completed("Same"), abandoned("Same"),
		}, nil)

		m := monitor.New(query, monitor.WithClock(fixedClock))
		summary, err := m.ForListTask(ctx, taskID, listID)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Counts().Completed)
		assert.Equal(t, 1, summary.Counts().Abandoned)
		assert.False(t, summary.Hidden())
		query.AssertExpectations(t)
	})

	t.Run("fetch error is wrapped", func(t *testing.T) {
		fetchErr := errors.New("timeout")
		query := new(MockAssignmentQuery)
		query.On("ListByTaskAndList", mock.Anything, taskID, listID).Return(nil, fetchErr)

		m := monitor.New(query)
		_, err := m.ForListTask(ctx, taskID, listID)
		assert.ErrorIs(t, err, fetchErr)
	})

	t.Run("missing task is a contract violation", func(t *testing.T) {
		query := new(MockAssignmentQuery)
		query.On("ListByTaskAndList", mock.Anything, taskID, listID).Return([]*task.Assignment{{UUID: uuid.New()}}, nil)

		m := monitor.New(query)
		_, err := m.ForListTask(ctx, taskID, listID)
		assert.ErrorIs(t, err, lifecycle.ErrMissingTask)
	})
}

// TestMonitor_NoCaching каждый вызов заново получает и классифицирует данные
func TestMonitor_NoCaching(t *testing.T) {
	ctx := context.Background()
	candidateID := uuid.New()
	a := assignment("A", 1, false)

	current := now
	clock := func() time.Time { return current }

	query := new(MockAssignmentQuery)
	query.On("ListByCandidate", mock.Anything, candidateID).Return([]*task.Assignment{a}, nil).Twice()

	m := monitor.New(query, monitor.WithClock(clock))

	first, err := m.ForCandidate(ctx, candidateID)
	require.NoError(t, err)
	assert.False(t, first.HasOverdue())

	current = now.AddDate(0, 0, 2)
	second, err := m.ForCandidate(ctx, candidateID)
	require.NoError(t, err)
	assert.True(t, second.HasOverdue())

	query.AssertExpectations(t)
}
