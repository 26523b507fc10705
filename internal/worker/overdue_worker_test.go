package worker_test

import (
	"candidateTasks/internal/models/task"
	"candidateTasks/internal/repository/task/inmemory"
	"candidateTasks/internal/worker"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOutstandingSource struct {
	mock.Mock
}

func (m *MockOutstandingSource) ListOutstandingDueBefore(ctx context.Context, deadline time.Time, limit int) ([]*task.Assignment, error) {
	args := m.Called(ctx, deadline, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Assignment), args.Error(1)
}

var now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

func outstanding(name string, candidateID uuid.UUID, dueOffsetDays int, optional bool) *task.Assignment {
	return &task.Assignment{
		UUID:        uuid.New(),
		Task:        &task.Task{UUID: uuid.New(), Name: name, Optional: optional},
		CandidateID: candidateID,
		DueDate:     now.AddDate(0, 0, dueOffsetDays),
		Status:      task.StatusActive,
	}
}

// TestOverdueWorker_Check тестирует построение снимка
func TestOverdueWorker_Check(t *testing.T) {
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	beta := outstanding("Beta", first, -1, false)
	alpha := outstanding("Alpha", first, -1, false)
	optional := outstanding("Optional", first, -3, true)
	other := outstanding("Other", second, -2, false)

	source := new(MockOutstandingSource)
	source.On("ListOutstandingDueBefore", mock.Anything, now, 10).
		Return([]*task.Assignment{beta, optional, other, alpha}, nil)

	batch := 10
	w := worker.NewOverdueWorker(source, nil, &batch, fixedClock)

	snapshot, err := w.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, now, snapshot.CheckedAt)
	assert.Equal(t, 4, snapshot.Checked)
	assert.Equal(t, 3, snapshot.Overdue)
	require.Len(t, snapshot.ByCandidate, 2)

	entries := snapshot.ByCandidate[first]
	require.Len(t, entries, 2)
	assert.Equal(t, "Alpha", entries[0].TaskName)
	assert.Equal(t, "Beta", entries[1].TaskName)
	assert.Len(t, snapshot.ByCandidate[second], 1)

	assert.Equal(t, snapshot, w.Snapshot())
	source.AssertExpectations(t)
}

// TestOverdueWorker_CheckErrors ошибка не затирает предыдущий снимок
func TestOverdueWorker_CheckErrors(t *testing.T) {
	ctx := context.Background()
	candidate := uuid.New()

	source := new(MockOutstandingSource)
	source.On("ListOutstandingDueBefore", mock.Anything, now, 100).
		Return([]*task.Assignment{outstanding("A", candidate, -1, false)}, nil).Once()
	source.On("ListOutstandingDueBefore", mock.Anything, now, 100).
		Return(nil, errors.New("timeout")).Once()
	source.On("ListOutstandingDueBefore", mock.Anything, now, 100).
		Return([]*task.Assignment{{UUID: uuid.New()}}, nil).Once()

	w := worker.NewOverdueWorker(source, nil, nil, fixedClock)

	_, err := w.Check(ctx)
	require.NoError(t, err)

	_, err = w.Check(ctx)
	assert.Error(t, err)

	_, err = w.Check(ctx)
	assert.Error(t, err)

	assert.Equal(t, 1, w.Snapshot().Overdue)
}

// TestOverdueWorker_SnapshotIsCopy изменение копии не влияет на воркер
func TestOverdueWorker_SnapshotIsCopy(t *testing.T) {
	candidate := uuid.New()
	source := new(MockOutstandingSource)
	source.On("ListOutstandingDueBefore", mock.Anything, now, 100).
		Return([]*task.Assignment{outstanding("A", candidate, -1, false)}, nil)

	w := worker.NewOverdueWorker(source, nil, nil, fixedClock)
	_, err := w.Check(context.Background())
	require.NoError(t, err)

	snap := w.Snapshot()
	snap.ByCandidate[candidate][0].TaskName = "changed"
	delete(snap.ByCandidate, candidate)

	again := w.Snapshot()
	require.Len(t, again.ByCandidate[candidate], 1)
	assert.Equal(t, "A", again.ByCandidate[candidate][0].TaskName)
}

// TestOverdueWorker_Start работает с хранилищем в памяти и останавливается по контексту
func TestOverdueWorker_Start(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	storage := inmemory.NewStorage()

	tk := &task.Task{UUID: uuid.New(), Name: "Sign contract", TaskType: task.TypeSimple}
	require.NoError(t, storage.CreateTask(ctx, tk))
	candidate := uuid.New()
	require.NoError(t, storage.CreateAssignment(ctx, &task.Assignment{
		UUID:        uuid.New(),
		Task:        tk,
		CandidateID: candidate,
		DueDate:     time.Now().Add(-time.Hour),
	}))

	interval := 10 * time.Millisecond
	w := worker.NewOverdueWorker(storage, &interval, nil, nil)

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	assert.Eventually(t, func() bool {
		return w.Snapshot().Overdue == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("воркер не остановился")
	}
}
