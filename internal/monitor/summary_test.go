package monitor_test

import (
	"candidateTasks/internal/lifecycle"
	"candidateTasks/internal/models/task"
	"candidateTasks/internal/monitor"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func assignment(name string, dueOffsetDays int, optional bool) *task.Assignment {
	return &task.Assignment{
		UUID:        uuid.New(),
		Task:        &task.Task{UUID: uuid.New(), Name: name, Optional: optional},
		CandidateID: uuid.New(),
		DueDate:     now.AddDate(0, 0, dueOffsetDays),
		Status:      task.StatusActive,
	}
}

func completed(name string) *task.Assignment {
	a := assignment(name, -5, false)
	a.CompletedDate = ptr(now.AddDate(0, 0, -6))
	return a
}

func abandoned(name string) *task.Assignment {
	a := assignment(name, -5, false)
	a.AbandonedDate = ptr(now.AddDate(0, 0, -6))
	return a
}

// TestSummarize_Empty пустой вход - пустые бакеты и ложные флаги
func TestSummarize_Empty(t *testing.T) {
	s := monitor.SummarizeForCandidate([]*task.Assignment{}, now)

	assert.NotNil(t, s.Completed)
	assert.Empty(t, s.Completed)
	assert.Empty(t, s.Abandoned)
	assert.Empty(t, s.OutstandingOverdue)
	assert.Empty(t, s.OutstandingNotOverdue)
	assert.Equal(t, 0, s.Total())
	assert.False(t, s.HasOverdue())
	assert.False(t, s.HasAbandoned())
	assert.False(t, s.HasCompleted())
	assert.False(t, s.HasOutstanding())
	assert.Equal(t, monitor.Counts{}, s.Counts())

	nilSummary := monitor.SummarizeForListTask(nil, now)
	assert.Equal(t, 0, nilSummary.Total())
}

// TestSummarize_Buckets тестирует разбиение по бакетам
func TestSummarize_Buckets(t *testing.T) {
	done := completed("Done")
	gaveUp := abandoned("GaveUp")
	late := assignment("Late", -3, false)
	lateOptional := assignment("LateOptional", -3, true)
	upcoming := assignment("Upcoming", 10, false)

	s := monitor.SummarizeForCandidate([]*task.Assignment{upcoming, lateOptional, late, gaveUp, done}, now)

	assert.Equal(t, []*task.Assignment{done}, s.Completed)
	assert.Equal(t, []*task.Assignment{gaveUp}, s.Abandoned)
	assert.Equal(t, []*task.Assignment{late}, s.OutstandingOverdue)
	assert.Equal(t, []*task.Assignment{lateOptional, upcoming}, s.OutstandingNotOverdue)

	assert.Equal(t, monitor.Counts{
		Total:                 5,
		Completed:             1,
		Abandoned:             1,
		OutstandingOverdue:    1,
		OutstandingNotOverdue: 2,
	}, s.Counts())

	assert.True(t, s.HasOverdue())
	assert.True(t, s.HasAbandoned())
	assert.True(t, s.HasCompleted())
	assert.True(t, s.HasOutstanding())
	assert.False(t, s.Hidden())

	all := s.All()
	require.Len(t, all, 4)
}

// TestSummarize_BucketsSorted бакеты отсортированы по сроку и имени
func TestSummarize_BucketsSorted(t *testing.T) {
	zeta := assignment("Zeta", 3, false)
	alpha := assignment("Alpha", 3, false)
	early := assignment("Mid", 1, false)

	s := monitor.SummarizeForListTask([]*task.Assignment{zeta, alpha, early}, now)
	assert.Equal(t, []*task.Assignment{early, alpha, zeta}, s.OutstandingNotOverdue)
}

// TestSummary_Hidden правило скрытия бейджа
func TestSummary_Hidden(t *testing.T) {
	tests := []struct {
		name     string
		input    []*task.Assignment
		expected bool
	}{
		{
			name:     "three completed, none abandoned",
			input:    []*task.Assignment{completed("A"), completed("B"), completed("C")},
			expected: true,
		},
		{
			name:     "two completed, one abandoned",
			input:    []*task.Assignment{completed("A"), completed("B"), abandoned("C")},
			expected: false,
		},
		{
			name:     "one outstanding",
			input:    []*task.Assignment{completed("A"), assignment("B", 5, false)},
			expected: false,
		},
		{
			name:     "empty set hides the badge",
			input:    []*task.Assignment{},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := monitor.SummarizeForCandidate(tt.input, now)
			assert.Equal(t, tt.expected, s.Hidden())
		})
	}
}

// TestBadgeHidden правило над заранее полученными наборами
func TestBadgeHidden(t *testing.T) {
	a, b, c := completed("A"), completed("B"), completed("C")
	total := []*task.Assignment{a, b, c}
	assert.True(t, monitor.BadgeHidden(total, total, now))

	// завершённое, но ранее брошенное назначение всё равно показывает бейдж
	ab := abandoned("D")
	withAbandoned := []*task.Assignment{a, b, ab}
	assert.False(t, monitor.BadgeHidden([]*task.Assignment{a, b, ab}, withAbandoned, now))
	assert.False(t, monitor.BadgeHidden([]*task.Assignment{a, b}, withAbandoned, now))
}

func TestSummarize_MissingTaskPanics(t *testing.T) {
	bad := &task.Assignment{UUID: uuid.New(), DueDate: now}
	assert.Panics(t, func() {
		monitor.SummarizeForCandidate([]*task.Assignment{bad}, now)
	})
}

// TestSummarize_NilAmongManyPanicsWithViolation сортировка до классификации не теряет тип паники
func TestSummarize_NilAmongManyPanicsWithViolation(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*lifecycle.ContractViolation)
		assert.True(t, ok, "ожидалась *ContractViolation, получено %T", r)
	}()
	monitor.SummarizeForCandidate([]*task.Assignment{assignment("A", 1, false), nil, assignment("B", 2, false)}, now)
}
