package lifecycle_test

import (
	"candidateTasks/internal/lifecycle"
	"candidateTasks/internal/models/task"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(due, name string) *task.Assignment {
	a := newAssignment(due, false)
	a.Task.Name = name
	return a
}

// TestSorted тестирует порядок: срок, затем имя задачи
func TestSorted(t *testing.T) {
	t.Run("by due date", func(t *testing.T) {
		beta := named("2024-08-01", "Beta")
		alpha := named("2024-07-31", "Alpha")

		sorted := lifecycle.Sorted([]*task.Assignment{beta, alpha})
		require.Len(t, sorted, 2)
		assert.Same(t, alpha, sorted[0])
		assert.Same(t, beta, sorted[1])
	})

	t.Run("tie broken by task name", func(t *testing.T) {
		zeta := named("2024-07-31", "Zeta")
		alpha := named("2024-07-31", "Alpha")

		sorted := lifecycle.Sorted([]*task.Assignment{zeta, alpha})
		assert.Same(t, alpha, sorted[0])
		assert.Same(t, zeta, sorted[1])
	})

	t.Run("input is not mutated", func(t *testing.T) {
		input := []*task.Assignment{named("2024-08-01", "B"), named("2024-07-01", "A")}
		original := slices.Clone(input)

		_ = lifecycle.Sorted(input)
		assert.Equal(t, original, input)
	})

	t.Run("stable for equal keys", func(t *testing.T) {
		first := named("2024-07-31", "Same")
		second := named("2024-07-31", "Same")

		sorted := lifecycle.Sorted([]*task.Assignment{first, second})
		assert.Same(t, first, sorted[0])
		assert.Same(t, second, sorted[1])
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, lifecycle.Sorted(nil))
		assert.NotNil(t, lifecycle.Sorted(nil))
	})
}

func TestCompare(t *testing.T) {
	a := named("2024-07-31", "Alpha")
	b := named("2024-07-31", "Beta")
	c := named("2024-08-01", "Alpha")

	assert.Negative(t, lifecycle.Compare(a, b))
	assert.Positive(t, lifecycle.Compare(b, a))
	assert.Zero(t, lifecycle.Compare(a, a))
	assert.Negative(t, lifecycle.Compare(b, c))
}

// TestSorted_ContractViolation nil среди нескольких элементов даёт нарушение контракта, а не nil pointer
func TestSorted_ContractViolation(t *testing.T) {
	tests := []struct {
		name  string
		input []*task.Assignment
	}{
		{name: "nil element", input: []*task.Assignment{named("2024-01-01", "A"), nil}},
		{name: "missing task", input: []*task.Assignment{{DueDate: date("2024-01-01")}, named("2024-01-02", "B")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				cv, ok := r.(*lifecycle.ContractViolation)
				require.True(t, ok, "ожидалась *ContractViolation, получено %T", r)
				assert.True(t, errors.Is(cv, lifecycle.ErrNilAssignment) || errors.Is(cv, lifecycle.ErrMissingTask))
			}()
			lifecycle.Sorted(tt.input)
		})
	}
}
