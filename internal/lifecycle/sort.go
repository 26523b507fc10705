package lifecycle

import (
	"candidateTasks/internal/models/task"
	"slices"
	"strings"
)

// Compare упорядочивает по сроку, затем по имени задачи.
// Подходит для slices.SortStableFunc. Паникует с *ContractViolation, как и Classify.
func Compare(a, b *task.Assignment) int {
	mustHaveTask(a)
	mustHaveTask(b)

	if c := a.DueDate.Compare(b.DueDate); c != 0 {
		return c
	}
	return strings.Compare(a.TaskName(), b.TaskName())
}

// Sorted возвращает отсортированную копию, исходный срез не меняется
func Sorted(assignments []*task.Assignment) []*task.Assignment {
	res := slices.Clone(assignments)
	if res == nil {
		res = []*task.Assignment{}
	}
	slices.SortStableFunc(res, Compare)
	return res
}
