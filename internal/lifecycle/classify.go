// Package lifecycle классифицирует назначения задач относительно переданного момента времени.
// Все функции чистые: без ввода-вывода, без общего состояния.
package lifecycle

import (
	"candidateTasks/internal/models/task"
	"time"
)

type Classification string

const (
	Completed             Classification = "completed"
	Abandoned             Classification = "abandoned"
	OutstandingOverdue    Classification = "outstanding_overdue"
	OutstandingNotOverdue Classification = "outstanding_not_overdue"
)

// All - порядок бакетов для отображения
var All = []Classification{Completed, Abandoned, OutstandingOverdue, OutstandingNotOverdue}

func (c Classification) Outstanding() bool {
	return c == OutstandingOverdue || c == OutstandingNotOverdue
}

// Clock - источник текущего времени
type Clock func() time.Time

// SystemClock - часы по умолчанию
func SystemClock() time.Time {
	return time.Now()
}

// Classify относит назначение ровно к одному состоянию.
// Завершение важнее отказа; опциональная задача никогда не бывает просроченной.
// Паникует с *ContractViolation, если назначение или задача отсутствуют.
func Classify(a *task.Assignment, now time.Time) Classification {
	mustHaveTask(a)

	switch {
	case a.IsCompleted():
		return Completed
	case a.IsAbandoned():
		return Abandoned
	case a.IsPastDue(now) && !a.IsOptional():
		return OutstandingOverdue
	default:
		return OutstandingNotOverdue
	}
}

// IsOverdue - удобная обёртка для DTO
func IsOverdue(a *task.Assignment, now time.Time) bool {
	return Classify(a, now) == OutstandingOverdue
}

func HasAnyOverdue(assignments []*task.Assignment, now time.Time) bool {
	return hasAny(assignments, now, func(c Classification) bool { return c == OutstandingOverdue })
}

func HasAnyAbandoned(assignments []*task.Assignment, now time.Time) bool {
	return hasAny(assignments, now, func(c Classification) bool { return c == Abandoned })
}

// HasAnyCompleted не зависит от времени: завершение всегда побеждает
func HasAnyCompleted(assignments []*task.Assignment) bool {
	return hasAny(assignments, time.Time{}, func(c Classification) bool { return c == Completed })
}

// HasAnyOutstanding - есть ли незавершённые и не брошенные, независимо от срока
func HasAnyOutstanding(assignments []*task.Assignment, now time.Time) bool {
	return hasAny(assignments, now, Classification.Outstanding)
}

// Count считает назначения по состояниям; каждое попадает ровно в один счётчик
func Count(assignments []*task.Assignment, now time.Time) map[Classification]int {
	counts := make(map[Classification]int, len(All))
	for _, c := range All {
		counts[c] = 0
	}
	for _, a := range assignments {
		counts[Classify(a, now)]++
	}
	return counts
}

func hasAny(assignments []*task.Assignment, now time.Time, match func(Classification) bool) bool {
	for _, a := range assignments {
		if match(Classify(a, now)) {
			return true
		}
	}
	return false
}
