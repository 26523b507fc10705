// Package monitor группирует назначения по состояниям для бейджей и таблиц мониторинга.
package monitor

import (
	"candidateTasks/internal/lifecycle"
	"candidateTasks/internal/models/task"
	"time"
)

// Summary - разбиение набора назначений на четыре непересекающихся бакета.
// Каждый бакет отсортирован по сроку и имени задачи.
type Summary struct {
	Completed             []*task.Assignment
	Abandoned             []*task.Assignment
	OutstandingOverdue    []*task.Assignment
	OutstandingNotOverdue []*task.Assignment
	// AsOf - момент, на который выполнена классификация
	AsOf                  time.Time
}

type Counts struct {
	Total                 int `json:"total"`
	Completed             int `json:"completed"`
	Abandoned             int `json:"abandoned"`
	OutstandingOverdue    int `json:"outstanding_overdue"`
	OutstandingNotOverdue int `json:"outstanding_not_overdue"`
}

// Summarize - общий алгоритм разбиения. Пустой вход даёт пустые (не nil) бакеты.
func Summarize(assignments []*task.Assignment, now time.Time) Summary {
	s := Summary{
		Completed:             []*task.Assignment{},
		Abandoned:             []*task.Assignment{},
		OutstandingOverdue:    []*task.Assignment{},
		OutstandingNotOverdue: []*task.Assignment{},
		AsOf:                  now,
	}

	for _, a := range lifecycle.Sorted(assignments) {
		switch lifecycle.Classify(a, now) {
		case lifecycle.Completed:
			s.Completed = append(s.Completed, a)
		case lifecycle.Abandoned:
			s.Abandoned = append(s.Abandoned, a)
		case lifecycle.OutstandingOverdue:
			s.OutstandingOverdue = append(s.OutstandingOverdue, a)
		default:
			s.OutstandingNotOverdue = append(s.OutstandingNotOverdue, a)
		}
	}
	return s
}

// SummarizeForCandidate - все назначения одного кандидата
func SummarizeForCandidate(assignments []*task.Assignment, now time.Time) Summary {
	return Summarize(assignments, now)
}

// SummarizeForListTask - назначения одной задачи в рамках списка.
// Отличается от кандидатского только источником данных.
func SummarizeForListTask(assignments []*task.Assignment, now time.Time) Summary {
	return Summarize(assignments, now)
}

func (s Summary) Total() int {
	return len(s.Completed) + len(s.Abandoned) + len(s.OutstandingOverdue) + len(s.OutstandingNotOverdue)
}

func (s Summary) Counts() Counts {
	return Counts{
		Total:                 s.Total(),
		Completed:             len(s.Completed),
		Abandoned:             len(s.Abandoned),
		OutstandingOverdue:    len(s.OutstandingOverdue),
		OutstandingNotOverdue: len(s.OutstandingNotOverdue),
	}
}

func (s Summary) HasOverdue() bool {
	return len(s.OutstandingOverdue) > 0
}

func (s Summary) HasAbandoned() bool {
	return len(s.Abandoned) > 0
}

func (s Summary) HasCompleted() bool {
	return len(s.Completed) > 0
}

func (s Summary) HasOutstanding() bool {
	return len(s.OutstandingOverdue)+len(s.OutstandingNotOverdue) > 0
}

// Hidden - бейдж скрывается, только если всё завершено и ничего не брошено
func (s Summary) Hidden() bool {
	return len(s.Completed) == s.Total() && !s.HasAbandoned()
}

// All возвращает бакеты по состояниям; ключи совпадают с lifecycle.All
func (s Summary) All() map[lifecycle.Classification][]*task.Assignment {
	return map[lifecycle.Classification][]*task.Assignment{
		lifecycle.Completed:             s.Completed,
		lifecycle.Abandoned:             s.Abandoned,
		lifecycle.OutstandingOverdue:    s.OutstandingOverdue,
		lifecycle.OutstandingNotOverdue: s.OutstandingNotOverdue,
	}
}

// BadgeHidden - правило скрытия бейджа поверх уже полученных наборов
func BadgeHidden(completed, total []*task.Assignment, now time.Time) bool {
	return len(completed) == len(total) && !lifecycle.HasAnyAbandoned(total, now)
}
