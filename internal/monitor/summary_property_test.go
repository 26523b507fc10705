package monitor_test

import (
	"candidateTasks/internal/lifecycle"
	"candidateTasks/internal/models/task"
	"candidateTasks/internal/monitor"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"pgregory.net/rapid"
)

func drawAssignments(rt *rapid.T) []*task.Assignment {
	n := rapid.IntRange(0, 25).Draw(rt, "n")
	res := make([]*task.Assignment, 0, n)
	for i := 0; i < n; i++ {
		label := fmt.Sprintf("a%d", i)
		a := assignment(
			rapid.SampledFrom([]string{"Alpha", "Beta", "Zeta"}).Draw(rt, label+"_name"),
			rapid.IntRange(-30, 30).Draw(rt, label+"_due"),
			rapid.Bool().Draw(rt, label+"_optional"),
		)
		if rapid.Bool().Draw(rt, label+"_completed") {
			a.CompletedDate = ptr(now.Add(-time.Hour))
		}
		if rapid.Bool().Draw(rt, label+"_abandoned") {
			a.AbandonedDate = ptr(now.Add(-time.Hour))
		}
		res = append(res, a)
	}
	return res
}

// Бакеты попарно не пересекаются, а их суммарный размер равен размеру входа
func TestProperty_PartitionCompleteness(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		input := drawAssignments(rt)
		s := monitor.SummarizeForCandidate(input, now)

		if s.Total() != len(input) {
			rt.Fatalf("Total = %d, want %d", s.Total(), len(input))
		}

		seen := map[uuid.UUID]lifecycle.Classification{}
		for class, bucket := range s.All() {
			for _, a := range bucket {
				if prev, ok := seen[a.UUID]; ok {
					rt.Fatalf("assignment in %s and %s", prev, class)
				}
				seen[a.UUID] = class
				if got := lifecycle.Classify(a, now); got != class {
					rt.Fatalf("assignment in bucket %s classifies as %s", class, got)
				}
			}
		}
		if len(seen) != len(input) {
			rt.Fatalf("seen %d distinct, want %d", len(seen), len(input))
		}
	})
}

// Флаги сводки совпадают с флагами классификатора
func TestProperty_SummaryFlagsMatchClassifier(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		input := drawAssignments(rt)
		s := monitor.SummarizeForListTask(input, now)

		if s.HasOverdue() != lifecycle.HasAnyOverdue(input, now) {
			rt.Fatalf("HasOverdue mismatch")
		}
		if s.HasAbandoned() != lifecycle.HasAnyAbandoned(input, now) {
			rt.Fatalf("HasAbandoned mismatch")
		}
		if s.HasCompleted() != lifecycle.HasAnyCompleted(input) {
			rt.Fatalf("HasCompleted mismatch")
		}
		if s.HasOutstanding() != lifecycle.HasAnyOutstanding(input, now) {
			rt.Fatalf("HasOutstanding mismatch")
		}
		if s.Hidden() != monitor.BadgeHidden(s.Completed, input, now) {
			rt.Fatalf("Hidden mismatch")
		}
	})
}
