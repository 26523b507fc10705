package task

import (
	"time"
)

// AssignmentOption - изменение назначения, применяется сервисом перед сохранением.
// Конструкторы возвращают nil, если изменять нечего.
type AssignmentOption func(*Assignment)

func WithDueDate(dueDate time.Time) AssignmentOption {
	if dueDate.IsZero() {
		return nil
	}
	return func(a *Assignment) {
		a.DueDate = dueDate
	}
}

func WithNotes(notes *string) AssignmentOption {
	if notes == nil {
		return nil
	}
	return func(a *Assignment) {
		a.CandidateNotes = *notes
	}
}

func WithAnswer(answer *string) AssignmentOption {
	if answer == nil {
		return nil
	}
	return func(a *Assignment) {
		a.Answer = *answer
	}
}

// WithCompleted: true ставит дату завершения, если её ещё нет, и снимает отказ; false сбрасывает
func WithCompleted(completed *bool, now time.Time) AssignmentOption {
	if completed == nil {
		return nil
	}
	return func(a *Assignment) {
		if !*completed {
			a.CompletedDate = nil
			return
		}
		a.AbandonedDate = nil
		if a.CompletedDate == nil {
			t := now
			a.CompletedDate = &t
		}
	}
}

// WithAbandoned: true ставит дату отказа, если её ещё нет, и снимает завершение; false сбрасывает
func WithAbandoned(abandoned *bool, now time.Time) AssignmentOption {
	if abandoned == nil {
		return nil
	}
	return func(a *Assignment) {
		if !*abandoned {
			a.AbandonedDate = nil
			return
		}
		a.CompletedDate = nil
		if a.AbandonedDate == nil {
			t := now
			a.AbandonedDate = &t
		}
	}
}

func WithStatus(status Status, now time.Time) AssignmentOption {
	if status == "" {
		return nil
	}
	return func(a *Assignment) {
		if status != StatusActive && a.Status == StatusActive {
			t := now
			a.DeactivatedAt = &t
		}
		a.Status = status
	}
}

// Apply применяет опции, пропуская nil
func (a *Assignment) Apply(options ...AssignmentOption) {
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
}
