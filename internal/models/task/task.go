package task

import (
	"time"

	"github.com/google/uuid"
)

// Task - описание единицы онбординг-работы, которую может получить кандидат.
// Для ядра классификации только для чтения.
type Task struct {
	UUID                uuid.UUID `json:"uuid" db:"uuid" yaml:"uuid"`
	Name                string    `json:"name" db:"name" yaml:"name"`
	DisplayName         string    `json:"display_name" db:"display_name" yaml:"display_name"`
	Description         string    `json:"description" db:"description" yaml:"description"`
	DaysToComplete      int       `json:"days_to_complete" db:"days_to_complete" yaml:"days_to_complete"`
	Optional            bool      `json:"optional" db:"optional" yaml:"optional"`
	TaskType            Type      `json:"task_type" db:"task_type" yaml:"task_type"`
	DocLink             string    `json:"doc_link,omitempty" db:"doc_link" yaml:"doc_link"`
	UploadableFileTypes string    `json:"uploadable_file_types,omitempty" db:"uploadable_file_types" yaml:"uploadable_file_types"`
	AllowedAnswers      []string  `json:"allowed_answers,omitempty" db:"allowed_answers" yaml:"allowed_answers"`
	CreatedAt           time.Time `json:"created_at" db:"created_at" yaml:"-"`
}

// Assignment - привязка задачи к кандидату с датами прогресса
type Assignment struct {
	UUID           uuid.UUID  `json:"uuid" db:"uuid" yaml:"uuid"`
	Task           *Task      `json:"task" db:"-" yaml:"-"`
	CandidateID    uuid.UUID  `json:"candidate_id" db:"candidate_id" yaml:"candidate_id"`
	RelatedListID  *uuid.UUID `json:"related_list_id,omitempty" db:"related_list_id" yaml:"related_list_id"`
	DueDate        time.Time  `json:"due_date" db:"due_date" yaml:"due_date"`
	CompletedDate  *time.Time `json:"completed_date,omitempty" db:"completed_date" yaml:"completed_date"`
	AbandonedDate  *time.Time `json:"abandoned_date,omitempty" db:"abandoned_date" yaml:"abandoned_date"`
	Status         Status     `json:"status" db:"status" yaml:"status"`
	CandidateNotes string     `json:"candidate_notes,omitempty" db:"candidate_notes" yaml:"candidate_notes"`
	Answer         string     `json:"answer,omitempty" db:"answer" yaml:"answer"`
	ActivatedAt    time.Time  `json:"activated_at" db:"activated_at" yaml:"-"`
	DeactivatedAt  *time.Time `json:"deactivated_at,omitempty" db:"deactivated_at" yaml:"-"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" db:"updated_at" yaml:"-"`
	Version        int        `json:"version" db:"version" yaml:"-"`
}

type Status string
type Type string

const StatusActive Status = "active"
const StatusInactive Status = "inactive"
const StatusDeleted Status = "deleted"

const TypeQuestion Type = "Question"
const TypeSimple Type = "Simple"
const TypeUpload Type = "Upload"
const TypeYesNoQuestion Type = "YesNoQuestion"

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDeleted:
		return true
	}
	return false
}

func (t Type) Valid() bool {
	switch t {
	case TypeQuestion, TypeSimple, TypeUpload, TypeYesNoQuestion:
		return true
	}
	return false
}

// IsCompleted - выставлена дата завершения
func (a *Assignment) IsCompleted() bool {
	return a.CompletedDate != nil
}

// IsAbandoned - выставлена дата отказа. Завершённость не учитывается,
// приоритет определяет классификатор.
func (a *Assignment) IsAbandoned() bool {
	return a.AbandonedDate != nil
}

// IsOutstanding - ни завершена, ни брошена
func (a *Assignment) IsOutstanding() bool {
	return !a.IsCompleted() && !a.IsAbandoned()
}

// IsPastDue - срок прошёл относительно now. Опциональность не учитывается.
func (a *Assignment) IsPastDue(now time.Time) bool {
	return a.DueDate.Before(now)
}

// IsAmbiguous - выставлены обе даты, запись некорректна
func (a *Assignment) IsAmbiguous() bool {
	return a.IsCompleted() && a.IsAbandoned()
}

// IsOptional паникует при отсутствии задачи так же, как классификатор
func (a *Assignment) IsOptional() bool {
	return a.Task.Optional
}

func (a *Assignment) TaskName() string {
	if a.Task == nil {
		return ""
	}
	return a.Task.Name
}
