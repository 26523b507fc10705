package dto

import (
	"candidateTasks/internal/lifecycle"
	"candidateTasks/internal/models/task"
	"candidateTasks/internal/monitor"
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Name                string    `json:"name"`
	DisplayName         string    `json:"display_name"`
	Description         string    `json:"description"`
	DaysToComplete      int       `json:"days_to_complete"`
	Optional            bool      `json:"optional"`
	TaskType            task.Type `json:"task_type"`
	DocLink             string    `json:"doc_link"`
	UploadableFileTypes string    `json:"uploadable_file_types"`
	AllowedAnswers      []string  `json:"allowed_answers"`
}

func (r CreateTaskRequest) ToTask() *task.Task {
	return &task.Task{
		Name:                r.Name,
		DisplayName:         r.DisplayName,
		Description:         r.Description,
		DaysToComplete:      r.DaysToComplete,
		Optional:            r.Optional,
		TaskType:            r.TaskType,
		DocLink:             r.DocLink,
		UploadableFileTypes: r.UploadableFileTypes,
		AllowedAnswers:      r.AllowedAnswers,
	}
}

// AssignRequest - назначение задачи кандидату или списку
type AssignRequest struct {
	TaskID  uuid.UUID  `json:"task_id"`
	DueDate *time.Time `json:"due_date,omitempty"`
}

type ListMembersRequest struct {
	CandidateIDs []uuid.UUID `json:"candidate_ids"`
}

type UpdateAssignmentRequest struct {
	Completed      *bool      `json:"completed,omitempty"`
	Abandoned      *bool      `json:"abandoned,omitempty"`
	CandidateNotes *string    `json:"candidate_notes,omitempty"`
	Answer         *string    `json:"answer,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
}

// Options переводит запрос в опции изменения назначения
func (r UpdateAssignmentRequest) Options(now time.Time) []task.AssignmentOption {
	options := []task.AssignmentOption{
		task.WithCompleted(r.Completed, now),
		task.WithAbandoned(r.Abandoned, now),
		task.WithNotes(r.CandidateNotes),
		task.WithAnswer(r.Answer),
	}
	if r.DueDate != nil {
		options = append(options, task.WithDueDate(*r.DueDate))
	}
	return options
}

type TaskResponse struct {
	UUID                uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	DisplayName         string    `json:"display_name"`
	Description         string    `json:"description"`
	DaysToComplete      int       `json:"days_to_complete"`
	Optional            bool      `json:"optional"`
	TaskType            string    `json:"task_type"`
	DocLink             string    `json:"doc_link,omitempty"`
	UploadableFileTypes string    `json:"uploadable_file_types,omitempty"`
	AllowedAnswers      []string  `json:"allowed_answers,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		UUID:                t.UUID,
		Name:                t.Name,
		DisplayName:         t.DisplayName,
		Description:         t.Description,
		DaysToComplete:      t.DaysToComplete,
		Optional:            t.Optional,
		TaskType:            string(t.TaskType),
		DocLink:             t.DocLink,
		UploadableFileTypes: t.UploadableFileTypes,
		AllowedAnswers:      t.AllowedAnswers,
		CreatedAt:           t.CreatedAt,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

type AssignmentResponse struct {
	UUID           uuid.UUID  `json:"id"`
	TaskID         uuid.UUID  `json:"task_id"`
	TaskName       string     `json:"task_name"`
	DisplayName    string     `json:"display_name"`
	Optional       bool       `json:"optional"`
	CandidateID    uuid.UUID  `json:"candidate_id"`
	RelatedListID  *uuid.UUID `json:"related_list_id,omitempty"`
	DueDate        time.Time  `json:"due_date"`
	CompletedDate  *time.Time `json:"completed_date,omitempty"`
	AbandonedDate  *time.Time `json:"abandoned_date,omitempty"`
	Status         string     `json:"status"`
	CandidateNotes string     `json:"candidate_notes,omitempty"`
	Answer         string     `json:"answer,omitempty"`
	Version        int        `json:"version"`
	Classification string     `json:"classification"`
	IsOverdue      bool       `json:"is_overdue"`
}

// FromAssignment классифицирует назначение на момент now
func FromAssignment(a *task.Assignment, now time.Time) AssignmentResponse {
	class := lifecycle.Classify(a, now)
	return AssignmentResponse{
		UUID:           a.UUID,
		TaskID:         a.Task.UUID,
		TaskName:       a.Task.Name,
		DisplayName:    a.Task.DisplayName,
		Optional:       a.Task.Optional,
		CandidateID:    a.CandidateID,
		RelatedListID:  a.RelatedListID,
		DueDate:        a.DueDate,
		CompletedDate:  a.CompletedDate,
		AbandonedDate:  a.AbandonedDate,
		Status:         string(a.Status),
		CandidateNotes: a.CandidateNotes,
		Answer:         a.Answer,
		Version:        a.Version,
		Classification: string(class),
		IsOverdue:      class == lifecycle.OutstandingOverdue,
	}
}

func FromAssignmentList(assignments []*task.Assignment, now time.Time) []AssignmentResponse {
	result := make([]AssignmentResponse, len(assignments))
	for i, a := range assignments {
		result[i] = FromAssignment(a, now)
	}
	return result
}

type SummaryResponse struct {
	Counts                monitor.Counts       `json:"counts"`
	HasOverdue            bool                 `json:"has_overdue"`
	HasAbandoned          bool                 `json:"has_abandoned"`
	HasCompleted          bool                 `json:"has_completed"`
	HasOutstanding        bool                 `json:"has_outstanding"`
	BadgeHidden           bool                 `json:"badge_hidden"`
	AsOf                  time.Time            `json:"as_of"`
	Completed             []AssignmentResponse `json:"completed"`
	Abandoned             []AssignmentResponse `json:"abandoned"`
	OutstandingOverdue    []AssignmentResponse `json:"outstanding_overdue"`
	OutstandingNotOverdue []AssignmentResponse `json:"outstanding_not_overdue"`
}

// FromSummary классифицирует элементы на тот же момент, что и сама сводка
func FromSummary(s monitor.Summary) SummaryResponse {
	now := s.AsOf
	return SummaryResponse{
		Counts:                s.Counts(),
		HasOverdue:            s.HasOverdue(),
		HasAbandoned:          s.HasAbandoned(),
		HasCompleted:          s.HasCompleted(),
		HasOutstanding:        s.HasOutstanding(),
		BadgeHidden:           s.Hidden(),
		AsOf:                  s.AsOf,
		Completed:             FromAssignmentList(s.Completed, now),
		Abandoned:             FromAssignmentList(s.Abandoned, now),
		OutstandingOverdue:    FromAssignmentList(s.OutstandingOverdue, now),
		OutstandingNotOverdue: FromAssignmentList(s.OutstandingNotOverdue, now),
	}
}
