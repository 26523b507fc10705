package handlers

import (
	"candidateTasks/internal/handlers/dto"
	"candidateTasks/internal/logger"
	"candidateTasks/internal/models/task"
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (h *Handler) CandidateAssignments(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	assignments, err := h.Service.CandidateAssignments(r.Context(), candidateID)
	if err != nil {
		handleServiceError(w, r, err, "candidate_assignments")
		return
	}

	responseWithBody(w, http.StatusOK, dto.FromAssignmentList(assignments, h.Service.Now()))
}

func (h *Handler) AssignToCandidate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	candidateID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.AssignRequest
	if !decodeJSON(w, r, &request) || !validTaskID(w, request.TaskID) {
		return
	}

	a, err := h.Service.AssignToCandidate(r.Context(), request.TaskID, candidateID, dueDateOption(request.DueDate))
	if err != nil {
		handleServiceError(w, r, err, "assign_to_candidate")
		return
	}

	logger.Info("HTTP_OUT: Задача назначена",
		zap.String("assignment_id", a.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithBody(w, http.StatusCreated, dto.FromAssignment(a, h.Service.Now()))
}

func (h *Handler) AssignToList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	listID, ok := parseID(w, r, "listId")
	if !ok {
		return
	}

	var request dto.AssignRequest
	if !decodeJSON(w, r, &request) || !validTaskID(w, request.TaskID) {
		return
	}

	created, err := h.Service.AssignToList(r.Context(), request.TaskID, listID, dueDateOption(request.DueDate))
	if err != nil {
		handleServiceError(w, r, err, "assign_to_list")
		return
	}

	logger.Info("HTTP_OUT: Задача назначена списку",
		zap.String("list_id", listID.String()),
		zap.Int("assignments", len(created)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithBody(w, http.StatusCreated, dto.FromAssignmentList(created, h.Service.Now()))
}

// RemoveTaskFromList отвечает списком деактивированных назначений
func (h *Handler) RemoveTaskFromList(w http.ResponseWriter, r *http.Request) {
	listID, ok := parseID(w, r, "listId")
	if !ok {
		return
	}
	taskID, ok := parseID(w, r, "taskId")
	if !ok {
		return
	}

	deactivated, err := h.Service.RemoveTaskFromList(r.Context(), taskID, listID)
	if err != nil {
		handleServiceError(w, r, err, "remove_task_from_list")
		return
	}

	logger.Info("HTTP_OUT: Задача снята со списка",
		zap.String("list_id", listID.String()),
		zap.String("task_id", taskID.String()),
		zap.Int("deactivated", len(deactivated)))

	responseWithBody(w, http.StatusOK, dto.FromAssignmentList(deactivated, h.Service.Now()))
}

func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	a, err := h.Service.GetAssignment(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_assignment")
		return
	}

	responseWithBody(w, http.StatusOK, dto.FromAssignment(a, h.Service.Now()))
}

func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.UpdateAssignmentRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	if request.DueDate != nil && request.DueDate.IsZero() {
		responseWithError(w, http.StatusBadRequest, "due_date не может быть пустым")
		return
	}
	if request.Completed != nil && request.Abandoned != nil && *request.Completed && *request.Abandoned {
		responseWithError(w, http.StatusBadRequest, "completed и abandoned не могут быть выставлены одновременно")
		return
	}

	a, err := h.Service.UpdateAssignment(r.Context(), id, request.Options(h.Service.Now())...)
	if err != nil {
		handleServiceError(w, r, err, "update_assignment")
		return
	}

	responseWithBody(w, http.StatusOK, dto.FromAssignment(a, h.Service.Now()))
}

func (h *Handler) CompleteAssignment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "complete_assignment", h.Service.CompleteAssignment)
}

func (h *Handler) AbandonAssignment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "abandon_assignment", h.Service.AbandonAssignment)
}

func (h *Handler) DeactivateAssignment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "deactivate_assignment", h.Service.DeactivateAssignment)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.DeleteAssignment(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_assignment")
		return
	}

	logger.Info("HTTP_OUT: Назначение удалено", zap.String("assignment_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// transition - общий обработчик POST /task-assignments/{id}/<действие>
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, operation string,
	fn func(context.Context, uuid.UUID) (*task.Assignment, error)) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	a, err := fn(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, operation)
		return
	}

	logger.Info("HTTP_OUT: Назначение изменено",
		zap.String("operation", operation),
		zap.String("assignment_id", id.String()))

	responseWithBody(w, http.StatusOK, dto.FromAssignment(a, h.Service.Now()))
}

func dueDateOption(due *time.Time) task.AssignmentOption {
	if due == nil {
		return nil
	}
	return task.WithDueDate(*due)
}

func validTaskID(w http.ResponseWriter, id uuid.UUID) bool {
	if id == uuid.Nil {
		responseWithError(w, http.StatusBadRequest, "task_id должен быть задан")
		return false
	}
	return true
}
