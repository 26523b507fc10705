package handlers

import (
	"candidateTasks/internal/handlers/dto"
	"net/http"
)

// CandidateMonitor - сводка по кандидату; ?active_only=true оставляет только активные назначения
func (h *Handler) CandidateMonitor(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	activeOnly, ok := parseBoolQuery(w, r, "active_only")
	if !ok {
		return
	}

	summary, err := h.Service.CandidateMonitor(r.Context(), candidateID, activeOnly)
	if err != nil {
		handleServiceError(w, r, err, "candidate_monitor")
		return
	}

	responseWithBody(w, http.StatusOK, dto.FromSummary(summary))
}

func (h *Handler) ListTaskMonitor(w http.ResponseWriter, r *http.Request) {
	listID, ok := parseID(w, r, "listId")
	if !ok {
		return
	}
	taskID, ok := parseID(w, r, "taskId")
	if !ok {
		return
	}
	activeOnly, ok := parseBoolQuery(w, r, "active_only")
	if !ok {
		return
	}

	summary, err := h.Service.ListTaskMonitor(r.Context(), taskID, listID, activeOnly)
	if err != nil {
		handleServiceError(w, r, err, "list_task_monitor")
		return
	}

	responseWithBody(w, http.StatusOK, dto.FromSummary(summary))
}
