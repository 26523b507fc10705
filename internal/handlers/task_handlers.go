package handlers

import (
	"candidateTasks/internal/handlers/dto"
	"candidateTasks/internal/logger"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Handler struct {
	Service Service
	Overdue OverdueReporter
}

func NewHandler(service Service, overdue OverdueReporter) *Handler {
	return &Handler{
		Service: service,
		Overdue: overdue,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис недоступен", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", "candidate-tasks"),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", "candidate-tasks"),
		toPayload("time", h.Service.Now()),
	)
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tasks, err := h.Service.ListTasks(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_tasks")
		return
	}

	logger.Debug("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)))

	responseWithBody(w, http.StatusOK, dto.FromTaskList(tasks))
}

func (h *Handler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := h.Service.CreateTask(r.Context(), request.ToTask())
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithBody(w, http.StatusCreated, dto.FromTask(created))
}

func (h *Handler) AddListMembers(w http.ResponseWriter, r *http.Request) {
	listID, ok := parseID(w, r, "listId")
	if !ok {
		return
	}

	var request dto.ListMembersRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if err := h.Service.AddListMembers(r.Context(), listID, request.CandidateIDs...); err != nil {
		handleServiceError(w, r, err, "add_list_members")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// OverdueSnapshot отдаёт последний снимок фоновой проверки
func (h *Handler) OverdueSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.Overdue == nil {
		responseWithError(w, http.StatusServiceUnavailable, "фоновая проверка отключена")
		return
	}
	responseWithBody(w, http.StatusOK, h.Overdue.Snapshot())
}
