package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(h *Handler, middlewares ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middlewares...)

	r.Get("/health", h.HealthCheck)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks) // GET /tasks
		r.Post("/", h.PostTask) // POST /tasks
	})

	r.Route("/candidates/{id}/tasks", func(r chi.Router) {
		r.Get("/", h.CandidateAssignments)    // GET /candidates/{id}/tasks
		r.Post("/", h.AssignToCandidate)      // POST /candidates/{id}/tasks
		r.Get("/monitor", h.CandidateMonitor) // GET /candidates/{id}/tasks/monitor
	})

	r.Route("/lists/{listId}", func(r chi.Router) {
		r.Post("/members", h.AddListMembers)                // POST /lists/{listId}/members
		r.Post("/tasks", h.AssignToList)                    // POST /lists/{listId}/tasks
		r.Delete("/tasks/{taskId}", h.RemoveTaskFromList)   // DELETE /lists/{listId}/tasks/{taskId}
		r.Get("/tasks/{taskId}/monitor", h.ListTaskMonitor) // GET /lists/{listId}/tasks/{taskId}/monitor
	})

	r.Route("/task-assignments/{id}", func(r chi.Router) {
		r.Get("/", h.GetAssignment)       // GET /task-assignments/{id}
		r.Put("/", h.UpdateAssignment)    // PUT /task-assignments/{id}
		r.Delete("/", h.DeleteAssignment) // DELETE /task-assignments/{id}

		r.Post("/complete", h.CompleteAssignment)     // POST /task-assignments/{id}/complete
		r.Post("/abandon", h.AbandonAssignment)       // POST /task-assignments/{id}/abandon
		r.Post("/deactivate", h.DeactivateAssignment) // POST /task-assignments/{id}/deactivate
	})

	r.Get("/admin/overdue", h.OverdueSnapshot)

	return r
}
