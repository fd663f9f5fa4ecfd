package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter регистрирует маршруты шлюза
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)
		// дашборды
		r.Get("/dashboard/owner", h.OwnerDashboardHandler)
		r.Get("/dashboard/vendor", h.VendorDashboardHandler)
		r.Get("/projects/{projectId}/overview", h.ProjectOverviewHandler)
		r.Get("/rfqs/{rfqId}/detail", h.RfqDetailHandler)
		// присуждение
		r.Post("/rfqs/{rfqId}/award", h.AwardHandler)
		r.Get("/awards", h.GetAwardRunsHandler)
		r.Get("/awards/{runId}", h.GetAwardRunHandler)
		r.Post("/awards/{runId}/resume", h.ResumeAwardHandler)
	})
	return r
}
