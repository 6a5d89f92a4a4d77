package app

import (
	"crmTracker/internal/handlers"
	"crmTracker/internal/metrics"
	"crmTracker/internal/middleware"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Tasks        handlers.TaskHandler
	Settings     handlers.SettingsHandler
	Time         handlers.TimeHandler
	Integrations handlers.IntegrationHandler
	Clients      handlers.ClientHandler
	Invites      handlers.InviteHandler
	WorkOrders   handlers.WorkOrderHandler
}

type RouterOptions struct {
	CORSOrigins []string
	RateLimiter *middleware.RateLimiter
}

func NewRouter(h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-Match", "X-Request-ID"},
		ExposedHeaders: []string{"ETag", "X-Request-ID"},
		MaxAge:         300,
	}))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Handler)
	}

	r.Get("/health", h.Tasks.HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/settings/tasks", func(r chi.Router) {
		r.Get("/", h.Settings.GetSettings)                 // GET /settings/tasks
		r.Put("/", h.Settings.UpdateSettings)              // PUT /settings/tasks
		r.Post("/normalize", h.Settings.NormalizeSettings) // POST /settings/tasks/normalize
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.Tasks.ListTasks)     // GET /tasks?status=&assigneeId=&priority=&q=
		r.Post("/", h.Tasks.PostTask)     // POST /tasks
		r.Get("/board", h.Tasks.GetBoard) // GET /tasks/board?assigneeId=

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Tasks.GetTaskByID)       // GET /tasks/{id}
			r.Patch("/", h.Tasks.UpdateTaskByID)  // PATCH /tasks/{id}
			r.Delete("/", h.Tasks.DeleteTaskByID) // DELETE /tasks/{id}

			r.Post("/time-entries", h.Time.StartTimeEntry) // POST /tasks/{id}/time-entries
		})
	})

	r.Post("/time-entries/{id}/stop", h.Time.StopTimeEntry)
	r.Get("/timesheet", h.Time.GetTimesheet)

	r.Route("/integrations/calendly", func(r chi.Router) {
		r.Post("/capture", h.Integrations.Capture)
		r.Get("/oauth/start", h.Integrations.OAuthStart)
		r.Get("/oauth/callback", h.Integrations.OAuthCallback)
		r.Get("/event-types", h.Integrations.EventTypes)
	})
	r.Get("/appointments", h.Integrations.ListAppointments)

	r.Route("/clients", func(r chi.Router) {
		r.Get("/", h.Clients.ListClients)
		r.Post("/", h.Clients.PostClient)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Clients.GetClientByID)
			r.Post("/acquisition-entries", h.Clients.PostAcquisitionEntry)
			r.Get("/appointments", h.Clients.ListClientAppointments)
		})
	})

	r.Route("/work-orders", func(r chi.Router) {
		r.Get("/", h.WorkOrders.ListWorkOrders)
		r.Post("/", h.WorkOrders.PostWorkOrder)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/acquisition", h.Clients.AcquisitionReport)
		r.Get("/marketing-costs", h.Clients.MarketingCostReport)
		r.Get("/project-types", h.WorkOrders.ProjectTypeReport) // GET /reports/project-types?type=&client=&location=
		r.Get("/sales", h.WorkOrders.SalesReport)               // GET /reports/sales?year=&vat=
	})

	r.Post("/users/invite", h.Invites.PostInvite)

	return r
}
