package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

type RouterConfig struct {
	Logger      *zap.Logger
	CORSOrigins []string
	AdminToken  string

	Health   *HealthHandler
	Clients  *ClientHandler
	Aliases  *ClientAliasHandler
	Sales    *SaleHandler
	Leads    *LeadHandler
	Contacts *ContactHandler
	Projects *ProjectHandler
	Tasks    *TaskHandler
	Users    *UserHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", middleware.AdminTokenHeader},
		MaxAge:         300,
	}))

	r.Get("/health", cfg.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/clients", func(r chi.Router) {
		r.Get("/", cfg.Clients.List)
		r.Post("/", cfg.Clients.Create)
		r.Get("/{clientId}", cfg.Clients.Get)
	})
	r.Get("/client-aliases", cfg.Aliases.List)
	r.Put("/client-aliases", cfg.Aliases.Upsert)

	r.Route("/sales", func(r chi.Router) {
		r.Get("/", cfg.Sales.List)
		r.Post("/", cfg.Sales.Create)
		r.With(chimw.Timeout(2*time.Minute)).Post("/upload-csv", cfg.Sales.Upload)
		r.Get("/export", cfg.Sales.Export)
		r.Get("/summary", cfg.Sales.Summary)
		r.Get("/{saleId}", cfg.Sales.Get)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AdminToken(cfg.AdminToken))
		r.Delete("/sales", cfg.Sales.Clear)
	})

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", cfg.Leads.List)
		r.Post("/", cfg.Leads.Create)
		r.Post("/sync", cfg.Leads.Sync)
		r.Get("/update/bot", cfg.Leads.Sync)
		r.Get("/{leadId}", cfg.Leads.Get)
		r.Patch("/{leadId}/status", cfg.Leads.UpdateStatus)
	})

	r.Route("/contacts", func(r chi.Router) {
		r.Get("/", cfg.Contacts.List)
		r.Post("/", cfg.Contacts.Create)
		r.Get("/{contactId}", cfg.Contacts.Get)
	})
	r.Route("/interactions", func(r chi.Router) {
		r.Get("/", cfg.Contacts.ListInteractions)
		r.Post("/", cfg.Contacts.CreateInteraction)
		r.Get("/{interactionId}", cfg.Contacts.GetInteraction)
	})

	r.Get("/projects", cfg.Projects.List)
	r.Post("/projects", cfg.Projects.Create)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", cfg.Tasks.List)
		r.Post("/", cfg.Tasks.Create)
		r.Get("/user/{userId}", cfg.Tasks.ListByUser)
		r.Patch("/{taskId}/status", cfg.Tasks.UpdateStatus)
		r.Get("/{taskId}/comments", cfg.Tasks.ListComments)
		r.Post("/{taskId}/comments", cfg.Tasks.CreateComment)
	})

	r.Get("/users", cfg.Users.List)

	return r
}
