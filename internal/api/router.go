// Package api provides the HTTP API layer for the tempo tracker.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"tempo-tracker/internal/domain/entities"
	"tempo-tracker/internal/domain/services"
)

// Router wires the HTTP handlers onto a chi mux.
type Router struct {
	mux     *chi.Mux
	handler *Handler
}

// NewRouter creates a new API router with middleware and routes
func NewRouter(
	taskService *services.TaskService,
	ledger *services.SessionLedger,
	reportService *services.ReportService,
	config *entities.Config,
	logger *slog.Logger,
) *Router {
	r := &Router{
		mux:     chi.NewRouter(),
		handler: NewHandler(taskService, ledger, reportService, logger),
	}

	r.setupMiddleware(config)
	r.setupRoutes()

	return r
}

// Handler returns the HTTP handler
func (r *Router) Handler() http.Handler {
	return r.mux
}

func (r *Router) setupMiddleware(config *entities.Config) {
	// Recovery middleware (should be first)
	r.mux.Use(chimiddleware.Recoverer)
	r.mux.Use(chimiddleware.RequestID)
	r.mux.Use(chimiddleware.RealIP)

	timeout := 30 * time.Second
	if config != nil && config.Server.Timeout > 0 {
		timeout = time.Duration(config.Server.Timeout) * time.Second
	}
	r.mux.Use(chimiddleware.Timeout(timeout))

	r.mux.Use(chimiddleware.Heartbeat("/ping"))
}

func (r *Router) setupRoutes() {
	r.mux.Get("/healthz", r.handler.Health)

	r.mux.Route("/api/v1", func(rtr chi.Router) {
		rtr.Route("/tasks", func(tasks chi.Router) {
			tasks.Post("/", r.handler.CreateTask)
			tasks.Get("/", r.handler.ListTasks)
			tasks.Get("/{id}", r.handler.GetTask)
			tasks.Patch("/{id}", r.handler.UpdateTask)
			tasks.Delete("/{id}", r.handler.DeleteTask)

			tasks.Post("/{id}/start", r.handler.StartSession)
			tasks.Post("/{id}/stop", r.handler.StopSession)
			tasks.Post("/{id}/complete", r.handler.CompleteTask)
			tasks.Post("/{id}/archive", r.handler.ArchiveTask)
			tasks.Get("/{id}/sessions", r.handler.ListSessions)
			tasks.Get("/{id}/time", r.handler.TaskTime)
			tasks.Get("/{id}/accuracy", r.handler.TaskAccuracy)
		})

		rtr.Get("/reports", r.handler.GenerateReport)
		rtr.Get("/stats", r.handler.Stats)
	})
}
