package routes

import (
	"jobmate/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// Handlers groups what the registry mounts. Nil entries are skipped.
type Handlers struct {
	Health *handler.HealthHandler
	Scrape *handler.ScrapeHandler
	Resume *handler.ResumeHandler
	Match  *handler.MatchHandler
	Events fiber.Handler
}

type Registry struct {
	h Handlers
}

func NewRegistry(h Handlers) *Registry {
	return &Registry{h: h}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	if r.h.Events != nil {
		app.Get("/ws", r.h.Events)
	}
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.h.Health != nil {
		r.h.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.h)
}
