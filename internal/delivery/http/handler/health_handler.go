package handler

import (
	"context"
	"time"

	"jobmate/internal/delivery/http/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks map[string]Pinger
}

// NewHealthHandler takes named backends to probe; nil entries are reported as
// disabled.
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	out := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if p == nil {
			out[name] = "disabled"
			continue
		}
		if err := p.Ping(ctx); err != nil {
			out[name] = "down"
			status = fiber.StatusServiceUnavailable
			continue
		}
		out[name] = "up"
	}
	return response.Success(c, status, "", out)
}
