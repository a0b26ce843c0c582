package routes

import (
	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Scrape != nil {
		h.Scrape.RegisterRoutes(r)
	}
	if h.Resume != nil {
		h.Resume.RegisterRoutes(r)
	}
	if h.Match != nil {
		h.Match.RegisterRoutes(r)
	}
}
