package app

import (
	"fmt"
	"strings"

	"jobmate/internal/delivery/http/handler"
	"jobmate/internal/delivery/http/middleware"
	"jobmate/internal/delivery/http/routes"
	"jobmate/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// multipart overhead on top of the résumé itself
const bodySlack = 1 << 20

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:   c.Config.App.AppName,
		BodyLimit: int(c.ResumeUC.MaxBytes()) + bodySlack,
	})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the HTTP app around c. The returned cleanup releases the
// database pool, the cache client and the websocket hub.
func Bootstrap(c *Container) (*App, func() error, error) {
	if c == nil {
		return nil, nil, fmt.Errorf("nil container")
	}
	app := New(c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	checks := map[string]handler.Pinger{"database": nil, "redis": nil}
	if c.DB != nil {
		checks["database"] = c.DB
	}
	if c.Cache != nil {
		checks["redis"] = c.Cache
	}

	routes.NewRegistry(routes.Handlers{
		Health: handler.NewHealthHandler(checks),
		Scrape: handler.NewScrapeHandler(c.ScrapeUC),
		Resume: handler.NewResumeHandler(c.ResumeUC),
		Match:  handler.NewMatchHandler(c.MatchingUC),
		Events: ws.NewHandler(c.Hub, c.Logger).HandleEventsWS,
	}).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
