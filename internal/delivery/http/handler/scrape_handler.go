package handler

import (
	"context"
	"strings"

	"jobmate/internal/delivery/http/response"
	"jobmate/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ScrapeService interface {
	Scrape(ctx context.Context, rawURL string) (usecase.ScrapeResult, error)
	ScrapeBatch(ctx context.Context, rawURLs []string) ([]usecase.ScrapeResult, error)
	ScrapeAsync(ctx context.Context, rawURL string) (string, error)
}

type ScrapeRequest struct {
	URL string `json:"url"`
}

type ScrapeBatchRequest struct {
	URLs []string `json:"urls"`
}

type ScrapeHandler struct {
	uc ScrapeService
}

func NewScrapeHandler(uc ScrapeService) *ScrapeHandler {
	return &ScrapeHandler{uc: uc}
}

func (h *ScrapeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/scrape")
	grp.Post("", h.Scrape)
	grp.Post("/batch", h.ScrapeBatch)
	grp.Post("/async", h.ScrapeAsync)
}

func (h *ScrapeHandler) Scrape(c fiber.Ctx) error {
	var req ScrapeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return badRequest(nil)
	}

	res, err := h.uc.Scrape(c.Context(), req.URL)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *ScrapeHandler) ScrapeBatch(c fiber.Ctx) error {
	var req ScrapeBatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	res, err := h.uc.ScrapeBatch(c.Context(), req.URLs)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *ScrapeHandler) ScrapeAsync(c fiber.Ctx) error {
	var req ScrapeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	taskID, err := h.uc.ScrapeAsync(c.Context(), req.URL)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusAccepted, response.MessageAccepted, fiber.Map{
		"task_id": taskID,
		"url":     strings.TrimSpace(req.URL),
	})
}
