package handler

import (
	"context"

	"jobmate/internal/delivery/http/response"
	"jobmate/internal/domain/matching"
	"jobmate/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchService interface {
	Score(in usecase.MatchInput) matching.Result
	MatchStored(ctx context.Context, userID, jobID uuid.UUID) (matching.Result, error)
}

type MatchHandler struct {
	uc MatchService
}

func NewMatchHandler(uc MatchService) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/match", h.Score)
	r.Get("/users/:user_id/jobs/:job_id/match", h.GetMatch)
}

func (h *MatchHandler) Score(c fiber.Ctx) error {
	var in usecase.MatchInput
	if err := c.Bind().Body(&in); err != nil {
		return badRequest(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.uc.Score(in))
}

func (h *MatchHandler) GetMatch(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return badRequest(err)
	}
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return badRequest(err)
	}

	res, err := h.uc.MatchStored(c.Context(), userID, jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
