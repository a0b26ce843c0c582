package handler

import (
	"context"
	"io"
	"strings"

	"jobmate/internal/delivery/http/response"
	"jobmate/internal/domain/user"
	"jobmate/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ResumeService interface {
	MaxBytes() int64
	Parse(filename string, data []byte) (user.ExtractedResumeProfile, error)
	ParseAndMerge(ctx context.Context, userID uuid.UUID, filename string, data []byte) (usecase.ResumeResult, error)
}

type ResumeHandler struct {
	uc ResumeService
}

func NewResumeHandler(uc ResumeService) *ResumeHandler {
	return &ResumeHandler{uc: uc}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/resume", h.Upload)
}

// Upload expects a multipart "file" part. With a user_id form value the parsed
// fields are merged into that user's profile.
func (h *ResumeHandler) Upload(c fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(err)
	}

	f, err := fh.Open()
	if err != nil {
		return badRequest(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.uc.MaxBytes()+1))
	if err != nil {
		return badRequest(err)
	}

	rawUser := strings.TrimSpace(c.FormValue("user_id"))
	if rawUser == "" {
		p, err := h.uc.Parse(fh.Filename, data)
		if err != nil {
			return mapUsecaseError(err)
		}
		return response.Success(c, fiber.StatusOK, response.MessageOK, usecase.ResumeResult{Profile: p, Updated: []string{}})
	}

	userID, err := uuid.Parse(rawUser)
	if err != nil {
		return badRequest(err)
	}
	res, err := h.uc.ParseAndMerge(c.Context(), userID, fh.Filename, data)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
