package handler

import (
	"errors"

	"jobmate/internal/delivery/http/middleware"
	"jobmate/internal/delivery/http/response"
	"jobmate/internal/resume"
	"jobmate/internal/scraper"
	"jobmate/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func badRequest(cause error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, cause)
}

// mapUsecaseError translates core and usecase errors to HTTP semantics.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return badRequest(err)
	case errors.Is(err, resume.ErrUnsupportedFormat):
		return middleware.NewAppError(fiber.StatusBadRequest, "unsupported resume format", nil, err)
	case errors.Is(err, resume.ErrResumeParse):
		return middleware.NewAppError(fiber.StatusBadRequest, parseFailureMessage(err), nil, err)
	case errors.Is(err, usecase.ErrResumeTooLarge):
		return middleware.NewAppError(fiber.StatusRequestEntityTooLarge, response.MessageTooLarge, nil, err)
	case errors.Is(err, scraper.ErrFetchFailure), errors.Is(err, scraper.ErrNoData):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, response.MessageNoData, nil, err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "job not found", nil, err)
	case errors.Is(err, usecase.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "user not found", nil, err)
	case errors.Is(err, usecase.ErrScrapeInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "scrape already in progress", nil, err)
	case errors.Is(err, usecase.ErrPersistenceOff):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

// parseFailureMessage carries the reader's own reason, so a client can tell a
// damaged file from an unreadable layout.
func parseFailureMessage(err error) string {
	cause := err
	var pe *resume.ParseError
	if errors.As(err, &pe) && pe.Err != nil {
		cause = pe.Err
	}
	return "could not parse resume: " + cause.Error()
}
