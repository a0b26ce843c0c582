package response

import "github.com/gofiber/fiber/v3"

// SemanticResponse is the envelope every JSON endpoint answers with.
type SemanticResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

const (
	MessageOK                  = "ok"
	MessageAccepted            = "accepted"
	MessageBadRequest          = "bad request"
	MessageNotFound            = "not found"
	MessageConflict            = "conflict"
	MessageTooLarge            = "payload too large"
	MessageNoData              = "no data available"
	MessageUnprocessableEntity = "unprocessable entity"
	MessageUnavailable         = "service unavailable"
	MessageInternalServerError = "internal server error"
	MessageError               = "error"
)

func Success(c fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, message, data)
}

func Error(c fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, message, data)
}

func write(c fiber.Ctx, status int, message string, data interface{}) error {
	st := normalizeStatus(status)
	if message == "" {
		message = DefaultMessage(st)
	}
	return c.Status(st).JSON(SemanticResponse{Status: st, Message: message, Data: data})
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func DefaultMessage(status int) string {
	switch status {
	case fiber.StatusOK:
		return MessageOK
	case fiber.StatusAccepted:
		return MessageAccepted
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusConflict:
		return MessageConflict
	case fiber.StatusRequestEntityTooLarge:
		return MessageTooLarge
	case fiber.StatusUnprocessableEntity:
		return MessageUnprocessableEntity
	case fiber.StatusServiceUnavailable:
		return MessageUnavailable
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return MessageError
	}
}
