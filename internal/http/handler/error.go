package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kavirajan452/poel-step-registeration-form/internal/http/middleware"
	"github.com/kavirajan452/poel-step-registeration-form/internal/model"
)

// errorPayload is the standardized failure response body.
type errorPayload struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	RequestID string       `json:"request_id,omitempty"`
	Errors    []fieldError `json:"errors,omitempty"`
}

// fieldError surfaces one per-field validation failure.
type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking
// internal details. message must be safe for the client.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{
		Success:   false,
		Message:   message,
		RequestID: requestIDFromCtx(c),
	})
}

// writeFieldErrors is writeError plus the per-field breakdown.
func writeFieldErrors(c *fiber.Ctx, status int, message string, verrs []model.ValidationError) error {
	fes := make([]fieldError, len(verrs))
	for i, ve := range verrs {
		fes[i] = fieldError{Field: ve.Field, Reason: ve.Reason}
	}
	return c.Status(status).JSON(errorPayload{
		Success:   false,
		Message:   message,
		RequestID: requestIDFromCtx(c),
		Errors:    fes,
	})
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "method not allowed")
		default:
			return writeError(c, status, "internal server error")
		}
	}
}
