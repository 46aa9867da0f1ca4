package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// errorPayload is the error response body. The editor's export client keys
// on exactly one field, so nothing else is added here.
type errorPayload struct {
	Error string `json:"error"`
}

// writeError writes the JSON error body without leaking internal state
// beyond the supplied message.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{Error: message})
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses. Handlers map their own domain errors; this catches everything
// that escapes them (unmatched routes, body limits, panics converted by
// fiber) so no error ever takes the process down with an unformatted reply.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "internal server error"
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
			message = e.Message
		} else {
			// Non-fiber errors carry arbitrary internal detail; keep it in
			// the log, not the response.
			log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "method not allowed")
		default:
			return writeError(c, status, message)
		}
	}
}
