package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
	// expose returns err.Error() to the client; only for errors built from client input.
	expose bool
}

var serviceErrors = []errorMapping{
	{service.ErrValidationFailed, fiber.StatusBadRequest, "VALIDATION_FAILED", "validation failed", true},
	{service.ErrUnsupportedFormat, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT", "unsupported file format", true},
	{service.ErrQuotaExceeded, fiber.StatusRequestEntityTooLarge, "QUOTA_EXCEEDED", "storage quota exceeded", true},
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "resource not found", true},
	{service.ErrNotEmpty, fiber.StatusConflict, "NOT_EMPTY", "folder is not empty", true},
	{service.ErrDuplicateName, fiber.StatusConflict, "DUPLICATE_NAME", "a folder with this name already exists", true},
	{service.ErrMissingChunk, fiber.StatusConflict, "MISSING_CHUNK", "upload is missing chunks", true},
	{service.ErrEmptyFolder, fiber.StatusBadRequest, "EMPTY_FOLDER", "folder has no documents", false},
	{service.ErrCorrupted, fiber.StatusUnprocessableEntity, "CORRUPTED", "stored file is corrupted", false},
	{service.ErrStorageIO, fiber.StatusServiceUnavailable, "STORAGE_IO", "storage temporarily unavailable, retry later", false},
}

// writeServiceError maps a service error onto the error envelope.
// Unknown errors are logged and reported as INTERNAL_ERROR.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			msg := m.message
			if m.expose {
				msg = err.Error()
			}
			if m.status >= fiber.StatusInternalServerError {
				zerolog.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("request failed")
			}
			return writeError(c, m.status, m.code, msg)
		}
	}

	zerolog.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "missing or invalid user identity")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
