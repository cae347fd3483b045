package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// RequestIDHeader is the standard header name used to propagate request IDs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the key used to store the request ID in Fiber's context locals.
	RequestIDLocalKey = "request_id"

	maxRequestIDLength = 128
)

// RequestID ensures every request has a request ID.
//
// An incoming X-Request-ID is reused when it is at most 128 printable ASCII characters; otherwise a UUID is generated.
// The id is stored in locals, echoed in the response header and attached to the zerolog logger carried by the
// request's user context, so zerolog.Ctx(ctx) in services logs it automatically.
func RequestID(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		logger := base.With().Str(RequestIDLocalKey, id).Logger()
		c.SetUserContext(logger.WithContext(c.UserContext()))

		return c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// RequestIDFromCtx returns the request id stored by RequestID, or "".
func RequestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}
