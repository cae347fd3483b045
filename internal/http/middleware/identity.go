package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// UserIDHeader carries the authenticated user id set by the upstream auth layer.
	UserIDHeader = "X-User-ID"
	// UserIDLocalKey is the locals key holding the caller's user id.
	UserIDLocalKey = "user_id"

	maxUserIDLength = 128
)

// Identity requires an X-User-ID header and stores it in locals.
// The id becomes a storage path segment, so separators and dot segments are rejected.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(UserIDHeader))
		switch {
		case id == "":
			return fiber.NewError(fiber.StatusUnauthorized, "missing user identity")
		case len(id) > maxUserIDLength, id == ".", id == "..", strings.ContainsAny(id, `/\`):
			return fiber.NewError(fiber.StatusUnauthorized, "invalid user identity")
		}
		c.Locals(UserIDLocalKey, id)
		return c.Next()
	}
}

// UserIDFromCtx returns the user id stored by Identity, or "".
func UserIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(UserIDLocalKey).(string); ok {
		return s
	}
	return ""
}
