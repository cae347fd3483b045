package handler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docvault/internal/http/middleware"
)

// idParam returns the :id route parameter if it is a valid UUID.
func idParam(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// optionalID parses an optional UUID value; an empty value yields nil.
func optionalID(v string) (*string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, true
	}
	if _, err := uuid.Parse(v); err != nil {
		return nil, false
	}
	return &v, true
}

// intValue parses an integer form or query value, falling back to def when empty.
func intValue(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func userID(c *fiber.Ctx) string {
	return middleware.UserIDFromCtx(c)
}

// attachment builds a Content-Disposition value safe for any display name.
func attachment(name string) string {
	ascii := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	return `attachment; filename="` + ascii + `"; filename*=UTF-8''` + url.PathEscape(name)
}
