package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"docvault/internal/logging"
)

// Logger logs each HTTP request as one zerolog entry with
// request_id, user_id, method, path, status and latency (milliseconds, float).
// 5xx responses are logged at error level and 4xx at warn.
func Logger(logger zerolog.Logger) fiber.Handler {
	logger = logger.With().Str("component", "http").Logger()

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		e := logger.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			e = logger.Error()
		case status >= fiber.StatusBadRequest:
			e = logger.Warn()
		}

		e.Str("request_id", RequestIDFromCtx(c)).
			Str("user_id", UserIDFromCtx(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000).
			Msg("request")

		return err
	}
}

// LoggerWithWriter is Logger writing JSON lines to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logging.New(w, "info", loc))
}
