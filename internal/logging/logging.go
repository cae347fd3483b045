// Package logging configures the process-wide zerolog logger.
//
// Every entry is written as one JSON object per line with the keys
// ts, level and msg plus any structured fields added by the caller.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"docvault/internal/config"
)

// New builds a JSON logger writing to w. Timestamps are rendered in loc.
func New(w io.Writer, level string, loc *time.Location) zerolog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	zerolog.TimestampFieldName = "ts"
	zerolog.MessageFieldName = "msg"
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFunc = func() time.Time { return time.Now().In(loc) }

	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Setup configures the global logger from cfg and returns it along with the resolved location.
// An unknown timezone falls back to UTC.
func Setup(cfg config.LogConfig) (zerolog.Logger, *time.Location) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}

	logger := New(os.Stdout, cfg.Level, loc)
	log.Logger = logger
	if err != nil {
		logger.Warn().Str("tz", cfg.Timezone).Err(err).Msg("unknown timezone, using UTC")
	}
	return logger, loc
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
