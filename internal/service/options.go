package service

import (
	"time"

	"github.com/docker/go-units"
	"github.com/rs/zerolog"

	"docvault/internal/metrics"
)

// DefaultMaxFileSize is the per-file ceiling used when Options.MaxFileSize is unset.
const DefaultMaxFileSize int64 = 100 * units.MiB

// Options carries the ambient dependencies shared by the services.
type Options struct {
	MaxFileSize int64
	Logger      zerolog.Logger
	Metrics     *metrics.Storage
	Now         func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
