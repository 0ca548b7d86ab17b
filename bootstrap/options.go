package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/featurekit/di"
	"github.com/kbukum/featurekit/logger"
)

// Option configures the App during creation. Options are not generic so
// they work with any config type.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	container       di.Container
	gracefulTimeout *time.Duration
	summaryOut      io.Writer
	observe         *bool
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the application logger instead of initializing one from
// the config's logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout bounds the whole shutdown sequence.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = &d }
}

// WithContainer replaces the default feature container.
func WithContainer(c di.Container) Option {
	return func(o *appOptions) { o.container = c }
}

// WithSummaryOutput redirects the startup summary. io.Discard silences it.
func WithSummaryOutput(w io.Writer) Option {
	return func(o *appOptions) { o.summaryOut = w }
}

// WithObservability overrides observability.enabled from the config.
func WithObservability(enabled bool) Option {
	return func(o *appOptions) { o.observe = &enabled }
}
