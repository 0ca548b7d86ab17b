package injector

import (
	"github.com/kbukum/featurekit/logger"
	"github.com/kbukum/featurekit/observability"
)

type options struct {
	validateDeps bool
	log          *logger.Logger
	metrics      *observability.BuildMetrics
}

// Option configures a Delegate.
type Option func(*options)

// WithDependencyValidation validates the provided dependencies with their
// `validate` struct tags before the factory runs.
func WithDependencyValidation() Option {
	return func(o *options) { o.validateDeps = true }
}

// WithLogger sets the logger used for build events. Defaults to the
// "injector" named logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics sets the build instruments. Defaults to instruments on the
// global meter provider.
func WithMetrics(m *observability.BuildMetrics) Option {
	return func(o *options) { o.metrics = m }
}
