package component

import (
	"context"
	"sync"

	"github.com/kbukum/featurekit/logger"
	"github.com/kbukum/featurekit/observability"
)

// Feature is the part of a feature holder the lifecycle needs.
// di.Entry and *injector.Delegate satisfy it.
type Feature interface {
	Name() string
	Built() bool
	Resolve() (any, error)
	Close() error
}

// FeatureComponent runs a feature holder through the component lifecycle.
// Eager features are built on Start; lazy ones are left for first use.
// Stop closes whatever was built.
type FeatureComponent struct {
	feature Feature
	eager   bool

	mu      sync.RWMutex
	warmErr error
}

var (
	_ Component   = (*FeatureComponent)(nil)
	_ Describable = (*FeatureComponent)(nil)
)

// NewFeatureComponent wraps f. When eager is set, Start builds it.
func NewFeatureComponent(f Feature, eager bool) *FeatureComponent {
	return &FeatureComponent{feature: f, eager: eager}
}

func (c *FeatureComponent) Name() string { return "feature:" + c.feature.Name() }

// Eager reports whether Start builds the feature.
func (c *FeatureComponent) Eager() bool { return c.eager }

// Start builds eager features and records the outcome for Health.
func (c *FeatureComponent) Start(ctx context.Context) error {
	if !c.eager {
		return nil
	}
	ctx, span := observability.StartSpan(ctx, observability.SpanWarmUp)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrFeature, c.feature.Name())

	_, err := c.feature.Resolve()

	c.mu.Lock()
	c.warmErr = err
	c.mu.Unlock()

	if err != nil {
		observability.SetSpanError(ctx, err)
		return err
	}
	logger.Debug("feature warmed", logger.Fields(logger.FieldFeature, c.feature.Name()))
	return nil
}

// Stop closes the built component, if any.
func (c *FeatureComponent) Stop(_ context.Context) error {
	if !c.feature.Built() {
		return nil
	}
	return c.feature.Close()
}

// Health is healthy once built or while a lazy build is pending. It is
// unhealthy when the eager warm-up failed and nothing was built since.
func (c *FeatureComponent) Health(_ context.Context) Health {
	h := Health{Name: c.Name(), Status: StatusHealthy}
	if c.feature.Built() {
		return h
	}

	c.mu.RLock()
	warmErr := c.warmErr
	c.mu.RUnlock()

	if warmErr != nil {
		h.Status = StatusUnhealthy
		h.Message = warmErr.Error()
		return h
	}
	h.Message = "pending"
	return h
}

func (c *FeatureComponent) Describe() Description {
	details := "lazy"
	if c.eager {
		details = "eager"
	}
	if c.feature.Built() {
		details += ", built"
	}
	return Description{Name: c.feature.Name(), Type: "feature", Details: details}
}
