package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/featurekit/logger"
)

// Build outcomes recorded on injector.build.total.
const (
	OutcomeSuccess         = "success"
	OutcomeMissingProvider = "missing_provider"
	OutcomeCycle           = "cycle"
	OutcomeFailed          = "failed"
	OutcomeTypeMismatch    = "type_mismatch"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	Insecure       bool
	// Interval is the periodic export interval. Zero keeps the SDK default.
	Interval time.Duration
}

// DefaultMeterConfig returns a config pointing at a local collector.
func DefaultMeterConfig(serviceName string) *MeterConfig {
	return &MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a periodic OTLP HTTP meter provider as the global
// provider. The caller owns shutdown.
func InitMeter(ctx context.Context, cfg *MeterConfig) (*sdkmetric.MeterProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("meter config is nil")
	}
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// BuildMetrics holds the instruments describing component builds.
type BuildMetrics struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewBuildMetrics creates the build instruments on meter.
func NewBuildMetrics(meter metric.Meter) (*BuildMetrics, error) {
	total, err := meter.Int64Counter("injector.build.total",
		metric.WithDescription("Component builds by feature and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating injector.build.total counter: %w", err)
	}

	duration, err := meter.Float64Histogram("injector.build.duration",
		metric.WithDescription("Duration of component builds in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating injector.build.duration histogram: %w", err)
	}

	return &BuildMetrics{total: total, duration: duration}, nil
}

// RecordBuild records one build attempt. A nil receiver is a no-op.
func (m *BuildMetrics) RecordBuild(ctx context.Context, feature, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.total.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrFeature, feature),
		attribute.String(AttrOutcome, outcome),
	))
	m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String(AttrFeature, feature),
	))
}

var (
	defaultBuildMetrics *BuildMetrics
	defaultBuildOnce    sync.Once
)

// DefaultBuildMetrics returns instruments created on the global meter
// provider. The otel global delegates to whichever provider InitMeter
// installs later, so it is safe to call before initialization.
func DefaultBuildMetrics() *BuildMetrics {
	defaultBuildOnce.Do(func() {
		m, err := NewBuildMetrics(Meter(instrumentationName))
		if err != nil {
			logger.Warn("build metrics unavailable", logger.ErrorFields("observability.build_metrics", err))
			return
		}
		defaultBuildMetrics = m
	})
	return defaultBuildMetrics
}
