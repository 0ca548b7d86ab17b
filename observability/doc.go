// Package observability wires OpenTelemetry tracing and metrics for the
// component container.
//
// Providers are installed globally by InitTracer and InitMeter. Until then
// the otel globals are no-ops, so instrumented code pays almost nothing in
// tests and in binaries that run with observability disabled.
//
//	tp, err := observability.InitTracer(ctx, &observability.TracerConfig{...})
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanBuild)
//	defer span.End()
//
// Component builds are measured through BuildMetrics:
//
//	observability.DefaultBuildMetrics().RecordBuild(ctx, "login", observability.OutcomeSuccess, elapsed)
package observability
