package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("svc")
	if cfg.ServiceName != "svc" {
		t.Errorf("expected ServiceName 'svc', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("svc")
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestInitNilConfig(t *testing.T) {
	if _, err := InitTracer(context.Background(), nil); err == nil {
		t.Error("expected error for nil tracer config")
	}
	if _, err := InitMeter(context.Background(), nil); err == nil {
		t.Error("expected error for nil meter config")
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%v", tc.rate), func(t *testing.T) {
			if got := sampler(tc.rate).Description(); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("svc", "1.2.3", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, kv := range res.Attributes() {
		if kv.Key == "service.name" && kv.Value.AsString() == "svc" {
			found = true
		}
	}
	if !found {
		t.Error("expected service.name attribute on resource")
	}
}

func TestStartBuildSpanRecordsFeature(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())

	// Use the provider directly so the global stays untouched.
	ctx, span := tp.Tracer(instrumentationName).Start(context.Background(), SpanBuild)
	SetSpanAttribute(ctx, AttrFeature, "login")
	SetSpanAttribute(ctx, "count", 3)
	SetSpanAttribute(ctx, "big", int64(9))
	SetSpanAttribute(ctx, "ratio", 0.5)
	SetSpanAttribute(ctx, "ok", true)
	SetSpanAttribute(ctx, "tags", []string{"a"})
	SetSpanAttribute(ctx, "ignored", struct{}{})
	SetSpanError(ctx, fmt.Errorf("boom"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	got := spans[0]
	if got.Name != SpanBuild {
		t.Errorf("expected span %s, got %s", SpanBuild, got.Name)
	}
	if got.Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", got.Status.Code)
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range got.Attributes {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrFeature].AsString() != "login" {
		t.Errorf("expected feature attribute 'login', got %v", attrs[AttrFeature])
	}
	if _, ok := attrs["ignored"]; ok {
		t.Error("unsupported attribute types should be ignored")
	}
	if len(got.Events) != 1 {
		t.Errorf("expected 1 error event, got %d", len(got.Events))
	}
}

func TestSpanHelpersWithoutSpan(t *testing.T) {
	ctx := context.Background()
	SetSpanAttribute(ctx, "key", "value")
	SetSpanError(ctx, fmt.Errorf("no span"))
	SetSpanError(ctx, nil)

	ctx, span := StartBuildSpan(ctx, "app")
	defer span.End()
	if ctx == nil || span == nil {
		t.Fatal("expected span and context")
	}
}

func TestRecordBuild(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewBuildMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	m.RecordBuild(ctx, "login", OutcomeSuccess, 20*time.Millisecond)
	m.RecordBuild(ctx, "login", OutcomeFailed, 5*time.Millisecond)
	m.RecordBuild(ctx, "app", OutcomeSuccess, time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	var total int64
	var histCount uint64
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			switch data := md.Data.(type) {
			case metricdata.Sum[int64]:
				if md.Name != "injector.build.total" {
					continue
				}
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
			case metricdata.Histogram[float64]:
				if md.Name != "injector.build.duration" {
					continue
				}
				for _, dp := range data.DataPoints {
					histCount += dp.Count
				}
			}
		}
	}
	if total != 3 {
		t.Errorf("expected 3 builds counted, got %d", total)
	}
	if histCount != 3 {
		t.Errorf("expected 3 duration samples, got %d", histCount)
	}
}

func TestRecordBuildNilReceiver(t *testing.T) {
	var m *BuildMetrics
	m.RecordBuild(context.Background(), "x", OutcomeSuccess, time.Second)
}

func TestNewBuildMetricsNoop(t *testing.T) {
	m, err := NewBuildMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.RecordBuild(context.Background(), "x", OutcomeCycle, time.Millisecond)
}

func TestDefaultBuildMetricsSingleton(t *testing.T) {
	a := DefaultBuildMetrics()
	b := DefaultBuildMetrics()
	if a == nil || a != b {
		t.Error("expected the same non-nil instance")
	}
}

func TestMeterAndTracer(t *testing.T) {
	if Meter("m") == nil {
		t.Error("expected non-nil meter")
	}
	if Tracer("t") == nil {
		t.Error("expected non-nil tracer")
	}
}
