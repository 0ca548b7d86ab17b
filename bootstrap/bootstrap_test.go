package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/featurekit/component"
	"github.com/kbukum/featurekit/config"
	"github.com/kbukum/featurekit/di"
	"github.com/kbukum/featurekit/errors"
	"github.com/kbukum/featurekit/injector"
	"github.com/kbukum/featurekit/logger"
)

type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) component.Health { return m.health }

func newTestConfig(name string, eager ...string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     "1.0.0",
			Environment: "test",
			Logging:     logger.Config{Level: "disabled"},
			Features:    config.FeaturesConfig{Eager: eager},
		},
	}
}

func newTestApp(t *testing.T, cfg *testConfig, opts ...Option) *App[*testConfig] {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Nop()), WithSummaryOutput(io.Discard)}, opts...)
	app, err := NewApp(cfg, opts...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

type counterAPI interface{ Count() int }

type counter struct {
	n      int
	closed bool
}

func (c *counter) Count() int { return c.n }
func (c *counter) Close() error {
	c.closed = true
	return nil
}

func newCounterFeature(name string, builds *int) *injector.Delegate[counterAPI, int, *counter] {
	return injector.NewDelegate[counterAPI, int, *counter](name, func(n int) (*counter, error) {
		*builds++
		return &counter{n: n}, nil
	}, injector.WithLogger(logger.Nop()))
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t, newTestConfig("test-svc"))
	if app.Name != "test-svc" || app.Version != "1.0.0" {
		t.Errorf("unexpected name/version %q %q", app.Name, app.Version)
	}
	if app.Container == nil || app.Components == nil || app.Logger == nil || app.Summary == nil {
		t.Fatal("expected container, registry, logger and summary")
	}
	if app.Cfg.Name != "test-svc" {
		t.Errorf("expected typed config, got %q", app.Cfg.Name)
	}

	cfg := di.MustResolve[*testConfig](app.Container, di.Names.Config)
	if cfg != app.Cfg {
		t.Error("expected config registered in container")
	}
	if _, ok := di.TryResolve[*logger.Logger](app.Container, di.Names.Logger); !ok {
		t.Error("expected logger registered in container")
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := &testConfig{}
	if _, err := NewApp(cfg, WithLogger(logger.Nop())); err == nil {
		t.Error("expected validation error for missing name")
	}
}

func TestNewAppWithOptions(t *testing.T) {
	c := di.NewContainer()
	app := newTestApp(t, newTestConfig("svc"), WithContainer(c), WithGracefulTimeout(3*time.Second))
	if app.Container != c {
		t.Error("expected custom container")
	}
	if app.gracefulTimeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", app.gracefulTimeout)
	}
}

func TestDefaultGracefulTimeout(t *testing.T) {
	app := newTestApp(t, newTestConfig("svc"))
	if app.gracefulTimeout != 15*time.Second {
		t.Errorf("expected 15s default, got %v", app.gracefulTimeout)
	}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	app := newTestApp(t, newTestConfig("svc"))
	if err := app.RegisterComponent(&mockComponent{name: "http"}); err != nil {
		t.Fatalf("RegisterComponent failed: %v", err)
	}
	if err := app.RegisterComponent(&mockComponent{name: "http"}); err == nil {
		t.Error("expected duplicate error")
	}
}

func TestRegisterFeatureDuplicate(t *testing.T) {
	var builds int
	app := newTestApp(t, newTestConfig("svc"))
	if err := app.RegisterFeature(newCounterFeature("a", &builds)); err != nil {
		t.Fatalf("RegisterFeature failed: %v", err)
	}
	err := app.RegisterFeature(newCounterFeature("a", &builds))
	if !errors.HasCode(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("expected ALREADY_EXISTS, got %v", err)
	}
}

func TestRunTaskWarmsEagerFeaturesOnly(t *testing.T) {
	var eagerBuilds, lazyBuilds int
	eager := newCounterFeature("eager", &eagerBuilds)
	lazy := newCounterFeature("lazy", &lazyBuilds)

	app := newTestApp(t, newTestConfig("svc", "eager"))
	_ = app.RegisterFeature(eager)
	_ = app.RegisterFeature(lazy)
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		eager.SetDependencyProvider(func() int { return 1 })
		lazy.SetDependencyProvider(func() int { return 2 })
		return nil
	})

	var builtDuringTask, lazyDuringTask bool
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		builtDuringTask = eager.Built()
		lazyDuringTask = lazy.Built()
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if !builtDuringTask || eagerBuilds != 1 {
		t.Errorf("expected eager feature built once during startup, built=%v builds=%d", builtDuringTask, eagerBuilds)
	}
	if lazyDuringTask || lazyBuilds != 0 {
		t.Errorf("expected lazy feature untouched, built=%v builds=%d", lazyDuringTask, lazyBuilds)
	}
}

func TestRunTaskClosesBuiltFeatures(t *testing.T) {
	var builds int
	f := newCounterFeature("closable", &builds)
	app := newTestApp(t, newTestConfig("svc"))
	_ = app.RegisterFeature(f)
	f.SetDependencyProvider(func() int { return 7 })

	var comp *counter
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		api := di.MustResolve[counterAPI](app.Container, "closable")
		if api.Count() != 7 {
			return fmt.Errorf("unexpected count %d", api.Count())
		}
		var err error
		comp, err = f.ComponentImpl()
		return err
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if !comp.closed {
		t.Error("expected feature closed on shutdown")
	}
}

func TestEagerFeatureWithoutProviderFailsStartup(t *testing.T) {
	var builds int
	f := newCounterFeature("broken", &builds)
	app := newTestApp(t, newTestConfig("svc", "broken"))
	_ = app.RegisterFeature(f)

	taskRan := false
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		taskRan = true
		return nil
	})
	if !errors.HasCode(err, errors.ErrCodeMissingProvider) {
		t.Fatalf("expected MISSING_DEPENDENCY_PROVIDER, got %v", err)
	}
	if taskRan {
		t.Error("task must not run after failed startup")
	}
}

func TestStartupOrder(t *testing.T) {
	var order []string
	app := newTestApp(t, newTestConfig("svc"))
	_ = app.RegisterComponent(&orderComponent{name: "c", order: &order})
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		order = append(order, "configure")
		return nil
	})
	app.OnStart(func(ctx context.Context) error {
		order = append(order, "start-hook")
		return nil
	})
	app.OnReady(func(ctx context.Context) error {
		order = append(order, "ready-hook")
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		order = append(order, "stop-hook")
		return nil
	})

	if err := app.RunTask(context.Background(), func(ctx context.Context) error {
		order = append(order, "task")
		return nil
	}); err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}

	want := "configure,start-hook,start:c,ready-hook,task,stop-hook,stop:c"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

type orderComponent struct {
	name  string
	order *[]string
}

func (o *orderComponent) Name() string { return o.name }
func (o *orderComponent) Start(ctx context.Context) error {
	*o.order = append(*o.order, "start:"+o.name)
	return nil
}
func (o *orderComponent) Stop(ctx context.Context) error {
	*o.order = append(*o.order, "stop:"+o.name)
	return nil
}
func (o *orderComponent) Health(ctx context.Context) component.Health {
	return component.Health{Name: o.name, Status: component.StatusHealthy}
}

func TestRunTaskErrors(t *testing.T) {
	boom := fmt.Errorf("boom")
	tests := []struct {
		name  string
		setup func(app *App[*testConfig])
		task  func(ctx context.Context) error
	}{
		{"task error", func(*App[*testConfig]) {}, func(context.Context) error { return boom }},
		{"configure error", func(a *App[*testConfig]) {
			a.OnConfigure(func(context.Context, *App[*testConfig]) error { return boom })
		}, nil},
		{"start hook error", func(a *App[*testConfig]) {
			a.OnStart(func(context.Context) error { return boom })
		}, nil},
		{"ready hook error", func(a *App[*testConfig]) {
			a.OnReady(func(context.Context) error { return boom })
		}, nil},
		{"stop hook error", func(a *App[*testConfig]) {
			a.OnStop(func(context.Context) error { return boom })
		}, nil},
		{"component start error", func(a *App[*testConfig]) {
			_ = a.RegisterComponent(&mockComponent{name: "bad", startErr: boom})
		}, nil},
		{"component stop error", func(a *App[*testConfig]) {
			_ = a.RegisterComponent(&mockComponent{name: "bad", stopErr: boom})
		}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, newTestConfig("svc"))
			tc.setup(app)
			task := tc.task
			if task == nil {
				task = func(context.Context) error { return nil }
			}
			err := app.RunTask(context.Background(), task)
			if err == nil || !strings.Contains(err.Error(), "boom") {
				t.Errorf("expected boom error, got %v", err)
			}
		})
	}
}

func TestRunTaskCancellation(t *testing.T) {
	app := newTestApp(t, newTestConfig("svc"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := app.RunTask(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunReturnsOnContextCancel(t *testing.T) {
	app := newTestApp(t, newTestConfig("svc"))
	comp := &mockComponent{name: "c", health: component.Health{Name: "c", Status: component.StatusHealthy}}
	_ = app.RegisterComponent(comp)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !comp.started || !comp.stopped {
		t.Error("expected component started and stopped")
	}
}

func TestReadyCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  component.HealthStatus
		wantErr bool
	}{
		{"healthy", component.StatusHealthy, false},
		{"degraded", component.StatusDegraded, true},
		{"unhealthy", component.StatusUnhealthy, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, newTestConfig("svc"))
			_ = app.RegisterComponent(&mockComponent{name: "c", health: component.Health{Name: "c", Status: tc.status, Message: "msg"}})
			err := app.ReadyCheck(context.Background())
			if (err != nil) != tc.wantErr {
				t.Errorf("wantErr=%v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestWaitForSignalContextCancellation(t *testing.T) {
	app := newTestApp(t, newTestConfig("svc"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sig := app.WaitForSignal(ctx); sig != nil {
		t.Errorf("expected nil signal, got %v", sig)
	}
}

func TestShutdown(t *testing.T) {
	app := newTestApp(t, newTestConfig("svc"))
	comp := &mockComponent{name: "c"}
	_ = app.RegisterComponent(comp)
	_ = app.Components.StartAll(context.Background())

	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if !comp.stopped {
		t.Error("expected component stopped")
	}
}

type describedComponent struct {
	mockComponent
	desc   component.Description
	routes []component.Route
}

func (d *describedComponent) Describe() component.Description { return d.desc }
func (d *describedComponent) Routes() []component.Route       { return d.routes }

func TestSummaryDisplay(t *testing.T) {
	var builds int
	registry := component.NewRegistry()
	container := di.NewContainer()

	built := newCounterFeature("login", &builds)
	built.SetDependencyProvider(func() int { return 1 })
	_, _ = built.Get()
	_ = container.Register(built)
	_ = container.Register(newCounterFeature("pokemon", &builds))
	_ = container.RegisterSingleton("config", 1)

	_ = registry.Register(&describedComponent{
		mockComponent: mockComponent{name: "http", health: component.Health{Name: "http", Status: component.StatusHealthy}},
		desc:          component.Description{Name: "HTTP Server", Type: "server", Details: "gin h2c", Port: 8080},
		routes:        []component.Route{{Method: "GET", Path: "/healthz", Handler: "health"}},
	})
	_ = registry.Register(&mockComponent{name: "db", health: component.Health{Name: "db", Status: component.StatusUnhealthy, Message: "down"}})

	s := NewSummary("pokebase", "1.0.0")
	s.SetStartupDuration(1500 * time.Millisecond)
	s.TrackRoute("GET", "/features", "features")

	var buf bytes.Buffer
	s.Display(&buf, registry, container)
	out := buf.String()

	for _, want := range []string{
		"pokebase v1.0.0 started in 1.50s",
		"HTTP Server [server]: gin h2c (:8080)",
		"login: ✅ built " + built.InstanceID()[:8],
		"pokemon: ⚡ lazy",
		"Routes (2)",
		"/healthz",
		"db: unhealthy (down)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected summary to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "config:") {
		t.Error("singletons must not be listed as features")
	}
}

func TestSummaryDisplayNil(t *testing.T) {
	var buf bytes.Buffer
	NewSummary("svc", "0").Display(&buf, nil, nil)
	if !strings.Contains(buf.String(), "svc v0") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestTreePrefix(t *testing.T) {
	if treePrefix(0, 2) != "├──" || treePrefix(1, 2) != "└──" {
		t.Error("unexpected tree prefixes")
	}
}

func TestHealthStatusIcon(t *testing.T) {
	tests := map[component.HealthStatus]string{
		component.StatusHealthy:   "✅",
		component.StatusDegraded:  "⚠️",
		component.StatusUnhealthy: "❌",
		"other":                   "❓",
	}
	for status, want := range tests {
		if got := healthStatusIcon(status); got != want {
			t.Errorf("%s: expected %s, got %s", status, want, got)
		}
	}
}
