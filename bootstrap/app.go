package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/featurekit/component"
	"github.com/kbukum/featurekit/di"
	"github.com/kbukum/featurekit/logger"
	"github.com/kbukum/featurekit/observability"
)

// App is the composition root of a featurekit binary. The type parameter C
// is the binary's config type; any struct embedding config.ServiceConfig
// satisfies Config.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterFeature(datastore.Entry())
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    datastore.Holder().SetDependencyProvider(...)
//	    return nil
//	})
//	app.Run(ctx)
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Container  di.Container
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration
	summaryOut      io.Writer
	observe         bool
	shutdowns       []func(context.Context) error

	onConfigure []func(ctx context.Context, app *App[C]) error
	onStart     []Hook
	onReady     []Hook
	onStop      []Hook
}

// NewApp applies defaults, validates cfg and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()

	o := resolveOptions(opts)
	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Container:       di.NewContainer(),
		Components:      component.NewRegistry(),
		gracefulTimeout: 15 * time.Second,
		summaryOut:      os.Stdout,
		observe:         base.Observability.Enabled,
	}
	if o.container != nil {
		app.Container = o.container
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.summaryOut != nil {
		app.summaryOut = o.summaryOut
	}
	if o.observe != nil {
		app.observe = *o.observe
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	if err := app.Container.RegisterSingleton(di.Names.Config, cfg); err != nil {
		return nil, err
	}
	if err := app.Container.RegisterSingleton(di.Names.Logger, app.Logger); err != nil {
		return nil, err
	}

	app.Summary = NewSummary(base.Name, base.Version)
	return app, nil
}

// RegisterComponent adds a component to the lifecycle registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// RegisterFeature indexes a feature holder in the container and adds it to
// the lifecycle. Features listed in features.eager are built during startup
// in registration order, so register dependencies first.
func (a *App[C]) RegisterFeature(e di.Entry) error {
	if err := a.Container.Register(e); err != nil {
		return err
	}
	eager := a.Cfg.GetServiceConfig().Features.IsEager(e.Name())
	return a.Components.Register(component.NewFeatureComponent(e, eager))
}

// OnConfigure registers a callback for the configure phase. Dependency
// providers are installed here, before eager features are warmed.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck reports every component that is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += "(" + h.Message + ")"
		}
		unhealthy = append(unhealthy, detail)
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run starts the application, blocks until a shutdown signal or ctx is
// done, then shuts down gracefully.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}
	a.Logger.Info("application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.stop()
}

// RunTask runs the startup sequence, executes task, and shuts down. The
// task context is canceled on SIGINT or SIGTERM.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}

	taskCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	taskErr := task(taskCtx)
	cancel()

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// Startup order: observability, configure callbacks (providers), OnStart
// hooks, component start (eager warm-up, servers), ready check, OnReady.
func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.initObservability(ctx); err != nil {
		return fmt.Errorf("observability init failed: %w", err)
	}
	if err := a.configure(ctx); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.DisplaySummary()
	return nil
}

func (a *App[C]) initObservability(ctx context.Context) error {
	if !a.observe {
		return nil
	}
	base := a.Cfg.GetServiceConfig()
	obs := base.Observability

	tp, err := observability.InitTracer(ctx, &observability.TracerConfig{
		ServiceName:    base.Name,
		ServiceVersion: base.Version,
		Environment:    base.Environment,
		Endpoint:       obs.Endpoint,
		Insecure:       obs.Insecure,
		SampleRate:     obs.SampleRate,
	})
	if err != nil {
		return err
	}
	a.shutdowns = append(a.shutdowns, tp.Shutdown)

	mp, err := observability.InitMeter(ctx, &observability.MeterConfig{
		ServiceName:    base.Name,
		ServiceVersion: base.Version,
		Environment:    base.Environment,
		Endpoint:       obs.Endpoint,
		Insecure:       obs.Insecure,
		Interval:       time.Duration(obs.MetricInterval) * time.Second,
	})
	if err != nil {
		return err
	}
	a.shutdowns = append(a.shutdowns, mp.Shutdown)
	return nil
}

func (a *App[C]) configure(ctx context.Context) error {
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// DisplaySummary prints the startup summary with live feature and health state.
func (a *App[C]) DisplaySummary() {
	a.Summary.Display(a.summaryOut, a.Components, a.Container)
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("context canceled, shutting down")
		return nil
	}
}

// Shutdown stops the application when the caller manages its own lifecycle.
func (a *App[C]) Shutdown(_ context.Context) error {
	return a.stop()
}

// stop runs OnStop hooks, stops components in reverse order, closes built
// features and flushes telemetry, all within the graceful timeout.
func (a *App[C]) stop() error {
	a.Logger.Info("shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := runHooks(ctx, a.onStop); err != nil {
		errs = append(errs, err)
	}
	if err := a.Components.StopAll(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.Container.Close(); err != nil {
		errs = append(errs, err)
	}
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		if err := a.shutdowns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.shutdowns = nil

	err := stderrors.Join(errs...)
	if err != nil {
		a.Logger.WithError(err).Error("shutdown completed with errors")
		return err
	}
	a.Logger.Info("application shutdown complete")
	return nil
}
