package injector

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/featurekit/errors"
	"github.com/kbukum/featurekit/logger"
	"github.com/kbukum/featurekit/observability"
	"github.com/kbukum/featurekit/validation"
)

type instance[API, Comp any] struct {
	comp    Comp
	api     API
	id      string
	builtAt time.Time
	closed  atomic.Bool
}

// Delegate owns the lifecycle of one feature component: it stores the
// dependency provider, builds the component once, and serves both the API
// view and the full component.
//
// Reads of a built component are a single atomic load. Builds are
// serialized by a mutex, so concurrent first calls observe the same
// instance and the factory runs at most once per successful build.
type Delegate[API, Deps, Comp any] struct {
	name    string
	factory Factory[Deps, Comp]
	opts    options

	providerMu sync.RWMutex
	provider   DependencyProvider[Deps]

	buildMu sync.Mutex
	inst    atomic.Pointer[instance[API, Comp]]
	// builder is the goroutine currently running a build, 0 when idle.
	builder atomic.Int64
}

var _ ComponentHolder[any, any] = (*Delegate[any, any, any])(nil)

// NewDelegate creates a delegate for the named feature. It panics on an
// empty name or nil factory since both are wiring mistakes made at package
// initialization.
func NewDelegate[API, Deps, Comp any](name string, factory Factory[Deps, Comp], opts ...Option) *Delegate[API, Deps, Comp] {
	if name == "" {
		panic("injector: delegate name is required")
	}
	if factory == nil {
		panic(fmt.Sprintf("injector: nil factory for feature %q", name))
	}
	d := &Delegate[API, Deps, Comp]{name: name, factory: factory}
	for _, opt := range opts {
		opt(&d.opts)
	}
	return d
}

// Name returns the feature name.
func (d *Delegate[API, Deps, Comp]) Name() string { return d.name }

// SetDependencyProvider installs p, replacing any earlier provider. A nil p
// clears it. A component that is already built is not affected.
func (d *Delegate[API, Deps, Comp]) SetDependencyProvider(p DependencyProvider[Deps]) {
	d.providerMu.Lock()
	d.provider = p
	d.providerMu.Unlock()
}

// DependencyProvider returns the installed provider, or nil.
func (d *Delegate[API, Deps, Comp]) DependencyProvider() DependencyProvider[Deps] {
	d.providerMu.RLock()
	defer d.providerMu.RUnlock()
	return d.provider
}

// Get returns the API of the component, building it on first use.
func (d *Delegate[API, Deps, Comp]) Get() (API, error) {
	inst, err := d.instance()
	if err != nil {
		var zero API
		return zero, err
	}
	return inst.api, nil
}

// MustGet is like Get but panics with the build error.
func (d *Delegate[API, Deps, Comp]) MustGet() API {
	api, err := d.Get()
	if err != nil {
		panic(err)
	}
	return api
}

// ComponentImpl returns the full component, building it on first use.
// Features keep their delegate unexported so only their own code reaches it.
func (d *Delegate[API, Deps, Comp]) ComponentImpl() (Comp, error) {
	inst, err := d.instance()
	if err != nil {
		var zero Comp
		return zero, err
	}
	return inst.comp, nil
}

// Resolve is Get with an untyped result, for registries.
func (d *Delegate[API, Deps, Comp]) Resolve() (any, error) {
	api, err := d.Get()
	if err != nil {
		return nil, err
	}
	return api, nil
}

// Built reports whether a component is cached.
func (d *Delegate[API, Deps, Comp]) Built() bool {
	return d.inst.Load() != nil
}

// BuiltAt returns when the cached component was built, or the zero time.
func (d *Delegate[API, Deps, Comp]) BuiltAt() time.Time {
	if inst := d.inst.Load(); inst != nil {
		return inst.builtAt
	}
	return time.Time{}
}

// InstanceID returns the id assigned to the cached component, or "".
func (d *Delegate[API, Deps, Comp]) InstanceID() string {
	if inst := d.inst.Load(); inst != nil {
		return inst.id
	}
	return ""
}

// Snapshot reports the id and build time of the cached component from a
// single read, so the values agree with each other and with ok.
func (d *Delegate[API, Deps, Comp]) Snapshot() (id string, builtAt time.Time, ok bool) {
	inst := d.inst.Load()
	if inst == nil {
		return "", time.Time{}, false
	}
	return inst.id, inst.builtAt, true
}

// Reset drops the cached component and the provider. Test harness only:
// components handed out earlier stay alive in their holders.
func (d *Delegate[API, Deps, Comp]) Reset() {
	d.buildMu.Lock()
	defer d.buildMu.Unlock()
	d.inst.Store(nil)
	d.SetDependencyProvider(nil)
}

// Close closes the built component if it implements io.Closer. Each
// instance is closed at most once. The cached instance is kept.
func (d *Delegate[API, Deps, Comp]) Close() error {
	inst := d.inst.Load()
	if inst == nil || !inst.closed.CompareAndSwap(false, true) {
		return nil
	}
	if c, ok := any(inst.comp).(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (d *Delegate[API, Deps, Comp]) instance() (*instance[API, Comp], error) {
	if inst := d.inst.Load(); inst != nil {
		return inst, nil
	}
	if b := d.builder.Load(); b != 0 && b == goroutineID() {
		d.log().Error("cyclic dependency detected", logger.Fields(logger.FieldFeature, d.name))
		d.metrics().RecordBuild(context.Background(), d.name, observability.OutcomeCycle, 0)
		return nil, errors.CyclicDependency(d.name)
	}

	d.buildMu.Lock()
	defer d.buildMu.Unlock()

	if inst := d.inst.Load(); inst != nil {
		return inst, nil
	}

	d.builder.Store(goroutineID())
	defer d.builder.Store(0)

	return d.build()
}

// build runs with buildMu held.
func (d *Delegate[API, Deps, Comp]) build() (*instance[API, Comp], error) {
	ctx, span := observability.StartBuildSpan(context.Background(), d.name)
	defer span.End()

	start := time.Now()
	log := d.log()
	log.Debug("building component", logger.Fields(logger.FieldFeature, d.name))

	inst, outcome, err := d.construct()
	elapsed := time.Since(start)
	d.metrics().RecordBuild(ctx, d.name, outcome, elapsed)

	if err != nil {
		observability.SetSpanError(ctx, err)
		log.WithError(err).Error("component build failed", logger.Fields(
			logger.FieldFeature, d.name,
			logger.FieldStatus, outcome,
			logger.FieldDuration, elapsed.Milliseconds(),
		))
		return nil, err
	}

	observability.SetSpanAttribute(ctx, observability.AttrInstanceID, inst.id)
	d.inst.Store(inst)
	log.Info("component built", logger.Fields(
		logger.FieldFeature, d.name,
		logger.FieldInstanceID, inst.id,
		logger.FieldDuration, elapsed.Milliseconds(),
	))
	return inst, nil
}

func (d *Delegate[API, Deps, Comp]) construct() (*instance[API, Comp], string, error) {
	provider := d.DependencyProvider()
	if provider == nil {
		return nil, observability.OutcomeMissingProvider, errors.MissingProvider(d.name)
	}

	deps, err := callProvider(provider)
	if err != nil {
		return nil, observability.OutcomeFailed, errors.BuildFailed(d.name, err)
	}

	if d.opts.validateDeps {
		if err := validation.Validate(deps); err != nil {
			return nil, observability.OutcomeFailed, errors.BuildFailed(d.name, err)
		}
	}

	comp, err := callFactory(d.factory, deps)
	if err != nil {
		return nil, observability.OutcomeFailed, errors.BuildFailed(d.name, err)
	}

	api, ok := any(comp).(API)
	if !ok {
		want := reflect.TypeOf((*API)(nil)).Elem().String()
		return nil, observability.OutcomeTypeMismatch, errors.TypeMismatch(d.name, fmt.Sprintf("%T", comp), want)
	}

	return &instance[API, Comp]{
		comp:    comp,
		api:     api,
		id:      uuid.NewString(),
		builtAt: time.Now(),
	}, observability.OutcomeSuccess, nil
}

func (d *Delegate[API, Deps, Comp]) log() *logger.Logger {
	if d.opts.log != nil {
		return d.opts.log
	}
	return logger.Get("injector")
}

func (d *Delegate[API, Deps, Comp]) metrics() *observability.BuildMetrics {
	if d.opts.metrics != nil {
		return d.opts.metrics
	}
	return observability.DefaultBuildMetrics()
}

func callProvider[D any](p DependencyProvider[D]) (deps D, err error) {
	defer recoverInto(&err, "dependency provider")
	return p(), nil
}

func callFactory[D, C any](f Factory[D, C], deps D) (comp C, err error) {
	defer recoverInto(&err, "factory")
	return f(deps)
}

// recoverInto converts a panic into *errp. Error values are wrapped so that
// errors raised by nested MustGet calls stay reachable through Unwrap.
func recoverInto(errp *error, stage string) {
	r := recover()
	if r == nil {
		return
	}
	if err, ok := r.(error); ok {
		*errp = fmt.Errorf("%s panicked: %w", stage, err)
		return
	}
	*errp = fmt.Errorf("%s panicked: %v", stage, r)
}
