package injector

import (
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kbukum/featurekit/errors"
	"github.com/kbukum/featurekit/logger"
)

type greeterAPI interface {
	Greet() string
}

type greeterDeps struct {
	Prefix string `validate:"required"`
}

type greeter struct {
	prefix string
	closes int
}

func (g *greeter) Greet() string { return g.prefix + " world" }

// Internal is only reachable through ComponentImpl.
func (g *greeter) Internal() string { return "internal:" + g.prefix }

func (g *greeter) Close() error {
	g.closes++
	return nil
}

func quiet() []Option {
	return []Option{WithLogger(logger.Nop())}
}

func newGreeter(calls *atomic.Int32) *Delegate[greeterAPI, greeterDeps, *greeter] {
	return NewDelegate[greeterAPI, greeterDeps, *greeter]("greeter", func(d greeterDeps) (*greeter, error) {
		if calls != nil {
			calls.Add(1)
		}
		return &greeter{prefix: d.Prefix}, nil
	}, quiet()...)
}

func TestGetWithoutProvider(t *testing.T) {
	var calls atomic.Int32
	d := newGreeter(&calls)

	_, err := d.Get()
	if !errors.HasCode(err, errors.ErrCodeMissingProvider) {
		t.Fatalf("expected MISSING_DEPENDENCY_PROVIDER, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("factory must not run without a provider, ran %d times", calls.Load())
	}
	if d.Built() {
		t.Error("expected delegate to stay unbuilt")
	}
}

func TestGetReturnsAPIAndComponentImpl(t *testing.T) {
	d := newGreeter(nil)
	d.SetDependencyProvider(func() greeterDeps { return greeterDeps{Prefix: "hello"} })

	api, err := d.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := api.Greet(); got != "hello world" {
		t.Errorf("expected 'hello world', got %q", got)
	}

	comp, err := d.ComponentImpl()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comp.Internal() != "internal:hello" {
		t.Errorf("unexpected internal value %q", comp.Internal())
	}
	if greeterAPI(comp) != api {
		t.Error("API view and component must be the same instance")
	}
	if d.InstanceID() == "" || d.BuiltAt().IsZero() {
		t.Error("expected instance id and build time after build")
	}
}

type baseAPI interface{ Value() int }

type base struct{ v int }

func (b *base) Value() int { return b.v }

type topAPI interface{ Sum() int }

type topDeps struct{ Base baseAPI }

type top struct{ deps topDeps }

func (t *top) Sum() int { return t.deps.Base.Value() + 1 }

func TestDependentBuildsDependencyFirst(t *testing.T) {
	var baseCalls atomic.Int32
	a := NewDelegate[baseAPI, struct{}, *base]("base", func(struct{}) (*base, error) {
		baseCalls.Add(1)
		return &base{v: 41}, nil
	}, quiet()...)
	b := NewDelegate[topAPI, topDeps, *top]("top", func(d topDeps) (*top, error) {
		return &top{deps: d}, nil
	}, quiet()...)

	a.SetDependencyProvider(func() struct{} { return struct{}{} })
	b.SetDependencyProvider(func() topDeps { return topDeps{Base: a.MustGet()} })

	api, err := b.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.Sum() != 42 {
		t.Errorf("expected 42, got %d", api.Sum())
	}
	if !a.Built() {
		t.Error("expected dependency to be built transitively")
	}
	if _, err := a.Get(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if baseCalls.Load() != 1 {
		t.Errorf("expected dependency built once, got %d", baseCalls.Load())
	}
}

func TestSequentialGetIsMemoized(t *testing.T) {
	var calls atomic.Int32
	d := newGreeter(&calls)
	d.SetDependencyProvider(func() greeterDeps { return greeterDeps{Prefix: "hi"} })

	first := d.MustGet()
	for i := 0; i < 1000; i++ {
		if got := d.MustGet(); got != first {
			t.Fatalf("call %d returned a different instance", i)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("expected factory to run once, ran %d times", calls.Load())
	}
}

func TestConcurrentFirstAccessBuildsOnce(t *testing.T) {
	const n = 64
	var calls atomic.Int32
	d := NewDelegate[greeterAPI, greeterDeps, *greeter]("greeter", func(dep greeterDeps) (*greeter, error) {
		calls.Add(1)
		return &greeter{prefix: dep.Prefix}, nil
	}, quiet()...)
	d.SetDependencyProvider(func() greeterDeps { return greeterDeps{Prefix: "x"} })

	start := make(chan struct{})
	results := make([]greeterAPI, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			api, err := d.Get()
			if err != nil {
				t.Errorf("goroutine %d: %v", i, err)
				return
			}
			results[i] = api
		}(i)
	}
	close(start)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected factory to run once, ran %d times", calls.Load())
	}
	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatalf("goroutine %d observed a different instance", i)
		}
	}
}

func TestProviderReplacedAfterBuildIsIgnored(t *testing.T) {
	d := newGreeter(nil)
	d.SetDependencyProvider(func() greeterDeps { return greeterDeps{Prefix: "first"} })
	first := d.MustGet()

	d.SetDependencyProvider(func() greeterDeps { return greeterDeps{Prefix: "second"} })
	if got := d.MustGet(); got != first || got.Greet() != "first world" {
		t.Errorf("expected cached instance to win, got %q", got.Greet())
	}
	if d.DependencyProvider()().Prefix != "second" {
		t.Error("expected the replacement provider to be stored")
	}
}

func TestProviderReplacedBeforeBuildWins(t *testing.T) {
	d := newGreeter(nil)
	d.SetDependencyProvider(func() greeterDeps { return greeterDeps{Prefix: "old"} })
	d.SetDependencyProvider(func() greeterDeps { return greeterDeps{Prefix: "new"} })
	if got := d.MustGet().Greet(); got != "new world" {
		t.Errorf("expected latest provider, got %q", got)
	}
}

func TestSetNilProviderClears(t *testing.T) {
	d := newGreeter(nil)
	d.SetDependencyProvider(func() greeterDeps { return greeterDeps{Prefix: "p"} })
	d.SetDependencyProvider(nil)
	if d.DependencyProvider() != nil {
		t.Fatal("expected provider to be cleared")
	}
	if _, err := d.Get(); !errors.HasCode(err, errors.ErrCodeMissingProvider) {
		t.Errorf("expected MISSING_DEPENDENCY_PROVIDER, got %v", err)
	}
}

func TestFactoryFailureIsNotCached(t *testing.T) {
	var attempts atomic.Int32
	boom := stderrors.New("backend down")
	d := NewDelegate[greeterAPI, greeterDeps, *greeter]("flaky", func(dep greeterDeps) (*greeter, error) {
		if attempts.Add(1) == 1 {
			return nil, boom
		}
		return &greeter{prefix: dep.Prefix}, nil
	}, quiet()...)
	d.SetDependencyProvider(func() greeterDeps { return greeterDeps{Prefix: "ok"} })

	_, err := d.Get()
	if !errors.HasCode(err, errors.ErrCodeBuildFailed) {
		t.Fatalf("expected COMPONENT_BUILD_FAILED, got %v", err)
	}
	if !stderrors.Is(err, boom) {
		t.Error("expected factory error to be wrapped")
	}
	if d.Built() {
		t.Fatal("failed build must not be cached")
	}

	if _, err := d.Get(); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts.Load())
	}
}

func TestPanicsBecomeBuildFailures(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	tests := []struct {
		name     string
		provider DependencyProvider[greeterDeps]
		factory  Factory[greeterDeps, *greeter]
		wantIs   error
	}{
		{
			name:     "provider panics with string",
			provider: func() greeterDeps { panic("no config") },
			factory:  func(greeterDeps) (*greeter, error) { return &greeter{}, nil },
		},
		{
			name:     "provider panics with error",
			provider: func() greeterDeps { panic(sentinel) },
			factory:  func(greeterDeps) (*greeter, error) { return &greeter{}, nil },
			wantIs:   sentinel,
		},
		{
			name:     "factory panics",
			provider: func() greeterDeps { return greeterDeps{Prefix: "p"} },
			factory:  func(greeterDeps) (*greeter, error) { panic(fmt.Errorf("wrapped: %w", sentinel)) },
			wantIs:   sentinel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDelegate[greeterAPI, greeterDeps, *greeter]("panicky", tc.factory, quiet()...)
			d.SetDependencyProvider(tc.provider)

			_, err := d.Get()
			if !errors.HasCode(err, errors.ErrCodeBuildFailed) {
				t.Fatalf("expected COMPONENT_BUILD_FAILED, got %v", err)
			}
			if tc.wantIs != nil && !stderrors.Is(err, tc.wantIs) {
				t.Errorf("expected %v in chain, got %v", tc.wantIs, err)
			}
			if d.Built() {
				t.Error("expected delegate to stay unbuilt")
			}
		})
	}
}

func TestMustGetPanicsWithAppError(t *testing.T) {
	d := newGreeter(nil)
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.HasCode(err, errors.ErrCodeMissingProvider) {
			t.Errorf("expected MISSING_DEPENDENCY_PROVIDER panic, got %v", r)
		}
	}()
	d.MustGet()
}

type loopAPI interface{ Loop() }

type loop struct{}

func (loop) Loop() {}

func TestSelfCycleIsDetected(t *testing.T) {
	var d *Delegate[loopAPI, loopAPI, loop]
	d = NewDelegate[loopAPI, loopAPI, loop]("self", func(loopAPI) (loop, error) {
		return loop{}, nil
	}, quiet()...)
	d.SetDependencyProvider(func() loopAPI { return d.MustGet() })

	_, err := d.Get()
	if !errors.HasCode(err, errors.ErrCodeCyclicDependency) {
		t.Fatalf("expected CYCLIC_DEPENDENCY in chain, got %v", err)
	}
	if !errors.HasCode(err, errors.ErrCodeBuildFailed) {
		t.Errorf("expected outer COMPONENT_BUILD_FAILED, got %v", err)
	}
	if d.Built() {
		t.Error("expected delegate to stay unbuilt")
	}
}

func TestIndirectCycleIsDetected(t *testing.T) {
	var a, b *Delegate[loopAPI, loopAPI, loop]
	factory := func(loopAPI) (loop, error) { return loop{}, nil }
	a = NewDelegate[loopAPI, loopAPI, loop]("a", factory, quiet()...)
	b = NewDelegate[loopAPI, loopAPI, loop]("b", factory, quiet()...)
	a.SetDependencyProvider(func() loopAPI { return b.MustGet() })
	b.SetDependencyProvider(func() loopAPI { return a.MustGet() })

	_, err := a.Get()
	if !errors.HasCode(err, errors.ErrCodeCyclicDependency) {
		t.Fatalf("expected CYCLIC_DEPENDENCY in chain, got %v", err)
	}
	if a.Built() || b.Built() {
		t.Error("expected neither delegate to be built")
	}

	// Breaking the cycle lets both build.
	b.SetDependencyProvider(func() loopAPI { return loop{} })
	if _, err := a.Get(); err != nil {
		t.Fatalf("expected build after breaking cycle, got %v", err)
	}
}

type otherAPI interface{ Other() }

func TestTypeMismatch(t *testing.T) {
	d := NewDelegate[otherAPI, greeterDeps, *greeter]("mismatch", func(dep greeterDeps) (*greeter, error) {
		return &greeter{prefix: dep.Prefix}, nil
	}, quiet()...)
	d.SetDependencyProvider(func() greeterDeps { return greeterDeps{Prefix: "p"} })

	_, err := d.Get()
	if !errors.HasCode(err, errors.ErrCodeTypeMismatch) {
		t.Fatalf("expected COMPONENT_TYPE_MISMATCH, got %v", err)
	}
	appErr, _ := errors.AsAppError(err)
	if appErr.Details["component"] != "*injector.greeter" {
		t.Errorf("unexpected component detail %v", appErr.Details["component"])
	}
	if appErr.Details["api"] != "injector.otherAPI" {
		t.Errorf("unexpected api detail %v", appErr.Details["api"])
	}
}

func TestDependencyValidation(t *testing.T) {
	var calls atomic.Int32
	d := NewDelegate[greeterAPI, greeterDeps, *greeter]("validated", func(dep greeterDeps) (*greeter, error) {
		calls.Add(1)
		return &greeter{prefix: dep.Prefix}, nil
	}, WithLogger(logger.Nop()), WithDependencyValidation())
	d.SetDependencyProvider(func() greeterDeps { return greeterDeps{} })

	_, err := d.Get()
	if !errors.HasCode(err, errors.ErrCodeBuildFailed) {
		t.Fatalf("expected COMPONENT_BUILD_FAILED, got %v", err)
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected validation error in chain, got %v", err)
	}
	if calls.Load() != 0 {
		t.Error("factory must not run when validation fails")
	}
}

func TestResetClearsComponentAndProvider(t *testing.T) {
	var calls atomic.Int32
	d := newGreeter(&calls)
	d.SetDependencyProvider(func() greeterDeps { return greeterDeps{Prefix: "a"} })
	first := d.MustGet()

	d.Reset()
	if d.Built() || d.DependencyProvider() != nil || d.InstanceID() != "" {
		t.Fatal("expected reset delegate to be empty")
	}
	if _, err := d.Get(); !errors.HasCode(err, errors.ErrCodeMissingProvider) {
		t.Errorf("expected MISSING_DEPENDENCY_PROVIDER after reset, got %v", err)
	}

	d.SetDependencyProvider(func() greeterDeps { return greeterDeps{Prefix: "b"} })
	if second := d.MustGet(); second == first {
		t.Error("expected a fresh instance after reset")
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 builds, got %d", calls.Load())
	}
}

func TestCloseClosesBuiltComponent(t *testing.T) {
	d := newGreeter(nil)
	if err := d.Close(); err != nil {
		t.Fatalf("closing an unbuilt delegate should be a no-op, got %v", err)
	}

	d.SetDependencyProvider(func() greeterDeps { return greeterDeps{Prefix: "c"} })
	comp, err := d.ComponentImpl()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := d.Close(); err != nil {
			t.Fatalf("unexpected close error: %v", err)
		}
	}
	if comp.closes != 1 {
		t.Errorf("expected component closed once, got %d", comp.closes)
	}
	if !d.Built() {
		t.Error("close must not reset the delegate")
	}
}

func TestResolveIsUntypedGet(t *testing.T) {
	d := newGreeter(nil)
	if _, err := d.Resolve(); err == nil {
		t.Fatal("expected error without provider")
	}
	d.SetDependencyProvider(func() greeterDeps { return greeterDeps{Prefix: "r"} })
	v, err := d.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.(greeterAPI); !ok {
		t.Errorf("expected greeterAPI, got %T", v)
	}
}

func TestNewDelegatePanicsOnMisuse(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"empty name", func() {
			NewDelegate[greeterAPI, greeterDeps, *greeter]("", func(greeterDeps) (*greeter, error) { return nil, nil })
		}},
		{"nil factory", func() {
			NewDelegate[greeterAPI, greeterDeps, *greeter]("x", nil)
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tc.fn()
		})
	}
}

func TestGoroutineID(t *testing.T) {
	id := goroutineID()
	if id <= 0 {
		t.Fatalf("expected positive goroutine id, got %d", id)
	}
	if again := goroutineID(); again != id {
		t.Errorf("expected stable id, got %d then %d", id, again)
	}

	other := make(chan int64)
	go func() { other <- goroutineID() }()
	if got := <-other; got == id {
		t.Error("expected a different id on another goroutine")
	}
}
