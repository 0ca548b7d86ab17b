package di

import (
	stderrors "errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kbukum/featurekit/errors"
	"github.com/kbukum/featurekit/logger"
)

// Entry is a lazily built feature registered with a Container.
// *injector.Delegate satisfies it.
type Entry interface {
	Name() string
	Built() bool
	Resolve() (any, error)
	Reset()
	Close() error
}

// introspectable entries report which instance they hold in one read.
type introspectable interface {
	Snapshot() (id string, builtAt time.Time, ok bool)
}

// RegistrationKind tells feature entries apart from plain values.
type RegistrationKind string

const (
	KindFeature   RegistrationKind = "feature"
	KindSingleton RegistrationKind = "singleton"
)

// Container is the composition root's index of feature holders.
type Container interface {
	// Register adds a feature entry. Names must be unique.
	Register(e Entry) error
	// RegisterSingleton adds a pre-built value such as the loaded config.
	RegisterSingleton(key string, instance any) error
	Resolve(key string) (any, error)
	MustResolve(key string) any

	// Introspection
	Registrations() []RegistrationInfo
	Registration(key string) (RegistrationInfo, bool)

	// Reset and ResetAll drop built components. Test harness only.
	Reset(key string) error
	ResetAll()

	// Close closes built entries in reverse registration order.
	Close() error
}

// RegistrationInfo describes a registration for introspection.
type RegistrationInfo struct {
	Key         string           `json:"key"`
	Kind        RegistrationKind `json:"kind"`
	Initialized bool             `json:"initialized"`
	InstanceID  string           `json:"instance_id,omitempty"`
	BuiltAt     *time.Time       `json:"built_at,omitempty"`
}

type container struct {
	mu         sync.RWMutex
	entries    map[string]Entry
	order      []string
	singletons map[string]any
}

// NewContainer returns an empty container.
func NewContainer() Container {
	return &container{
		entries:    make(map[string]Entry),
		singletons: make(map[string]any),
	}
}

func (c *container) Register(e Entry) error {
	if e == nil {
		return errors.InvalidInput("entry", "entry is nil")
	}
	key := e.Name()
	if key == "" {
		return errors.InvalidInput("name", "entry name is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exists(key) {
		return errors.AlreadyExists(fmt.Sprintf("registration %q", key))
	}
	c.entries[key] = e
	c.order = append(c.order, key)

	logger.Debug("feature registered", logger.Fields(logger.FieldFeature, key))
	return nil
}

func (c *container) RegisterSingleton(key string, instance any) error {
	if key == "" {
		return errors.InvalidInput("key", "singleton key is empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exists(key) {
		return errors.AlreadyExists(fmt.Sprintf("registration %q", key))
	}
	c.singletons[key] = instance
	return nil
}

// exists must be called with mu held.
func (c *container) exists(key string) bool {
	if _, ok := c.entries[key]; ok {
		return true
	}
	_, ok := c.singletons[key]
	return ok
}

func (c *container) Resolve(key string) (any, error) {
	c.mu.RLock()
	if v, ok := c.singletons[key]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, errors.NotFound("registration", key)
	}
	// Built outside the lock: a feature's provider may resolve siblings.
	return e.Resolve()
}

func (c *container) MustResolve(key string) any {
	v, err := c.Resolve(key)
	if err != nil {
		panic(err)
	}
	return v
}

func (c *container) Registrations() []RegistrationInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	infos := make([]RegistrationInfo, 0, len(c.entries)+len(c.singletons))
	for _, e := range c.entries {
		infos = append(infos, entryInfo(e))
	}
	for key := range c.singletons {
		infos = append(infos, RegistrationInfo{Key: key, Kind: KindSingleton, Initialized: true})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos
}

func (c *container) Registration(key string) (RegistrationInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[key]; ok {
		return entryInfo(e), true
	}
	if _, ok := c.singletons[key]; ok {
		return RegistrationInfo{Key: key, Kind: KindSingleton, Initialized: true}, true
	}
	return RegistrationInfo{}, false
}

func entryInfo(e Entry) RegistrationInfo {
	info := RegistrationInfo{Key: e.Name(), Kind: KindFeature}
	in, ok := e.(introspectable)
	if !ok {
		info.Initialized = e.Built()
		return info
	}
	id, at, built := in.Snapshot()
	info.Initialized = built
	if built {
		info.InstanceID = id
		if !at.IsZero() {
			info.BuiltAt = &at
		}
	}
	return info
}

func (c *container) Reset(key string) error {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return errors.NotFound("registration", key)
	}
	e.Reset()
	return nil
}

func (c *container) ResetAll() {
	for _, e := range c.snapshot() {
		e.Reset()
	}
}

func (c *container) Close() error {
	entries := c.snapshot()
	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if !e.Built() {
			continue
		}
		if err := e.Close(); err != nil {
			logger.Error("failed to close feature", logger.ErrorFields("di.close", err))
			errs = append(errs, fmt.Errorf("close %s: %w", e.Name(), err))
		}
	}
	return stderrors.Join(errs...)
}

// snapshot returns entries in registration order.
func (c *container) snapshot() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.entries[key])
	}
	return out
}
