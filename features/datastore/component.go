package datastore

import "github.com/kbukum/featurekit/redis"

// Component is the built datastore feature.
type Component struct {
	namespace string
	backend   string
	repo      Repository
}

var _ API = (*Component)(nil)

func newComponent(deps Dependencies) *Component {
	c := &Component{namespace: deps.Namespace}
	if deps.Redis != nil {
		c.backend = "redis"
		c.repo = newRedisRepository(redis.NewTypedStore[Session](deps.Redis, deps.Namespace), deps.Namespace)
	} else {
		c.backend = "memory"
		c.repo = newMemoryRepository(deps.Namespace)
	}
	return c
}

func (c *Component) Repository() Repository { return c.repo }

// Namespace is the scope the component was built for.
func (c *Component) Namespace() string { return c.namespace }

// Backend is "memory" or "redis".
func (c *Component) Backend() string { return c.backend }

// Close drops an in-memory session. Redis sessions outlive the process.
func (c *Component) Close() error {
	if m, ok := c.repo.(*memoryRepository); ok {
		m.clear()
	}
	return nil
}
