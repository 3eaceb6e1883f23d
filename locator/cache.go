package locator

import (
	"sync"

	"github.com/penwyp/ClawMeter/models"
)

// Cached wraps a Resolver so resolution happens once per process.
// Host binary locations do not change at runtime.
type Cached struct {
	resolver Resolver
	once     sync.Once
	paths    models.ResolvedPaths
}

// NewCached returns a Resolver that memoizes r
func NewCached(r Resolver) *Cached {
	return &Cached{resolver: r}
}

// Resolve returns the memoized paths, resolving on first use
func (c *Cached) Resolve() models.ResolvedPaths {
	c.once.Do(func() {
		c.paths = c.resolver.Resolve()
	})
	return c.paths
}

// Static is a Resolver that always returns fixed paths
type Static models.ResolvedPaths

// Resolve returns the fixed paths
func (s Static) Resolve() models.ResolvedPaths {
	return models.ResolvedPaths(s)
}
