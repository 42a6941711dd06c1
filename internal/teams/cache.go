package teams

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/gravitrone/teamselect/internal/api"
)

// Source loads the flat team list. *api.Client satisfies it.
type Source interface {
	ListTeams(path string) ([]api.Team, error)
}

// Cache memoizes the team list per path for the life of the process.
//
// Concurrent first callers share one in-flight request. Failures reach every
// waiter and are not memoized. Returned slices are shared and read-only.
type Cache struct {
	src   Source
	group singleflight.Group

	mu   sync.RWMutex
	data map[string][]api.Team
}

// NewCache creates a cache in front of src.
func NewCache(src Source) *Cache {
	return &Cache{
		src:  src,
		data: make(map[string][]api.Team),
	}
}

// Get returns the team list for path, fetching it at most once.
// If ctx ends first the caller stops waiting; the shared fetch continues.
func (c *Cache) Get(ctx context.Context, path string) ([]api.Team, error) {
	if list, ok := c.lookup(path); ok {
		return list, nil
	}

	ch := c.group.DoChan(path, func() (any, error) {
		if list, ok := c.lookup(path); ok {
			return list, nil
		}
		list, err := c.src.ListTeams(path)
		if err != nil {
			return nil, &FetchError{Path: path, Err: err}
		}
		c.mu.Lock()
		c.data[path] = list
		c.mu.Unlock()
		return list, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]api.Team), nil
	}
}

// Cached reports whether path has already been loaded.
func (c *Cache) Cached(path string) bool {
	_, ok := c.lookup(path)
	return ok
}

func (c *Cache) lookup(path string) ([]api.Team, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list, ok := c.data[path]
	return list, ok
}
