package genre

import (
	"context"
	"sync"

	"github.com/hashicorp/go-hclog"

	"moviefinder/internal/tmdb"
)

// Unknown is returned for ids missing from the catalog.
const Unknown = "Unknown"

// Source provides the full movie genre catalog.
type Source interface {
	MovieGenres(ctx context.Context) (*tmdb.GenreList, error)
}

// Cache maps genre ids to names for the life of the process. The catalog is
// fetched once, on the first lookup. Concurrent first lookups may each fetch;
// they converge on the same mapping.
type Cache struct {
	src    Source
	logger hclog.Logger

	mu    sync.RWMutex
	names map[int]string // nil until the first successful fetch
}

func NewCache(src Source, logger hclog.Logger) *Cache {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Cache{src: src, logger: logger}
}

// Names resolves ids in order. The result has one entry per id, except when
// the catalog fetch fails: then it is empty and the next call retries.
func (c *Cache) Names(ctx context.Context, ids []int) []string {
	names, ok := c.snapshot()
	if !ok {
		var err error
		names, err = c.load(ctx)
		if err != nil {
			c.logger.Error("error fetching genres", "error", err)
			return []string{}
		}
	}

	out := make([]string, len(ids))
	for i, id := range ids {
		if name, found := names[id]; found {
			out[i] = name
		} else {
			out[i] = Unknown
		}
	}
	return out
}

// Loaded reports whether the catalog has been fetched.
func (c *Cache) Loaded() bool {
	_, ok := c.snapshot()
	return ok
}

func (c *Cache) snapshot() (map[int]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.names, c.names != nil
}

func (c *Cache) load(ctx context.Context) (map[int]string, error) {
	list, err := c.src.MovieGenres(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[int]string, len(list.Genres))
	for _, g := range list.Genres {
		if _, dup := names[g.ID]; !dup {
			names[g.ID] = g.Name
		}
	}

	c.mu.Lock()
	c.names = names
	c.mu.Unlock()

	c.logger.Debug("genre catalog loaded", "count", len(names))
	return names, nil
}
