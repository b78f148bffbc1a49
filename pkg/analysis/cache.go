package analysis

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Cache memoizes the most recent parse. Parsing is pure, so the entry can be
// replaced at any time.
type Cache struct {
	mu     sync.Mutex
	source string
	opts   Options
	last   *Result
}

func NewCache() *Cache {
	return &Cache{}
}

// Parse returns the cached result when source and opts match the last parse.
func (c *Cache) Parse(ctx context.Context, source string, opts Options) *Result {
	c.mu.Lock()
	if c.last != nil && c.source == source && c.opts == opts {
		res := c.last
		c.mu.Unlock()
		zerolog.Ctx(ctx).Trace().Msg("reusing cached parse")
		return res
	}
	c.mu.Unlock()

	res := Parse(ctx, source, opts)

	c.mu.Lock()
	c.source, c.opts, c.last = source, opts, res
	c.mu.Unlock()

	return res
}
