package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
)

// DefaultCatalogTTL is how long a fetched tool list and its resolution stay
// valid without a refresh
const DefaultCatalogTTL = 5 * time.Minute

// Catalog caches the gateway's advertised tools and their capability
// resolution. The two caches have independent entries under one TTL so that
// resolution logic changes take effect without a new remote fetch. Entries
// are replaced wholesale under the mutex; a racing refresh costs an extra
// remote fetch, never a partial state.
type Catalog struct {
	client Invoker
	ttl    time.Duration
	now    func() time.Time
	logger arbor.ILogger

	mu           sync.Mutex
	tools        []Definition
	toolsFetched time.Time
	resolved     *ResolvedToolSet
	resolvedAt   time.Time
}

// NewCatalog creates a tool catalog over the given client
func NewCatalog(client Invoker, ttl time.Duration, logger arbor.ILogger) *Catalog {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	return &Catalog{
		client: client,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Tools returns the cached tool list, refreshing it from the gateway when
// the cache is empty or past its TTL
func (c *Catalog) Tools(ctx context.Context) ([]Definition, error) {
	c.mu.Lock()
	if !c.toolsFetched.IsZero() && c.now().Sub(c.toolsFetched) < c.ttl {
		defs := c.tools
		c.mu.Unlock()
		return defs, nil
	}
	c.mu.Unlock()

	return c.refreshTools(ctx)
}

// Toolset returns the cached capability resolution, re-resolving (and if
// needed re-fetching) when stale
func (c *Catalog) Toolset(ctx context.Context) (*ResolvedToolSet, error) {
	c.mu.Lock()
	if c.resolved != nil && c.now().Sub(c.resolvedAt) < c.ttl {
		set := c.resolved
		c.mu.Unlock()
		return set, nil
	}
	c.mu.Unlock()

	defs, err := c.Tools(ctx)
	if err != nil {
		return nil, err
	}

	set := Resolve(defs)

	c.mu.Lock()
	c.resolved = set
	c.resolvedAt = c.now()
	c.mu.Unlock()

	c.logger.Debug().
		Bool("nearby", set.NearbySearch != nil).
		Bool("text", set.TextSearch != nil).
		Bool("geocode", set.Geocode != nil).
		Bool("details", set.PlaceDetails != nil).
		Msg("Tool capabilities resolved")

	return set, nil
}

// Invalidate discards both caches immediately. Called when the gateway
// rejects a cached tool name so the next request picks up schema changes
// without waiting out the TTL.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.tools = nil
	c.toolsFetched = time.Time{}
	c.resolved = nil
	c.resolvedAt = time.Time{}
	c.mu.Unlock()

	c.logger.Debug().Msg("Tool catalog invalidated")
}

// Refresh forces a fetch and resolution regardless of TTL. Used by the
// background scheduler so user requests do not pay the list latency after a
// schema rollout.
func (c *Catalog) Refresh(ctx context.Context) (int, error) {
	defs, err := c.refreshTools(ctx)
	if err != nil {
		return 0, err
	}

	set := Resolve(defs)

	c.mu.Lock()
	c.resolved = set
	c.resolvedAt = c.now()
	c.mu.Unlock()

	return len(defs), nil
}

func (c *Catalog) refreshTools(ctx context.Context) ([]Definition, error) {
	if !c.client.Configured() {
		return nil, fmt.Errorf("tool gateway is not configured")
	}

	defs, err := c.client.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh tool catalog: %w", err)
	}

	c.mu.Lock()
	c.tools = defs
	c.toolsFetched = c.now()
	c.mu.Unlock()

	return defs, nil
}
