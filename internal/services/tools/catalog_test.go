package tools

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

type fakeInvoker struct {
	tools      []Definition
	listCalls  int
	listErr    error
	configured bool
}

func (f *fakeInvoker) Configured() bool { return f.configured }

func (f *fakeInvoker) ListTools(ctx context.Context) ([]Definition, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tools, nil
}

func (f *fakeInvoker) CallTool(ctx context.Context, name string, args map[string]interface{}) (*CallResult, error) {
	return nil, fmt.Errorf("not implemented")
}

func TestCatalogCachesWithinTTL(t *testing.T) {
	invoker := &fakeInvoker{
		configured: true,
		tools: []Definition{
			{Name: "maps_search_nearby", InputSchema: schemaWithProperties("latitude", "radius")},
		},
	}

	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	catalog := NewCatalog(invoker, 5*time.Minute, arbor.NewLogger())
	catalog.now = func() time.Time { return clock }

	_, err := catalog.Tools(context.Background())
	require.NoError(t, err)
	_, err = catalog.Tools(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, invoker.listCalls)

	// Past the TTL the next read re-fetches
	clock = clock.Add(6 * time.Minute)
	_, err = catalog.Tools(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, invoker.listCalls)
}

func TestCatalogToolsetCached(t *testing.T) {
	invoker := &fakeInvoker{
		configured: true,
		tools: []Definition{
			{Name: "maps_search_nearby", InputSchema: schemaWithProperties("latitude", "radius")},
			{Name: "maps_search_text", InputSchema: schemaWithProperties("query")},
		},
	}

	catalog := NewCatalog(invoker, 5*time.Minute, arbor.NewLogger())

	set, err := catalog.Toolset(context.Background())
	require.NoError(t, err)
	require.NotNil(t, set.NearbySearch)
	assert.Equal(t, "maps_search_nearby", set.NearbySearch.Name)

	set2, err := catalog.Toolset(context.Background())
	require.NoError(t, err)
	assert.Same(t, set, set2)
	assert.Equal(t, 1, invoker.listCalls)
}

func TestCatalogInvalidate(t *testing.T) {
	invoker := &fakeInvoker{
		configured: true,
		tools: []Definition{
			{Name: "maps_search_text", InputSchema: schemaWithProperties("query")},
		},
	}

	catalog := NewCatalog(invoker, 5*time.Minute, arbor.NewLogger())

	_, err := catalog.Toolset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, invoker.listCalls)

	catalog.Invalidate()

	_, err = catalog.Toolset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, invoker.listCalls)
}

func TestCatalogRefreshForcesFetch(t *testing.T) {
	invoker := &fakeInvoker{
		configured: true,
		tools: []Definition{
			{Name: "maps_search_text", InputSchema: schemaWithProperties("query")},
		},
	}

	catalog := NewCatalog(invoker, time.Hour, arbor.NewLogger())

	count, err := catalog.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = catalog.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, invoker.listCalls)
}

func TestCatalogListError(t *testing.T) {
	invoker := &fakeInvoker{
		configured: true,
		listErr:    fmt.Errorf("gateway down"),
	}

	catalog := NewCatalog(invoker, 5*time.Minute, arbor.NewLogger())

	_, err := catalog.Tools(context.Background())
	require.Error(t, err)

	_, err = catalog.Toolset(context.Background())
	require.Error(t, err)
}

func TestCatalogUnconfiguredGateway(t *testing.T) {
	invoker := &fakeInvoker{configured: false}
	catalog := NewCatalog(invoker, 5*time.Minute, arbor.NewLogger())

	_, err := catalog.Tools(context.Background())
	require.Error(t, err)
	assert.Zero(t, invoker.listCalls)
}
