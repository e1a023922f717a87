package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcp-notegate/notegate/internal/domain/routefilter"
)

func TestRouteCache_RoundTrip(t *testing.T) {
	c := NewRouteCache(filepath.Join(t.TempDir(), "notegate"))

	_, ok := c.Get()
	assert.False(t, ok, "empty cache must report a miss")

	routes := []routefilter.RouteDescriptor{
		{Method: "GET", Path: "/api/v1/notes/", OperationID: "read_notes"},
		{Method: "POST", Path: "/api/v1/tasks/", OperationID: "create_task"},
	}
	require.NoError(t, c.Set(routes))

	got, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, routes, got)
}

func TestRouteCache_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "routes.json"), []byte("{not json"), 0644))

	c := NewRouteCache(dir)
	_, ok := c.Get()
	assert.False(t, ok)
}
