// Package cache persists the last backend route table seen by the CLI so
// inspection commands can still show filter verdicts while the backend is
// down.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mcp-notegate/notegate/internal/domain/routefilter"
)

type RouteCache struct {
	dir string
}

func NewRouteCache(dir string) *RouteCache {
	return &RouteCache{dir: dir}
}

func (c *RouteCache) path() string {
	return filepath.Join(c.dir, "routes.json")
}

// Get returns the cached route table, or false when none exists or it fails
// to parse.
func (c *RouteCache) Get() ([]routefilter.RouteDescriptor, bool) {
	data, err := os.ReadFile(c.path())
	if err != nil {
		return nil, false
	}
	var routes []routefilter.RouteDescriptor
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, false
	}
	return routes, true
}

func (c *RouteCache) Set(routes []routefilter.RouteDescriptor) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(routes, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(), data, 0644)
}
