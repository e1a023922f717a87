package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mcp-notegate/notegate/internal/cli/cache"
	"github.com/mcp-notegate/notegate/internal/cli/errors"
	"github.com/mcp-notegate/notegate/internal/domain/routefilter"
)

var routesCacheDir string

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Show the backend route table and each route's filter verdict",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newUpstreamClient(cfg)
		if err != nil {
			return err
		}

		routeCache := cache.NewRouteCache(cacheDir())
		routes, fetchErr := client.Routes(cmd.Context(), cfg.Upstream.OpenAPIPath)
		if fetchErr != nil {
			cached, ok := routeCache.Get()
			if !ok {
				formatter().FormatError(errors.Classify(fetchErr))
				return fetchErr
			}
			fmt.Fprintln(os.Stderr, "backend unreachable, showing cached route table")
			routes = cached
		} else if err := routeCache.Set(routes); err != nil {
			fmt.Fprintf(os.Stderr, "warning: cache route table: %v\n", err)
		}

		decisions := make([]routefilter.Decision, 0, len(routes))
		for _, route := range routes {
			decisions = append(decisions, routefilter.Decide(route, cfg.Filter))
		}
		formatter().FormatDecisions(decisions)
		return nil
	},
}

func cacheDir() string {
	if routesCacheDir != "" {
		return routesCacheDir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return ".notegate-cache"
	}
	return filepath.Join(base, "notegate")
}

func init() {
	rootCmd.AddCommand(routesCmd)
	routesCmd.Flags().StringVar(&routesCacheDir, "cache-dir", "", "directory for the route table cache")
}
