package commands

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mcp-notegate/notegate/internal/cli/errors"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check backend connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newUpstreamClient(cfg)
		if err != nil {
			return err
		}

		healthErr := client.Health(cmd.Context(), "")

		if jsonOutput {
			out := map[string]any{
				"backend": cfg.Upstream.BaseURL,
				"healthy": healthErr == nil,
			}
			if healthErr != nil {
				out["error"] = healthErr.Error()
			}
			data, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(data))
		} else if healthErr == nil {
			if noColor {
				fmt.Printf("backend %s: healthy\n", cfg.Upstream.BaseURL)
			} else {
				fmt.Printf("backend %s: %s\n", cfg.Upstream.BaseURL, color.GreenString("healthy"))
			}
		} else {
			formatter().FormatError(errors.Classify(healthErr))
		}

		if healthErr != nil {
			return fmt.Errorf("backend unhealthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
