package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mcp-notegate/notegate/internal/cli/errors"
	"github.com/mcp-notegate/notegate/internal/domain/capability"
)

var capabilitiesKind string

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Build the gateway and list the merged capability set",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		gw, err := buildGateway(cmd.Context(), cfg, zap.NewNop())
		if err != nil {
			formatter().FormatError(errors.Classify(err))
			return err
		}

		caps := gw.Registry().All()
		if capabilitiesKind != "" {
			filtered := caps[:0]
			for _, c := range caps {
				if c.Kind == capability.Kind(capabilitiesKind) {
					filtered = append(filtered, c)
				}
			}
			caps = filtered
		}

		f := formatter()
		f.FormatCapabilities(caps)
		f.FormatSkipped(gw.Skipped())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(capabilitiesCmd)
	capabilitiesCmd.Flags().StringVar(&capabilitiesKind, "kind", "", "filter by kind (tool, resource, prompt)")
}
