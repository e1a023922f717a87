package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcp-notegate/notegate/internal/domain/integration"
)

var (
	installURL   string
	installToken string
)

var installCmd = &cobra.Command{
	Use:   "install <client>",
	Short: "Point an MCP client at this gateway",
	Long: fmt.Sprintf(`Install writes a server entry for this gateway into the named
client's MCP configuration. Supported clients: %s.`,
		strings.Join(integration.Clients(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := installURL
		if url == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			listen := cfg.Listen
			if strings.HasPrefix(listen, ":") {
				listen = "127.0.0.1" + listen
			}
			url = "http://" + listen + "/"
		}

		installer, err := integration.NewInstaller()
		if err != nil {
			return err
		}
		path, err := installer.Install(args[0], integration.Endpoint{
			URL:   url,
			Token: installToken,
		})
		if err != nil {
			return err
		}
		fmt.Printf("configured %s at %s\n", args[0], path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().StringVar(&installURL, "url", "", "gateway URL (default derived from the configured listen address)")
	installCmd.Flags().StringVar(&installToken, "token", "", "bearer token to embed in the client config")
}
