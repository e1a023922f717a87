// Package commands defines the notegate CLI.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mcp-notegate/notegate/internal/cli/inference"
	"github.com/mcp-notegate/notegate/internal/cli/output"
	"github.com/mcp-notegate/notegate/internal/config"
	"github.com/mcp-notegate/notegate/internal/logger"
	"go.uber.org/zap"
)

var (
	cfgFile    string
	logLevel   string
	jsonOutput bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "notegate",
	Short: "notegate - MCP gateway for the notes backend",
	Long: `notegate exposes a notes and tasks backend over the Model Context
Protocol. It merges builtin capabilities, capability modules scanned from
disk, and a filtered projection of the backend's own HTTP routes into a
single tool surface.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	if len(os.Args) > 1 {
		if inferred, _ := inference.InferCommand(os.Args[1:]); inferred != "" {
			if _, _, err := rootCmd.Find(os.Args[1:2]); err != nil {
				newArgs := make([]string, 0, len(os.Args)+1)
				newArgs = append(newArgs, os.Args[0], inferred)
				newArgs = append(newArgs, os.Args[1:]...)
				os.Args = newArgs
			}
		}
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./notegate.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func loadConfig() (config.Config, error) {
	path := cfgFile
	if path == "" {
		path = "notegate.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func newLogger(cfg config.Config, format string) (*zap.Logger, error) {
	return logger.New(cfg.LogLevel, format)
}

func formatter() *output.Formatter {
	mode := output.FormatText
	if jsonOutput {
		mode = output.FormatJSON
	}
	return output.NewFormatter(os.Stdout, mode, !noColor)
}
