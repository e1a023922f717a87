package commands

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mcp-notegate/notegate/internal/api"
	"github.com/mcp-notegate/notegate/internal/config"
	"github.com/mcp-notegate/notegate/internal/upstream"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveListen != "" {
			cfg.Listen = serveListen
		}

		log, err := newLogger(cfg, "json")
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		gw, err := buildGateway(ctx, cfg, log)
		if err != nil {
			return err
		}

		err = gw.ListenAndServe(ctx, cfg.Listen)
		if errors.Is(err, context.Canceled) {
			log.Info("gateway stopped")
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address override")
}

func newUpstreamClient(cfg config.Config) (*upstream.Client, error) {
	return upstream.NewClient(upstream.Config{
		BaseURL:   cfg.Upstream.BaseURL,
		Email:     cfg.Upstream.ServiceEmail,
		Password:  cfg.Upstream.ServicePassword,
		TokenPath: cfg.Upstream.TokenPath,
		Timeout:   cfg.Upstream.Timeout(),
	})
}

func buildGateway(ctx context.Context, cfg config.Config, log *zap.Logger) (*api.Gateway, error) {
	client, err := newUpstreamClient(cfg)
	if err != nil {
		return nil, err
	}

	gw := api.New(client, api.Config{
		CapabilityDirs: cfg.CapabilityDirs,
		Policy:         cfg.Filter,
		OpenAPIPath:    cfg.Upstream.OpenAPIPath,
		Logger:         log,
	})
	if err := gw.Build(ctx); err != nil {
		return nil, err
	}
	return gw, nil
}
