package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mcp-notegate/notegate/internal/cli/errors"
	"github.com/mcp-notegate/notegate/internal/domain/capability"
	"github.com/mcp-notegate/notegate/internal/upstream"
)

var (
	callArgs  string
	callToken string
)

var callCmd = &cobra.Command{
	Use:   "call <tool> [--args '{...}']",
	Short: "Invoke a tool capability directly, without an MCP client",
	Args:  cobra.ExactArgs(1),
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

		name := args[0]
		cap, ok := gw.Registry().Get(name, capability.KindTool)
		if !ok {
			return fmt.Errorf("no tool named %q; run 'notegate capabilities --kind tool'", name)
		}

		var raw json.RawMessage
		if callArgs != "" {
			if !json.Valid([]byte(callArgs)) {
				return fmt.Errorf("--args is not valid JSON")
			}
			raw = json.RawMessage(callArgs)
		}

		ctx := cmd.Context()
		if callToken != "" {
			ctx = upstream.WithCallerToken(ctx, callToken)
		}

		result, err := cap.Tool(ctx, raw)
		if err != nil {
			formatter().FormatError(errors.Classify(err))
			return err
		}

		switch v := result.(type) {
		case string:
			fmt.Println(v)
		case json.RawMessage:
			fmt.Println(string(v))
		default:
			data, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().StringVar(&callArgs, "args", "", "tool arguments as a JSON object")
	callCmd.Flags().StringVar(&callToken, "token", "", "user JWT to act as")
}
