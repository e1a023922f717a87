package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mcp-notegate/notegate/internal/domain/manifest"
)

var (
	validateStrict bool
	validateQuiet  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [path...]",
	Short: "Validate capability module manifests",
	Long: `Validate checks capability module manifest files (.json or .toml)
against the module schema. Directories are validated recursively. With no
arguments the configured capability directories are validated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(paths) == 0 {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			paths = cfg.CapabilityDirs
		}

		results := map[string]*manifest.ValidationResult{}
		for _, path := range paths {
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if info.IsDir() {
				dirResults, err := manifest.ValidateDirectory(path)
				if err != nil {
					return fmt.Errorf("validate directory %s: %w", path, err)
				}
				for name, result := range dirResults {
					results[filepath.Join(path, name)] = result
				}
			} else {
				result, err := manifest.ValidateFile(path)
				if err != nil {
					return fmt.Errorf("validate %s: %w", path, err)
				}
				results[path] = result
			}
		}

		failed := printResults(results)
		if failed {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func printResults(results map[string]*manifest.ValidationResult) (failed bool) {
	if jsonOutput {
		data, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(data))
		for _, r := range results {
			if !r.Valid || (validateStrict && len(r.Warnings) > 0) {
				failed = true
			}
		}
		return failed
	}

	paths := make([]string, 0, len(results))
	for path := range results {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	validCount := 0
	for _, path := range paths {
		result := results[path]
		bad := !result.Valid || (validateStrict && len(result.Warnings) > 0)
		if bad {
			failed = true
			fmt.Println(mark("✗", color.RedString), path)
		} else {
			validCount++
			if validateQuiet {
				continue
			}
			fmt.Println(mark("✓", color.GreenString), path)
		}
		for _, e := range result.Errors {
			fmt.Printf("  ERROR: %s: %s\n", e.Field, e.Message)
		}
		for _, w := range result.Warnings {
			fmt.Printf("  WARN:  %s: %s\n", w.Field, w.Message)
		}
	}

	if !validateQuiet {
		fmt.Printf("\nSummary: %d valid, %d invalid\n", validCount, len(results)-validCount)
	}
	return failed
}

func mark(symbol string, colored func(format string, a ...interface{}) string) string {
	if noColor {
		return symbol
	}
	return colored("%s", symbol)
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat warnings as errors")
	validateCmd.Flags().BoolVar(&validateQuiet, "quiet", false, "only print failures")
}
