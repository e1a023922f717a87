// Package output renders command results as text tables or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/mcp-notegate/notegate/internal/cli/errors"
	"github.com/mcp-notegate/notegate/internal/domain/capability"
	"github.com/mcp-notegate/notegate/internal/domain/discovery"
	"github.com/mcp-notegate/notegate/internal/domain/routefilter"
)

type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

type Formatter struct {
	out    io.Writer
	format OutputFormat
	color  bool
}

func NewFormatter(out io.Writer, format OutputFormat, useColor bool) *Formatter {
	return &Formatter{out: out, format: format, color: useColor}
}

func (f *Formatter) FormatError(err errors.ClassifiedError) {
	if f.format == FormatJSON {
		data, _ := json.MarshalIndent(err, "", "  ")
		fmt.Fprintln(f.out, string(data))
		return
	}

	if f.color {
		fmt.Fprintln(f.out, color.RedString("Error [%s]: %s", err.Kind, err.Message))
		if err.Hint != "" {
			fmt.Fprintln(f.out, color.YellowString("Hint: %s", err.Hint))
		}
		return
	}
	fmt.Fprintf(f.out, "Error [%s]: %s\n", err.Kind, err.Message)
	if err.Hint != "" {
		fmt.Fprintf(f.out, "Hint: %s\n", err.Hint)
	}
}

// FormatCapabilities renders the merged capability set grouped by kind.
func (f *Formatter) FormatCapabilities(caps []*capability.Capability) {
	if f.format == FormatJSON {
		type row struct {
			Name        string `json:"name"`
			Kind        string `json:"kind"`
			Source      string `json:"source"`
			Description string `json:"description"`
		}
		rows := make([]row, 0, len(caps))
		for _, c := range caps {
			rows = append(rows, row{c.Name, string(c.Kind), c.Source, c.Description})
		}
		data, _ := json.MarshalIndent(rows, "", "  ")
		fmt.Fprintln(f.out, string(data))
		return
	}

	table := tablewriter.NewTable(f.out,
		tablewriter.WithHeader([]string{"Name", "Kind", "Source", "Description"}),
	)
	for _, c := range caps {
		table.Append([]string{c.Name, string(c.Kind), c.Source, truncate(c.Description, 60)})
	}
	table.Render()
}

// FormatDecisions renders the route filter verdicts, one per backend route.
func (f *Formatter) FormatDecisions(decisions []routefilter.Decision) {
	if f.format == FormatJSON {
		type row struct {
			Method   string `json:"method"`
			Path     string `json:"path"`
			Admitted bool   `json:"admitted"`
			Reason   string `json:"reason,omitempty"`
		}
		rows := make([]row, 0, len(decisions))
		for _, d := range decisions {
			rows = append(rows, row{d.Route.Method, d.Route.Path, d.Admitted, d.Reason})
		}
		data, _ := json.MarshalIndent(rows, "", "  ")
		fmt.Fprintln(f.out, string(data))
		return
	}

	admitted := 0
	for _, d := range decisions {
		verdict := "BLOCKED"
		if d.Admitted {
			verdict = "ADMITTED"
			admitted++
		}
		if f.color {
			if d.Admitted {
				verdict = color.GreenString(verdict)
			} else {
				verdict = color.RedString(verdict)
			}
		}
		line := fmt.Sprintf("%-8s %-6s %s", verdict, d.Route.Method, d.Route.Path)
		if d.Reason != "" {
			line += "  (" + d.Reason + ")"
		}
		fmt.Fprintln(f.out, line)
	}
	fmt.Fprintf(f.out, "\n%d of %d routes admitted\n", admitted, len(decisions))
}

// FormatSkipped lists capability module files that failed to load.
func (f *Formatter) FormatSkipped(skipped []discovery.SkippedFile) {
	if len(skipped) == 0 {
		return
	}
	if f.format == FormatJSON {
		data, _ := json.MarshalIndent(skipped, "", "  ")
		fmt.Fprintln(f.out, string(data))
		return
	}
	fmt.Fprintf(f.out, "\n%d module file(s) skipped:\n", len(skipped))
	for _, s := range skipped {
		fmt.Fprintf(f.out, "  %s: %s\n", s.Path, s.Reason)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
