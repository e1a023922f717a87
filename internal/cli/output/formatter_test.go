package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/mcp-notegate/notegate/internal/cli/errors"
	"github.com/mcp-notegate/notegate/internal/domain/capability"
	"github.com/mcp-notegate/notegate/internal/domain/discovery"
	"github.com/mcp-notegate/notegate/internal/domain/routefilter"
)

func TestFormatCapabilities_Table(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, FormatText, false)

	f.FormatCapabilities([]*capability.Capability{
		{Name: "create_note", Kind: capability.KindTool, Source: "builtin/notes", Description: "Create a new note"},
		{Name: "note-assistant", Kind: capability.KindPrompt, Source: "builtin/prompts", Description: "Help with notes"},
	})

	out := buf.String()
	assert.Contains(t, out, "create_note")
	assert.Contains(t, out, "builtin/notes")
	assert.Contains(t, out, "note-assistant")
	assert.Contains(t, out, "prompt")
}

func TestFormatCapabilities_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, FormatJSON, false)

	f.FormatCapabilities([]*capability.Capability{
		{Name: "get_tasks", Kind: capability.KindTool, Source: "builtin/tasks"},
	})

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "get_tasks", rows[0]["name"])
	assert.Equal(t, "tool", rows[0]["kind"])
}

func TestFormatDecisions_Text(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, FormatText, false)

	f.FormatDecisions([]routefilter.Decision{
		{Route: routefilter.RouteDescriptor{Method: "GET", Path: "/api/v1/notes/"}, Admitted: true},
		{Route: routefilter.RouteDescriptor{Method: "GET", Path: "/api/v1/users/me"}, Reason: "path matches blocked pattern /users"},
	})

	out := buf.String()
	assert.Contains(t, out, "ADMITTED")
	assert.Contains(t, out, "BLOCKED")
	assert.Contains(t, out, "path matches blocked pattern /users")
	assert.Contains(t, out, "1 of 2 routes admitted")
}

func TestFormatError_TextWithHint(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, FormatText, false)

	f.FormatError(clierrors.ClassifiedError{
		Kind:    clierrors.ErrorKindOffline,
		Message: "upstream application unavailable",
		Hint:    "Is the backend running?",
	})

	out := buf.String()
	assert.Contains(t, out, "Error [offline]: upstream application unavailable")
	assert.Contains(t, out, "Hint: Is the backend running?")
}

func TestFormatSkipped(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, FormatText, false)

	f.FormatSkipped([]discovery.SkippedFile{
		{Path: "capabilities/broken.json", Reason: "parse manifest: unexpected end of JSON input"},
	})

	out := buf.String()
	assert.Contains(t, out, "1 module file(s) skipped")
	assert.Contains(t, out, "capabilities/broken.json")

	buf.Reset()
	f.FormatSkipped(nil)
	assert.Empty(t, buf.String())
}
