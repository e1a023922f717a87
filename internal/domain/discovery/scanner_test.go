package discovery

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcp-notegate/notegate/internal/domain/capability"
	"github.com/mcp-notegate/notegate/internal/domain/manifest"
)

type fakeCaller struct {
	method string
	path   string
	body   any
	query  url.Values
	result json.RawMessage
}

func (f *fakeCaller) Do(_ context.Context, method, path, _ string, body any, query url.Values) (json.RawMessage, error) {
	f.method, f.path, f.body, f.query = method, path, body, query
	if f.result == nil {
		return json.RawMessage(`{}`), nil
	}
	return f.result, nil
}

const validManifest = `{
  "name": "notes-extras",
  "version": "1.0.0",
  "description": "Extra tools for the notes application",
  "tools": [{
    "name": "get_note_by_id",
    "description": "Fetch a single note by its identifier",
    "inputSchema": {
      "type": "object",
      "properties": {"note_id": {"type": "string"}},
      "required": ["note_id"]
    },
    "call": {"method": "GET", "path": "/api/v1/notes/{note_id}", "pathParams": ["note_id"]}
  }],
  "resources": [{
    "uri": "guide://extras",
    "name": "Extras Guide",
    "mimeType": "text/markdown",
    "text": "Use get_note_by_id with a note id."
  }],
  "prompts": [{
    "name": "note_lookup",
    "text": "Find the note about {topic} and summarize it.",
    "arguments": [{"name": "topic", "required": true}]
  }]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScan_LoadsValidModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "extras.json", validManifest)

	s := NewScanner(&fakeCaller{}, nil)
	result, err := s.Scan(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.Empty(t, result.Skipped)
	require.Len(t, result.Capabilities, 3)

	byKind := map[capability.Kind]*capability.Capability{}
	for _, c := range result.Capabilities {
		byKind[c.Kind] = c
	}
	assert.Equal(t, "get_note_by_id", byKind[capability.KindTool].Name)
	require.NotNil(t, byKind[capability.KindTool].InputSchema)
	assert.Equal(t, "object", byKind[capability.KindTool].InputSchema.Type)
	assert.Equal(t, "guide://extras", byKind[capability.KindResource].URI)
	assert.Equal(t, "note_lookup", byKind[capability.KindPrompt].Name)
}

func TestScan_BrokenFileSkippedOthersSurvive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", "{not valid json")
	writeFile(t, dir, "extras.json", validManifest)
	writeFile(t, dir, "invalid.json", `{"name": "x"}`)
	writeFile(t, dir, "notes.txt", "not a manifest at all")

	s := NewScanner(&fakeCaller{}, nil)
	result, err := s.Scan(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.Len(t, result.Capabilities, 3)
	require.Len(t, result.Skipped, 2)
	assert.Contains(t, result.Skipped[0].Path, "broken.json")
	assert.Contains(t, result.Skipped[1].Path, "invalid.json")
}

func TestScan_MissingDirectorySkipped(t *testing.T) {
	s := NewScanner(&fakeCaller{}, nil)
	result, err := s.Scan(context.Background(), []string{"/does/not/exist"})
	require.NoError(t, err)
	assert.Empty(t, result.Capabilities)
}

func TestScan_DirectoryOrderPreserved(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, first, "a.json", `{
  "name": "module-a", "version": "1.0.0",
  "description": "First module in scan order",
  "prompts": [{"name": "prompt_a", "text": "A"}]
}`)
	writeFile(t, second, "b.json", `{
  "name": "module-b", "version": "1.0.0",
  "description": "Second module in scan order",
  "prompts": [{"name": "prompt_b", "text": "B"}]
}`)

	s := NewScanner(nil, nil)
	result, err := s.Scan(context.Background(), []string{second, first})
	require.NoError(t, err)
	require.Len(t, result.Capabilities, 2)
	assert.Equal(t, "prompt_b", result.Capabilities[0].Name)
	assert.Equal(t, "prompt_a", result.Capabilities[1].Name)
}

func TestCallTemplate_SubstitutesPathQueryAndBody(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tasks.json", `{
  "name": "tasks-extras",
  "version": "1.0.0",
  "description": "Task tools exercising the call template",
  "tools": [{
    "name": "update_task_status",
    "description": "Update the status of one task",
    "inputSchema": {"type": "object"},
    "call": {
      "method": "PUT",
      "path": "/api/v1/tasks/{task_id}",
      "pathParams": ["task_id"],
      "queryParams": ["notify"]
    }
  }]
}`)

	caller := &fakeCaller{result: json.RawMessage(`{"id": "t1", "status": "done"}`)}
	s := NewScanner(caller, nil)
	result, err := s.Scan(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Len(t, result.Capabilities, 1)

	tool := result.Capabilities[0]
	out, err := tool.Tool(context.Background(), json.RawMessage(`{"task_id": "t1", "notify": true, "status": "done"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "t1", "status": "done"}`, string(out.(json.RawMessage)))

	assert.Equal(t, "PUT", caller.method)
	assert.Equal(t, "/api/v1/tasks/t1", caller.path)
	assert.Equal(t, "true", caller.query.Get("notify"))
	assert.Equal(t, map[string]any{"status": "done"}, caller.body)
}

func TestCallTemplate_MissingPathParam(t *testing.T) {
	s := NewScanner(&fakeCaller{}, nil)
	fn := s.callFunc("get_note_by_id", &manifest.HTTPCall{
		Method:     "GET",
		Path:       "/api/v1/notes/{note_id}",
		PathParams: []string{"note_id"},
	})

	_, err := fn(context.Background(), json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "note_id")
}

func TestPromptRendering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prompts.json", validManifest)

	s := NewScanner(&fakeCaller{}, nil)
	result, err := s.Scan(context.Background(), []string{dir})
	require.NoError(t, err)

	var prompt *capability.Capability
	for _, c := range result.Capabilities {
		if c.Kind == capability.KindPrompt {
			prompt = c
		}
	}
	require.NotNil(t, prompt)

	text, err := prompt.Prompt(context.Background(), map[string]string{"topic": "grocery lists"})
	require.NoError(t, err)
	assert.Equal(t, "Find the note about grocery lists and summarize it.", text)

	_, err = prompt.Prompt(context.Background(), nil)
	assert.Error(t, err, "required argument missing")
}

func TestJSModuleHandlers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.js", `
function word_count(args) {
  return { words: args.text.split(/\s+/).filter(Boolean).length };
}
function usage_notes() {
  return "Pass text to word_count.";
}
`)
	writeFile(t, dir, "wordcount.json", `{
  "name": "word-count",
  "version": "1.0.0",
  "description": "Counts words in note content locally",
  "runtime": {"type": "js", "module": "lib.js"},
  "tools": [{
    "name": "word_count",
    "description": "Count the words in a piece of text",
    "inputSchema": {"type": "object", "properties": {"text": {"type": "string"}}},
    "handler": "word_count"
  }],
  "resources": [{
    "uri": "guide://word-count",
    "name": "Word Count Guide",
    "handler": "usage_notes"
  }]
}`)

	s := NewScanner(nil, nil)
	result, err := s.Scan(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Empty(t, result.Skipped)
	require.Len(t, result.Capabilities, 2)

	tool := result.Capabilities[0]
	out, err := tool.Tool(context.Background(), json.RawMessage(`{"text": "buy milk and eggs"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"words": 4}`, string(out.(json.RawMessage)))

	res := result.Capabilities[1]
	text, err := res.Resource(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Pass text to word_count.", text)
}

func TestJSModule_SyntaxErrorSkipsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.js", `function broken( {`)
	writeFile(t, dir, "mod.json", `{
  "name": "broken-js",
  "version": "1.0.0",
  "description": "Module whose script does not compile",
  "runtime": {"type": "js", "module": "lib.js"},
  "tools": [{
    "name": "never_loads",
    "description": "This handler never becomes callable",
    "inputSchema": {"type": "object"},
    "handler": "broken"
  }]
}`)

	s := NewScanner(nil, nil)
	result, err := s.Scan(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Empty(t, result.Capabilities)
	require.Len(t, result.Skipped, 1)
}
