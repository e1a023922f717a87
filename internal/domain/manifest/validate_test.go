package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMinimalModule() *Module {
	return &Module{
		Name:        "notes-extras",
		Version:     "1.0.0",
		Title:       "Notes Extras",
		Description: "Extra tools for the notes application",
		Tools: []ToolDef{
			{
				Name:        "list_archived_notes",
				Description: "List notes that have been archived",
				InputSchema: &JSONSchema{
					Type:       "object",
					Properties: map[string]PropertySchema{},
				},
				Call: &HTTPCall{Method: "GET", Path: "/api/v1/notes/"},
			},
		},
	}
}

func TestValidate_ValidModule(t *testing.T) {
	result := Validate(createMinimalModule())
	assert.True(t, result.Valid, "Expected valid module, got errors: %v", result.Errors)
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	result := Validate(&Module{})
	assert.False(t, result.Valid)
	assert.True(t, len(result.Errors) > 0)
}

func TestValidate_InvalidName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"valid lowercase", "my-module", true},
		{"valid with numbers", "module123", true},
		{"invalid uppercase", "MyModule", false},
		{"invalid starts with number", "123module", false},
		{"invalid underscores", "my_module", false},
		{"too short", "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := createMinimalModule()
			mod.Name = tt.input

			result := Validate(mod)
			hasNameError := false
			for _, e := range result.Errors {
				if e.Field == "name" {
					hasNameError = true
					break
				}
			}
			if tt.expected {
				assert.False(t, hasNameError, "Expected no name error for %q", tt.input)
			} else {
				assert.True(t, hasNameError, "Expected name error for %q", tt.input)
			}
		})
	}
}

func TestValidate_InvalidVersion(t *testing.T) {
	mod := createMinimalModule()
	mod.Version = "not-a-version"

	result := Validate(mod)
	assert.False(t, result.Valid)
}

func TestValidate_ToolNameMustBeSnakeCase(t *testing.T) {
	mod := createMinimalModule()
	mod.Tools[0].Name = "ListNotes"

	result := Validate(mod)
	assert.False(t, result.Valid)
}

func TestValidate_DuplicateToolNames(t *testing.T) {
	mod := createMinimalModule()
	mod.Tools = append(mod.Tools, mod.Tools[0])

	result := Validate(mod)
	assert.False(t, result.Valid)
}

func TestValidate_InputSchemaMustBeObject(t *testing.T) {
	mod := createMinimalModule()
	mod.Tools[0].InputSchema = &JSONSchema{Type: "string"}

	result := Validate(mod)
	assert.False(t, result.Valid)
}

func TestValidate_ToolNeedsCallOrHandler(t *testing.T) {
	mod := createMinimalModule()
	mod.Tools[0].Call = nil

	result := Validate(mod)
	assert.False(t, result.Valid)
}

func TestValidate_HandlerRequiresRuntime(t *testing.T) {
	mod := createMinimalModule()
	mod.Tools[0].Call = nil
	mod.Tools[0].Handler = "list_archived"

	result := Validate(mod)
	assert.False(t, result.Valid)

	mod.Runtime = &Runtime{Type: RuntimeWASM, Module: "extras.wasm"}
	result = Validate(mod)
	assert.True(t, result.Valid, "errors: %v", result.Errors)
}

func TestValidate_CallPathParams(t *testing.T) {
	mod := createMinimalModule()
	mod.Tools[0].Call = &HTTPCall{
		Method:     "GET",
		Path:       "/api/v1/notes/{note_id}",
		PathParams: []string{"note_id"},
	}
	assert.True(t, Validate(mod).Valid)

	mod.Tools[0].Call.PathParams = []string{"task_id"}
	assert.False(t, Validate(mod).Valid)
}

func TestValidate_RuntimeModulePath(t *testing.T) {
	mod := createMinimalModule()
	mod.Runtime = &Runtime{Type: RuntimeJS, Module: "../outside.js"}

	result := Validate(mod)
	assert.False(t, result.Valid)
}

func TestValidate_Resources(t *testing.T) {
	mod := createMinimalModule()
	mod.Resources = []ResourceDef{
		{URI: "guide://extras", Name: "Extras Guide", Text: "Use the extra tools."},
	}
	assert.True(t, Validate(mod).Valid)

	mod.Resources = append(mod.Resources, ResourceDef{URI: "guide://extras", Name: "Dup", Text: "x"})
	assert.False(t, Validate(mod).Valid)

	mod.Resources = []ResourceDef{{URI: "no-scheme", Name: "Bad", Text: "x"}}
	assert.False(t, Validate(mod).Valid)

	mod.Resources = []ResourceDef{{URI: "guide://empty", Name: "Empty"}}
	assert.False(t, Validate(mod).Valid)
}

func TestValidate_Prompts(t *testing.T) {
	mod := createMinimalModule()
	mod.Prompts = []PromptDef{
		{Name: "summarize_notes", Description: "Summarize", Text: "Summarize my notes."},
	}
	assert.True(t, Validate(mod).Valid)

	mod.Prompts[0].Text = ""
	assert.False(t, Validate(mod).Valid)
}

func TestLoad_JSONAndTOML(t *testing.T) {
	dir := t.TempDir()

	jsonManifest := `{
  "name": "notes-extras",
  "version": "1.0.0",
  "description": "Extra tools for the notes application",
  "tools": [{
    "name": "list_archived_notes",
    "description": "List notes that have been archived",
    "inputSchema": {"type": "object"},
    "call": {"method": "GET", "path": "/api/v1/notes/"}
  }]
}`
	jsonPath := filepath.Join(dir, "extras.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(jsonManifest), 0o644))

	tomlManifest := `name = "notes-prompts"
version = "1.0.0"
description = "Prompt templates for the notes application"

[[prompts]]
name = "daily_review"
text = "Review today's notes and tasks."
`
	tomlPath := filepath.Join(dir, "prompts.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(tomlManifest), 0o644))

	mod, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "notes-extras", mod.Name)
	require.Len(t, mod.Tools, 1)
	assert.Equal(t, "GET", mod.Tools[0].Call.Method)

	mod, err = Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, "notes-prompts", mod.Name)
	require.Len(t, mod.Prompts, 1)
	assert.True(t, Validate(mod).Valid)
}

func TestValidateFile_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	result, err := ValidateFile(path)
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.json"), []byte(`{
  "name": "good-module",
  "version": "1.0.0",
  "description": "A valid module used in directory validation",
  "prompts": [{"name": "hello", "text": "Say hello."}]
}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("nope"), 0o644))

	results, err := ValidateDirectory(dir)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results["good.json"].Valid)
	assert.False(t, results["bad.json"].Valid)
}
