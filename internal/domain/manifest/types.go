// Package manifest provides types and validation for capability module
// manifests. A manifest is a .json or .toml file that declares the tools,
// resources, and prompts a module contributes to the gateway.
package manifest

// Module represents a complete capability module definition.
type Module struct {
	Schema      string `json:"$schema,omitempty" toml:"schema,omitempty"`
	Name        string `json:"name" toml:"name"`
	Version     string `json:"version" toml:"version"`
	Title       string `json:"title" toml:"title"`
	Description string `json:"description" toml:"description"`

	Tools     []ToolDef     `json:"tools,omitempty" toml:"tools,omitempty"`
	Resources []ResourceDef `json:"resources,omitempty" toml:"resources,omitempty"`
	Prompts   []PromptDef   `json:"prompts,omitempty" toml:"prompts,omitempty"`

	Runtime  *Runtime  `json:"runtime,omitempty" toml:"runtime,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty" toml:"metadata,omitempty"`
}

// ToolDef declares a single tool. A tool invokes either an upstream HTTP
// call template or an exported function of the module's runtime; exactly
// one of Call and Handler must be set.
type ToolDef struct {
	Name        string      `json:"name" toml:"name"`
	Title       string      `json:"title,omitempty" toml:"title,omitempty"`
	Description string      `json:"description" toml:"description"`
	InputSchema *JSONSchema `json:"inputSchema" toml:"input_schema"`

	Call    *HTTPCall `json:"call,omitempty" toml:"call,omitempty"`
	Handler string    `json:"handler,omitempty" toml:"handler,omitempty"`

	Annotations *ToolAnnotations `json:"annotations,omitempty" toml:"annotations,omitempty"`
}

// HTTPCall is an upstream HTTP call template. Arguments named in
// PathParams substitute into {placeholders} in Path, arguments named in
// QueryParams become query string values, and everything else goes into
// the JSON body for write methods.
type HTTPCall struct {
	Method      string   `json:"method" toml:"method"`
	Path        string   `json:"path" toml:"path"`
	PathParams  []string `json:"pathParams,omitempty" toml:"path_params,omitempty"`
	QueryParams []string `json:"queryParams,omitempty" toml:"query_params,omitempty"`
}

// ResourceDef declares a readable resource. Static resources carry their
// content in Text; dynamic resources name a runtime Handler instead.
type ResourceDef struct {
	URI         string `json:"uri" toml:"uri"`
	Name        string `json:"name" toml:"name"`
	Description string `json:"description,omitempty" toml:"description,omitempty"`
	MIMEType    string `json:"mimeType,omitempty" toml:"mime_type,omitempty"`
	Text        string `json:"text,omitempty" toml:"text,omitempty"`
	Handler     string `json:"handler,omitempty" toml:"handler,omitempty"`
}

// PromptDef declares a prompt template.
type PromptDef struct {
	Name        string      `json:"name" toml:"name"`
	Description string      `json:"description,omitempty" toml:"description,omitempty"`
	Text        string      `json:"text" toml:"text"`
	Arguments   []PromptArg `json:"arguments,omitempty" toml:"arguments,omitempty"`
}

// PromptArg describes a named argument a prompt accepts.
type PromptArg struct {
	Name        string `json:"name" toml:"name"`
	Description string `json:"description,omitempty" toml:"description,omitempty"`
	Required    bool   `json:"required,omitempty" toml:"required,omitempty"`
}

// RuntimeType defines how handler-backed capabilities execute.
type RuntimeType string

const (
	RuntimeWASM RuntimeType = "wasm"
	RuntimeJS   RuntimeType = "js"
)

// Runtime names the executable module that backs handler references. The
// path is relative to the manifest's directory.
type Runtime struct {
	Type   RuntimeType `json:"type" toml:"type"`
	Module string      `json:"module" toml:"module"`
	SHA256 string      `json:"sha256,omitempty" toml:"sha256,omitempty"`
}

// JSONSchema represents a JSON Schema for tool input.
type JSONSchema struct {
	Type       string                    `json:"type" toml:"type"`
	Properties map[string]PropertySchema `json:"properties,omitempty" toml:"properties,omitempty"`
	Required   []string                  `json:"required,omitempty" toml:"required,omitempty"`
}

// PropertySchema defines a single property in a JSON Schema.
type PropertySchema struct {
	Type        string          `json:"type,omitempty" toml:"type,omitempty"`
	Description string          `json:"description,omitempty" toml:"description,omitempty"`
	Default     any             `json:"default,omitempty" toml:"default,omitempty"`
	Enum        []string        `json:"enum,omitempty" toml:"enum,omitempty"`
	Minimum     *int            `json:"minimum,omitempty" toml:"minimum,omitempty"`
	Maximum     *int            `json:"maximum,omitempty" toml:"maximum,omitempty"`
	Items       *PropertySchema `json:"items,omitempty" toml:"items,omitempty"`
}

// ToolAnnotations provides hints about tool behavior.
type ToolAnnotations struct {
	ReadOnlyHint    bool `json:"readOnlyHint,omitempty" toml:"read_only_hint,omitempty"`
	DestructiveHint bool `json:"destructiveHint,omitempty" toml:"destructive_hint,omitempty"`
	IdempotentHint  bool `json:"idempotentHint,omitempty" toml:"idempotent_hint,omitempty"`
}

// Metadata provides attribution information.
type Metadata struct {
	Author     string `json:"author,omitempty" toml:"author,omitempty"`
	License    string `json:"license,omitempty" toml:"license,omitempty"`
	Homepage   string `json:"homepage,omitempty" toml:"homepage,omitempty"`
	Repository string `json:"repository,omitempty" toml:"repository,omitempty"`
}
