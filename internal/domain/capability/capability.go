package capability

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Kind classifies what a capability is exposed as.
type Kind string

const (
	KindTool     Kind = "tool"
	KindResource Kind = "resource"
	KindPrompt   Kind = "prompt"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindTool, KindResource, KindPrompt:
		return true
	}
	return false
}

// ToolFunc executes a tool capability. Arguments arrive as the raw JSON
// object from the caller; the returned value is serialized into the result.
type ToolFunc func(ctx context.Context, args json.RawMessage) (any, error)

// ResourceFunc produces the current content of a resource capability.
type ResourceFunc func(ctx context.Context) (string, error)

// PromptFunc renders a prompt capability with the caller's arguments.
type PromptFunc func(ctx context.Context, args map[string]string) (string, error)

// PromptArgument describes one named argument a prompt accepts.
type PromptArgument struct {
	Name        string
	Description string
	Required    bool
}

// Capability is one named, invocable unit exposed to callers.
// Exactly one of Tool, Resource, or Prompt is set, matching Kind.
type Capability struct {
	Name        string
	Kind        Kind
	Description string

	// Source records where the capability came from (a builtin module name
	// or the file path of a scanned module). Used for logging only.
	Source string

	// InputSchema declares the accepted arguments for tool capabilities.
	InputSchema *jsonschema.Schema
	// OutputSchema optionally declares the shape of a tool's result.
	OutputSchema *jsonschema.Schema

	Tool ToolFunc

	// URI and MIMEType apply to resource capabilities. For resources the
	// Name is the URI's registered display name; URI is the identity used
	// by callers.
	URI      string
	MIMEType string
	Resource ResourceFunc

	Prompt     PromptFunc
	PromptArgs []PromptArgument
}

func (c *Capability) validate() error {
	if c.Name == "" {
		return fmt.Errorf("capability has no name")
	}
	if !c.Kind.Valid() {
		return fmt.Errorf("capability %q has unknown kind %q", c.Name, c.Kind)
	}
	switch c.Kind {
	case KindTool:
		if c.Tool == nil {
			return fmt.Errorf("tool capability %q has no handler", c.Name)
		}
	case KindResource:
		if c.Resource == nil {
			return fmt.Errorf("resource capability %q has no handler", c.Name)
		}
		if c.URI == "" {
			return fmt.Errorf("resource capability %q has no URI", c.Name)
		}
	case KindPrompt:
		if c.Prompt == nil {
			return fmt.Errorf("prompt capability %q has no handler", c.Name)
		}
	}
	return nil
}

// NewTool builds a tool capability whose input schema is derived from the
// argument struct's fields and jsonschema tags.
func NewTool[In any](name, description string, fn func(ctx context.Context, in In) (any, error)) (*Capability, error) {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		return nil, fmt.Errorf("derive input schema for tool %s: %w", name, err)
	}
	return &Capability{
		Name:        name,
		Kind:        KindTool,
		Description: description,
		InputSchema: schema,
		Tool: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in In
			if len(args) > 0 {
				if err := json.Unmarshal(args, &in); err != nil {
					return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
				}
			}
			return fn(ctx, in)
		},
	}, nil
}

// NewResource builds a resource capability served from fn.
func NewResource(uri, name, description, mimeType string, fn ResourceFunc) *Capability {
	return &Capability{
		Name:        name,
		Kind:        KindResource,
		Description: description,
		URI:         uri,
		MIMEType:    mimeType,
		Resource:    fn,
	}
}

// NewStaticPrompt builds a prompt capability that always renders the same text.
func NewStaticPrompt(name, description, text string) *Capability {
	return &Capability{
		Name:        name,
		Kind:        KindPrompt,
		Description: description,
		Prompt: func(context.Context, map[string]string) (string, error) {
			return text, nil
		},
	}
}
