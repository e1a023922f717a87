package discovery

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/mcp-notegate/notegate/internal/domain/manifest"
)

// toJSONSchema converts a manifest's declared input schema into the wire
// schema the MCP server advertises. A nil manifest schema maps to nil so
// the server falls back to its default.
func toJSONSchema(in *manifest.JSONSchema) *jsonschema.Schema {
	if in == nil {
		return nil
	}
	out := &jsonschema.Schema{
		Type:     in.Type,
		Required: in.Required,
	}
	if len(in.Properties) > 0 {
		out.Properties = make(map[string]*jsonschema.Schema, len(in.Properties))
		for name, prop := range in.Properties {
			p := prop
			out.Properties[name] = propertySchema(&p)
		}
	}
	return out
}

func propertySchema(in *manifest.PropertySchema) *jsonschema.Schema {
	if in == nil {
		return nil
	}
	out := &jsonschema.Schema{
		Type:        in.Type,
		Description: in.Description,
	}
	for _, v := range in.Enum {
		out.Enum = append(out.Enum, v)
	}
	if in.Items != nil {
		out.Items = propertySchema(in.Items)
	}
	return out
}
