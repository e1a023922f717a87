package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcp-notegate/notegate/internal/domain/manifest"
)

func TestToJSONSchema(t *testing.T) {
	in := &manifest.JSONSchema{
		Type: "object",
		Properties: map[string]manifest.PropertySchema{
			"title": {Type: "string", Description: "the title"},
			"status": {
				Type: "string",
				Enum: []string{"todo", "done"},
			},
			"tags": {
				Type:  "array",
				Items: &manifest.PropertySchema{Type: "string"},
			},
		},
		Required: []string{"title"},
	}

	out := toJSONSchema(in)
	require.NotNil(t, out)
	assert.Equal(t, "object", out.Type)
	assert.Equal(t, []string{"title"}, out.Required)
	require.Len(t, out.Properties, 3)

	title := out.Properties["title"]
	require.NotNil(t, title)
	assert.Equal(t, "string", title.Type)
	assert.Equal(t, "the title", title.Description)

	status := out.Properties["status"]
	require.NotNil(t, status)
	assert.Equal(t, []any{"todo", "done"}, status.Enum)

	tags := out.Properties["tags"]
	require.NotNil(t, tags)
	require.NotNil(t, tags.Items)
	assert.Equal(t, "string", tags.Items.Type)
}

func TestToJSONSchema_Nil(t *testing.T) {
	assert.Nil(t, toJSONSchema(nil))
}
