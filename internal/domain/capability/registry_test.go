package capability_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mcp-notegate/notegate/internal/domain/capability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(name string) *capability.Capability {
	return &capability.Capability{
		Name: name,
		Kind: capability.KindTool,
		Tool: func(ctx context.Context, args json.RawMessage) (any, error) {
			return string(args), nil
		},
	}
}

func TestRegistry_Register(t *testing.T) {
	reg := capability.NewRegistry()

	require.NoError(t, reg.Register(echoTool("create_note")))
	require.NoError(t, reg.Register(echoTool("get_notes")))

	assert.Equal(t, 2, reg.Len())

	got, ok := reg.Get("create_note", capability.KindTool)
	require.True(t, ok)
	assert.Equal(t, "create_note", got.Name)
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	reg := capability.NewRegistry()

	first := echoTool("create_note")
	require.NoError(t, reg.Register(first))

	err := reg.Register(echoTool("create_note"))
	require.Error(t, err)

	var dup *capability.DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "create_note", dup.Name)
	assert.Equal(t, capability.KindTool, dup.Kind)

	// The first registration survives untouched.
	got, ok := reg.Get("create_note", capability.KindTool)
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_SameNameDifferentKind(t *testing.T) {
	reg := capability.NewRegistry()

	require.NoError(t, reg.Register(echoTool("status")))
	res := capability.NewResource("status://health", "status", "", "application/json",
		func(context.Context) (string, error) { return "{}", nil })
	require.NoError(t, reg.Register(res))

	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_FrozenRejectsRegistration(t *testing.T) {
	reg := capability.NewRegistry()
	require.NoError(t, reg.Register(echoTool("create_note")))

	reg.Freeze()
	assert.True(t, reg.Frozen())

	err := reg.Register(echoTool("get_notes"))
	require.Error(t, err)
	assert.ErrorIs(t, err, capability.ErrFrozen)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_AllSortedByNameThenKind(t *testing.T) {
	reg := capability.NewRegistry()
	for _, name := range []string{"b_tool", "a_tool", "c_tool"} {
		require.NoError(t, reg.Register(echoTool(name)))
	}
	require.NoError(t, reg.Register(capability.NewStaticPrompt("a_tool", "prompt sharing a tool's name", "text")))

	all := reg.All()
	require.Len(t, all, 4)
	assert.Equal(t, "a_tool", all[0].Name)
	assert.Equal(t, capability.KindPrompt, all[0].Kind)
	assert.Equal(t, "a_tool", all[1].Name)
	assert.Equal(t, capability.KindTool, all[1].Kind)
	assert.Equal(t, "b_tool", all[2].Name)
	assert.Equal(t, "c_tool", all[3].Name)
}

func TestRegistry_ValidatesCapability(t *testing.T) {
	reg := capability.NewRegistry()

	assert.Error(t, reg.Register(&capability.Capability{Kind: capability.KindTool}))
	assert.Error(t, reg.Register(&capability.Capability{Name: "x", Kind: "widget"}))
	assert.Error(t, reg.Register(&capability.Capability{Name: "x", Kind: capability.KindTool}))
	assert.Error(t, reg.Register(nil))
	assert.Equal(t, 0, reg.Len())
}

func TestNewTool_DerivesSchemaAndDecodesArgs(t *testing.T) {
	type in struct {
		Title   string `json:"title" jsonschema:"note title"`
		Content string `json:"content,omitempty"`
	}

	cap, err := capability.NewTool("create_note", "Create a note", func(ctx context.Context, args in) (any, error) {
		return args.Title + "/" + args.Content, nil
	})
	require.NoError(t, err)
	require.NotNil(t, cap.InputSchema)
	assert.Equal(t, "object", cap.InputSchema.Type)

	out, err := cap.Tool(context.Background(), json.RawMessage(`{"title":"a","content":"b"}`))
	require.NoError(t, err)
	assert.Equal(t, "a/b", out)

	_, err = cap.Tool(context.Background(), json.RawMessage(`{"title":42}`))
	assert.Error(t, err)
}
