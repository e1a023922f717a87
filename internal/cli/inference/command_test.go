package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"snake case tool name", []string{"create_note", "--args", "{}"}, "call"},
		{"multi segment tool name", []string{"get_notes_by_category"}, "call"},
		{"plain subcommand", []string{"serve"}, ""},
		{"single word", []string{"status"}, ""},
		{"flag first", []string{"--help"}, ""},
		{"empty", nil, ""},
		{"uppercase", []string{"Create_Note"}, ""},
		{"leading underscore", []string{"_private"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, rest := InferCommand(tt.args)
			assert.Equal(t, tt.expected, cmd)
			if len(tt.args) > 0 {
				assert.Equal(t, tt.args, rest)
			}
		})
	}
}
