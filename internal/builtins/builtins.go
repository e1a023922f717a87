// Package builtins wires the built-in capability modules into a registry.
// Each module package exposes a Register function; the gateway runs them in
// order during its build phase.
package builtins

import (
	"github.com/mcp-notegate/notegate/internal/builtins/ai"
	"github.com/mcp-notegate/notegate/internal/builtins/categories"
	"github.com/mcp-notegate/notegate/internal/builtins/notes"
	"github.com/mcp-notegate/notegate/internal/builtins/productivity"
	"github.com/mcp-notegate/notegate/internal/builtins/prompts"
	"github.com/mcp-notegate/notegate/internal/builtins/resources"
	"github.com/mcp-notegate/notegate/internal/builtins/tasks"
	"github.com/mcp-notegate/notegate/internal/domain/capability"
	"github.com/mcp-notegate/notegate/internal/upstream"
)

// RegisterFunc adds one module's capabilities to the registry.
type RegisterFunc func(*capability.Registry, *upstream.Client) error

// Registrars lists the built-in modules in registration order.
func Registrars() []RegisterFunc {
	return []RegisterFunc{
		notes.Register,
		tasks.Register,
		categories.Register,
		ai.Register,
		productivity.Register,
		resources.Register,
		prompts.Register,
	}
}

// RegisterAll runs every built-in registrar. The first failure stops
// registration; a broken builtin is a programming error, not a skippable
// module.
func RegisterAll(reg *capability.Registry, client *upstream.Client) error {
	for _, register := range Registrars() {
		if err := register(reg, client); err != nil {
			return err
		}
	}
	return nil
}
