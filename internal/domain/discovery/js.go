package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dop251/goja"
)

// JSModule executes handler-backed capabilities from a JavaScript file. The
// script declares plain functions; a handler reference in the manifest names
// one of them. Each call runs on a fresh VM, so scripts cannot leak state
// between invocations.
type JSModule struct {
	program *goja.Program
	name    string
}

// LoadJSModule reads and compiles a JS file. Syntax errors are import
// failures for the module's manifest.
func LoadJSModule(path string) (*JSModule, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	program, err := goja.Compile(path, string(src), true)
	if err != nil {
		return nil, fmt.Errorf("compile js module: %w", err)
	}
	return &JSModule{program: program, name: path}, nil
}

// Call evaluates the script and invokes the named function with the decoded
// arguments. The function's return value is serialized back to JSON.
func (m *JSModule) Call(ctx context.Context, handler string, args json.RawMessage) (json.RawMessage, error) {
	vm := goja.New()
	vm.Set("log", func(goja.Value) {}) // scripts may log; the host discards it

	if _, err := vm.RunProgram(m.program); err != nil {
		return nil, fmt.Errorf("js module %s: %w", m.name, err)
	}

	fn, ok := goja.AssertFunction(vm.Get(handler))
	if !ok {
		return nil, fmt.Errorf("js module %s declares no function %q", m.name, handler)
	}

	var decoded any
	if len(args) > 0 {
		if err := json.Unmarshal(args, &decoded); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", handler, err)
		}
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()
	defer close(done)

	value, err := fn(goja.Undefined(), vm.ToValue(decoded))
	if err != nil {
		return nil, fmt.Errorf("js handler %s: %w", handler, err)
	}

	out, err := json.Marshal(value.Export())
	if err != nil {
		return nil, fmt.Errorf("js handler %s returned unserializable value: %w", handler, err)
	}
	return out, nil
}

// Close is a no-op; compiled programs hold no external resources.
func (m *JSModule) Close(context.Context) error { return nil }
