package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
)

// WASMModule executes handler-backed capabilities from a compiled WASI
// module. Each call instantiates the module fresh: the handler name and
// arguments arrive as a JSON envelope on stdin, and the module writes its
// JSON result to stdout before exiting.
type WASMModule struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	name     string
}

// LoadWASMModule reads and compiles a WASM file. Compilation errors are
// import failures for the module's manifest.
func LoadWASMModule(ctx context.Context, path string) (*WASMModule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	r := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	compiled, err := r.CompileModule(ctx, data)
	if err != nil {
		r.Close(ctx)
		return nil, fmt.Errorf("compile wasm module: %w", err)
	}
	return &WASMModule{runtime: r, compiled: compiled, name: path}, nil
}

type wasmEnvelope struct {
	Handler string          `json:"handler"`
	Args    json.RawMessage `json:"args"`
}

// Call runs one handler invocation to completion.
func (m *WASMModule) Call(ctx context.Context, handler string, args json.RawMessage) (json.RawMessage, error) {
	input, err := json.Marshal(wasmEnvelope{Handler: handler, Args: args})
	if err != nil {
		return nil, err
	}

	var stdout bytes.Buffer
	config := wazero.NewModuleConfig().
		WithStdin(bytes.NewReader(input)).
		WithStdout(&stdout).
		WithStderr(io.Discard).
		WithArgs(m.name, handler).
		WithEnv("CAPABILITY_HANDLER", handler)

	mod, err := m.runtime.InstantiateModule(ctx, m.compiled, config)
	if mod != nil {
		defer mod.Close(ctx)
	}
	if err != nil {
		// A WASI command exits via proc_exit; code 0 is a normal return.
		var exitErr *sys.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 0 {
			return nil, fmt.Errorf("wasm handler %s: %w", handler, err)
		}
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return json.RawMessage(`null`), nil
	}
	if !json.Valid(out) {
		return nil, fmt.Errorf("wasm handler %s wrote invalid JSON", handler)
	}
	return json.RawMessage(out), nil
}

// Close releases the runtime and all compiled code.
func (m *WASMModule) Close(ctx context.Context) error {
	return m.runtime.Close(ctx)
}
