// Package discovery scans directories for capability modules and turns
// their manifests into registrable capabilities. A module directory holds a
// .json or .toml manifest, optionally next to the wasm or js file that
// implements its handlers. Files that fail to load are skipped and logged;
// one broken module never blocks the rest of a scan.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mcp-notegate/notegate/internal/domain/capability"
	"github.com/mcp-notegate/notegate/internal/domain/manifest"
	"github.com/mcp-notegate/notegate/internal/upstream"
)

// Caller makes authenticated backend calls on behalf of manifest tools
// that declare an HTTP call template. *upstream.Client satisfies it.
type Caller interface {
	Do(ctx context.Context, method, path, callerToken string, body any, query url.Values) (json.RawMessage, error)
}

// engine runs handler-backed capabilities. WASMModule and JSModule satisfy it.
type engine interface {
	Call(ctx context.Context, handler string, args json.RawMessage) (json.RawMessage, error)
	Close(ctx context.Context) error
}

// SkippedFile records one module file that failed to import.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Result is the outcome of one scan pass.
type Result struct {
	Capabilities []*capability.Capability
	Skipped      []SkippedFile
}

// Scanner walks module directories and loads their manifests.
type Scanner struct {
	caller Caller
	log    *zap.Logger
}

func NewScanner(caller Caller, log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{caller: caller, log: log}
}

// Scan loads every manifest under dirs, in directory order then lexical
// file order within each directory. A missing directory or a broken file is
// skipped with a log line; the scan itself only fails on a walk error.
func (s *Scanner) Scan(ctx context.Context, dirs []string) (*Result, error) {
	result := &Result{}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			s.log.Warn("skipping module directory", zap.String("dir", dir), zap.Error(err))
			continue
		}

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".json" && ext != ".toml" {
				return nil
			}

			caps, err := s.loadModule(ctx, path)
			if err != nil {
				s.log.Warn("skipping module", zap.String("file", path), zap.Error(err))
				result.Skipped = append(result.Skipped, SkippedFile{Path: path, Reason: err.Error()})
				return nil
			}
			result.Capabilities = append(result.Capabilities, caps...)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
	}
	return result, nil
}

// loadModule parses, validates, and converts one manifest file. Any error
// here makes the whole file an import failure.
func (s *Scanner) loadModule(ctx context.Context, path string) ([]*capability.Capability, error) {
	mod, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	if err := manifest.Validate(mod).Err(); err != nil {
		return nil, err
	}

	var eng engine
	if mod.Runtime != nil {
		modulePath := filepath.Join(filepath.Dir(path), mod.Runtime.Module)
		switch mod.Runtime.Type {
		case manifest.RuntimeWASM:
			eng, err = LoadWASMModule(ctx, modulePath)
		case manifest.RuntimeJS:
			eng, err = LoadJSModule(modulePath)
		}
		if err != nil {
			return nil, err
		}
	}

	caps := make([]*capability.Capability, 0, len(mod.Tools)+len(mod.Resources)+len(mod.Prompts))

	for _, tool := range mod.Tools {
		fn, err := s.toolFunc(mod, tool, eng)
		if err != nil {
			return nil, err
		}
		caps = append(caps, &capability.Capability{
			Name:        tool.Name,
			Kind:        capability.KindTool,
			Description: tool.Description,
			Source:      path,
			InputSchema: toJSONSchema(tool.InputSchema),
			Tool:        fn,
		})
	}

	for _, res := range mod.Resources {
		caps = append(caps, &capability.Capability{
			Name:        res.Name,
			Kind:        capability.KindResource,
			Description: res.Description,
			Source:      path,
			URI:         res.URI,
			MIMEType:    res.MIMEType,
			Resource:    resourceFunc(res, eng),
		})
	}

	for _, prompt := range mod.Prompts {
		args := make([]capability.PromptArgument, len(prompt.Arguments))
		for i, a := range prompt.Arguments {
			args[i] = capability.PromptArgument{Name: a.Name, Description: a.Description, Required: a.Required}
		}
		caps = append(caps, &capability.Capability{
			Name:        prompt.Name,
			Kind:        capability.KindPrompt,
			Description: prompt.Description,
			Source:      path,
			Prompt:      promptFunc(prompt),
			PromptArgs:  args,
		})
	}

	return caps, nil
}

func (s *Scanner) toolFunc(mod *manifest.Module, tool manifest.ToolDef, eng engine) (capability.ToolFunc, error) {
	if tool.Handler != "" {
		handler := tool.Handler
		return func(ctx context.Context, args json.RawMessage) (any, error) {
			return eng.Call(ctx, handler, args)
		}, nil
	}
	if s.caller == nil {
		return nil, fmt.Errorf("tool %s needs a backend call but no client is configured", tool.Name)
	}
	return s.callFunc(tool.Name, tool.Call), nil
}

// callFunc binds an HTTP call template to the backend client. Path params
// substitute into placeholders, query params move to the query string, and
// remaining arguments form the JSON body for write methods.
func (s *Scanner) callFunc(name string, call *manifest.HTTPCall) capability.ToolFunc {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		args := map[string]any{}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
			}
		}

		path := call.Path
		for _, p := range call.PathParams {
			v, ok := args[p]
			if !ok {
				return nil, fmt.Errorf("%s: missing required argument %q", name, p)
			}
			path = strings.ReplaceAll(path, "{"+p+"}", fmt.Sprint(v))
			delete(args, p)
		}

		query := url.Values{}
		for _, q := range call.QueryParams {
			if v, ok := args[q]; ok {
				query.Set(q, fmt.Sprint(v))
				delete(args, q)
			}
		}

		var body any
		method := strings.ToUpper(call.Method)
		if method != http.MethodGet && method != http.MethodDelete && len(args) > 0 {
			body = args
		}

		return s.caller.Do(ctx, method, path, upstream.CallerTokenFrom(ctx), body, query)
	}
}

func resourceFunc(res manifest.ResourceDef, eng engine) capability.ResourceFunc {
	if res.Text != "" {
		text := res.Text
		return func(context.Context) (string, error) { return text, nil }
	}
	handler := res.Handler
	return func(ctx context.Context) (string, error) {
		out, err := eng.Call(ctx, handler, nil)
		if err != nil {
			return "", err
		}
		// Handlers may return a JSON string or any other JSON value; a
		// string unwraps, anything else passes through as raw JSON.
		var s string
		if err := json.Unmarshal(out, &s); err == nil {
			return s, nil
		}
		return string(out), nil
	}
}

// promptFunc renders the template text, substituting {name} placeholders
// with caller-provided argument values.
func promptFunc(prompt manifest.PromptDef) capability.PromptFunc {
	text := prompt.Text
	required := make([]string, 0)
	for _, a := range prompt.Arguments {
		if a.Required {
			required = append(required, a.Name)
		}
	}
	return func(_ context.Context, args map[string]string) (string, error) {
		for _, name := range required {
			if _, ok := args[name]; !ok {
				return "", fmt.Errorf("prompt %s: missing required argument %q", prompt.Name, name)
			}
		}
		out := text
		for name, value := range args {
			out = strings.ReplaceAll(out, "{"+name+"}", value)
		}
		return out, nil
	}
}
