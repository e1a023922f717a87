// Package api assembles the MCP surface: builtin capabilities, scanned
// capability modules, and proxy tools for the backend routes that survive
// filtering are merged into a single immutable set and served over the
// streamable HTTP transport.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/mcp-notegate/notegate/internal/builtins"
	"github.com/mcp-notegate/notegate/internal/domain/capability"
	"github.com/mcp-notegate/notegate/internal/domain/discovery"
	"github.com/mcp-notegate/notegate/internal/domain/routefilter"
	"github.com/mcp-notegate/notegate/internal/logger"
	"github.com/mcp-notegate/notegate/internal/upstream"
)

const httpShutdownTimeout = 10 * time.Second

// Config configures the gateway build.
type Config struct {
	// Name and Version identify the server to MCP clients.
	Name    string
	Version string

	// CapabilityDirs are scanned for capability module manifests.
	CapabilityDirs []string

	// Policy decides which backend routes become proxy tools.
	Policy routefilter.Policy

	// OpenAPIPath overrides the backend's schema path when set.
	OpenAPIPath string

	Logger *zap.Logger
}

// Gateway is the composed MCP server. Build assembles the capability set
// once; afterwards the set is frozen and the gateway only serves traffic.
type Gateway struct {
	cfg      Config
	client   *upstream.Client
	registry *capability.Registry
	server   *mcp.Server
	handler  http.Handler
	skipped  []discovery.SkippedFile
	log      *zap.Logger
}

// New creates an unbuilt gateway.
func New(client *upstream.Client, cfg Config) *Gateway {
	if cfg.Name == "" {
		cfg.Name = "notegate"
	}
	if cfg.Version == "" {
		cfg.Version = "0.1.0"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Gateway{
		cfg:      cfg,
		client:   client,
		registry: capability.NewRegistry(),
		log:      cfg.Logger,
	}
}

// Build assembles the capability set and mounts it on the MCP server. It
// runs exactly once; the registry is frozen when it returns. An unreachable
// backend is a build failure, not a degraded start.
func (g *Gateway) Build(ctx context.Context) error {
	if g.registry.Frozen() {
		return fmt.Errorf("gateway already built")
	}

	scanner := discovery.NewScanner(g.client, g.log)
	scanned, err := scanner.Scan(ctx, g.cfg.CapabilityDirs)
	if err != nil {
		return fmt.Errorf("scan capability modules: %w", err)
	}
	g.skipped = scanned.Skipped
	for _, c := range scanned.Capabilities {
		if err := g.registry.Register(c); err != nil {
			return fmt.Errorf("register scanned capability: %w", err)
		}
	}

	if err := builtins.RegisterAll(g.registry, g.client); err != nil {
		return fmt.Errorf("register builtin capabilities: %w", err)
	}

	routes, err := g.client.Routes(ctx, g.cfg.OpenAPIPath)
	if err != nil {
		if errors.Is(err, upstream.ErrUnavailable) {
			return fmt.Errorf("backend unreachable, refusing to start: %w", err)
		}
		return fmt.Errorf("read backend route table: %w", err)
	}
	admitted := routefilter.Filter(routes, g.cfg.Policy)
	g.log.Info("filtered backend routes",
		zap.Int("total", len(routes)),
		zap.Int("admitted", len(admitted)))

	for _, route := range admitted {
		proxy := proxyCapability(g.client, route)
		if err := g.registry.Register(proxy); err != nil {
			var dup *capability.DuplicateNameError
			if errors.As(err, &dup) {
				return fmt.Errorf("proxy tool for %s %s collides with capability %q: %w",
					route.Method, route.Path, dup.Name, err)
			}
			return fmt.Errorf("register proxy tool: %w", err)
		}
	}

	g.registry.Freeze()
	g.mount()

	tools, resources, prompts := g.counts()
	g.log.Info("gateway built",
		zap.Int("tools", tools),
		zap.Int("resources", resources),
		zap.Int("prompts", prompts),
		zap.Int("skipped_modules", len(g.skipped)))
	return nil
}

// Registry exposes the frozen capability set for inspection commands.
func (g *Gateway) Registry() *capability.Registry {
	return g.registry
}

// Skipped reports the module files that failed to load during Build.
func (g *Gateway) Skipped() []discovery.SkippedFile {
	return g.skipped
}

func (g *Gateway) counts() (tools, resources, prompts int) {
	for _, c := range g.registry.All() {
		switch c.Kind {
		case capability.KindTool:
			tools++
		case capability.KindResource:
			resources++
		case capability.KindPrompt:
			prompts++
		}
	}
	return
}

func (g *Gateway) mount() {
	g.server = mcp.NewServer(
		&mcp.Implementation{Name: g.cfg.Name, Version: g.cfg.Version},
		&mcp.ServerOptions{
			HasTools:     true,
			HasResources: true,
			HasPrompts:   true,
		},
	)

	for _, c := range g.registry.All() {
		switch c.Kind {
		case capability.KindTool:
			tool := &mcp.Tool{
				Name:        c.Name,
				Description: c.Description,
				InputSchema: c.InputSchema,
			}
			// mcp.Tool.OutputSchema is any; a typed nil in it is not nil.
			if c.OutputSchema != nil {
				tool.OutputSchema = c.OutputSchema
			}
			g.server.AddTool(tool, toolHandler(c))
		case capability.KindResource:
			g.server.AddResource(&mcp.Resource{
				URI:         c.URI,
				Name:        c.Name,
				Description: c.Description,
				MIMEType:    c.MIMEType,
			}, resourceHandler(c))
		case capability.KindPrompt:
			args := make([]*mcp.PromptArgument, 0, len(c.PromptArgs))
			for _, a := range c.PromptArgs {
				args = append(args, &mcp.PromptArgument{
					Name:        a.Name,
					Description: a.Description,
					Required:    a.Required,
				})
			}
			g.server.AddPrompt(&mcp.Prompt{
				Name:        c.Name,
				Description: c.Description,
				Arguments:   args,
			}, promptHandler(c))
		}
	}

	stream := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return g.server
	}, nil)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Mcp-Session-Id", "Mcp-Protocol-Version", "Last-Event-ID"},
		ExposedHeaders: []string{"Mcp-Session-Id"},
	})
	g.handler = c.Handler(withCallerToken(stream, g.log))
}

// Handler returns the HTTP handler serving the MCP endpoint. Build must
// have succeeded first.
func (g *Gateway) Handler() http.Handler {
	return g.handler
}

// ListenAndServe runs the gateway until ctx is cancelled.
func (g *Gateway) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: g.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	g.log.Info("gateway listening", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// withCallerToken lifts the caller's bearer token out of the Authorization
// header so tool handlers can forward it to the backend.
func withCallerToken(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
			r = r.WithContext(upstream.WithCallerToken(r.Context(), token))
			log.Debug("caller credential attached",
				logger.RedactedString("authorization", auth))
		}
		next.ServeHTTP(w, r)
	})
}

func toolHandler(c *capability.Capability) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := rawArguments(req)
		if err != nil {
			return nil, err
		}
		result, err := c.Tool(ctx, args)
		if err != nil {
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
			}, nil
		}
		text, err := renderResult(result)
		if err != nil {
			return nil, err
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	}
}

func resourceHandler(c *capability.Capability) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		text, err := c.Resource(ctx)
		if err != nil {
			return nil, err
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      c.URI,
				MIMEType: c.MIMEType,
				Text:     text,
			}},
		}, nil
	}
}

func promptHandler(c *capability.Capability) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		var args map[string]string
		if req.Params != nil {
			args = req.Params.Arguments
		}
		text, err := c.Prompt(ctx, args)
		if err != nil {
			return nil, err
		}
		return &mcp.GetPromptResult{
			Description: c.Description,
			Messages: []*mcp.PromptMessage{{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			}},
		}, nil
	}
}

// rawArguments extracts the still-encoded tool arguments from the request.
func rawArguments(req *mcp.CallToolRequest) (json.RawMessage, error) {
	if req == nil || req.Params == nil {
		return nil, nil
	}
	return req.Params.Arguments, nil
}

// renderResult serializes a tool result for the content payload. Strings
// pass through untouched; everything else is rendered as indented JSON,
// matching what the backend's own clients expect to read.
func renderResult(result any) (string, error) {
	switch v := result.(type) {
	case nil:
		return "null", nil
	case string:
		return v, nil
	case json.RawMessage:
		return string(v), nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize tool result: %w", err)
	}
	return string(data), nil
}
