package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/mcp-notegate/notegate/internal/domain/capability"
	"github.com/mcp-notegate/notegate/internal/domain/routefilter"
	"github.com/mcp-notegate/notegate/internal/upstream"
)

// proxyCapability turns one admitted upstream route into a tool capability
// that forwards the call through the upstream client. The tool accepts the
// route's path parameters as top-level string arguments, an optional "query"
// object, and (for non-GET routes) an optional "body" object.
func proxyCapability(client *upstream.Client, route routefilter.RouteDescriptor) *capability.Capability {
	params := pathParams(route.Path)

	props := map[string]*jsonschema.Schema{}
	required := make([]string, 0, len(params))
	for _, p := range params {
		props[p] = &jsonschema.Schema{
			Type:        "string",
			Description: fmt.Sprintf("Value for the {%s} path parameter", p),
		}
		required = append(required, p)
	}
	props["query"] = &jsonschema.Schema{
		Type:        "object",
		Description: "Optional query string parameters",
	}
	if route.Method != http.MethodGet {
		props["body"] = &jsonschema.Schema{
			Type:        "object",
			Description: "Request body forwarded to the backend",
		}
	}
	props["user_id"] = &jsonschema.Schema{
		Type:        "string",
		Description: "JWT of the user to act as; defaults to the caller's token",
	}

	description := route.Summary
	if description == "" {
		description = fmt.Sprintf("Proxy for %s %s", route.Method, route.Path)
	}

	return &capability.Capability{
		Name:        proxyToolName(route),
		Kind:        capability.KindTool,
		Description: description,
		Source:      "proxy:" + route.Method + " " + route.Path,
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: props,
			Required:   required,
		},
		Tool: proxyToolFunc(client, route, params),
	}
}

func proxyToolFunc(client *upstream.Client, route routefilter.RouteDescriptor, params []string) capability.ToolFunc {
	return func(ctx context.Context, args json.RawMessage) (any, error) {
		fields := map[string]json.RawMessage{}
		if len(args) > 0 {
			if err := json.Unmarshal(args, &fields); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
		}

		path := route.Path
		for _, p := range params {
			raw, ok := fields[p]
			if !ok {
				return nil, fmt.Errorf("missing required path parameter %q", p)
			}
			var value string
			if err := json.Unmarshal(raw, &value); err != nil {
				value = string(raw)
			}
			path = strings.ReplaceAll(path, "{"+p+"}", url.PathEscape(value))
		}

		var query url.Values
		if raw, ok := fields["query"]; ok {
			var pairs map[string]any
			if err := json.Unmarshal(raw, &pairs); err != nil {
				return nil, fmt.Errorf("invalid query object: %w", err)
			}
			query = url.Values{}
			for k, v := range pairs {
				query.Set(k, fmt.Sprintf("%v", v))
			}
		}

		var body any
		if raw, ok := fields["body"]; ok && route.Method != http.MethodGet {
			body = json.RawMessage(raw)
		}

		var userID string
		if raw, ok := fields["user_id"]; ok {
			_ = json.Unmarshal(raw, &userID)
		}

		result, err := client.Do(ctx, route.Method, path, upstream.ResolveToken(ctx, userID), body, query)
		if err != nil {
			return nil, err
		}
		return result, nil
	}
}

// pathParams extracts {placeholder} names from a route path in order.
func pathParams(path string) []string {
	var params []string
	for _, segment := range strings.Split(path, "/") {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			params = append(params, segment[1:len(segment)-1])
		}
	}
	return params
}

// proxyToolName derives a stable tool name for a route. The backend's
// operation IDs are used verbatim when present; otherwise the name is built
// from the method and path.
func proxyToolName(route routefilter.RouteDescriptor) string {
	if route.OperationID != "" {
		return sanitizeName(route.OperationID)
	}
	return sanitizeName(strings.ToLower(route.Method) + "_" + route.Path)
}

func sanitizeName(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
