package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/mcp-notegate/notegate/internal/domain/routefilter"
)

// DefaultOpenAPIPath is where the backend publishes its route table.
const DefaultOpenAPIPath = "/api/v1/openapi.json"

// openapiDocument is the subset of an OpenAPI 3 document the gateway needs:
// the path → method → operation map. Operations stay raw until after the
// method-key check, because path items also carry non-operation keys such
// as "parameters".
type openapiDocument struct {
	Paths map[string]map[string]json.RawMessage `json:"paths"`
}

type openapiOperation struct {
	OperationID string `json:"operationId"`
	Summary     string `json:"summary"`
}

var httpMethods = map[string]string{
	"get":    http.MethodGet,
	"post":   http.MethodPost,
	"put":    http.MethodPut,
	"patch":  http.MethodPatch,
	"delete": http.MethodDelete,
	"head":   http.MethodHead,
}

// Routes fetches the backend's OpenAPI document and flattens it into route
// descriptors, one per path+method pair. An unreachable backend or a
// document that fails to parse wraps ErrUnavailable: the gateway cannot
// serve without a valid base route table.
func (c *Client) Routes(ctx context.Context, openapiPath string) ([]routefilter.RouteDescriptor, error) {
	if openapiPath == "" {
		openapiPath = DefaultOpenAPIPath
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+openapiPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch route table: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: route table returned HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read route table: %v", ErrUnavailable, err)
	}

	var doc openapiDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse route table: %v", ErrUnavailable, err)
	}
	if len(doc.Paths) == 0 {
		return nil, fmt.Errorf("%w: route table declares no paths", ErrUnavailable)
	}

	routes := make([]routefilter.RouteDescriptor, 0, len(doc.Paths))
	for path, operations := range doc.Paths {
		for verb, raw := range operations {
			method, ok := httpMethods[strings.ToLower(verb)]
			if !ok {
				continue
			}
			var op openapiOperation
			if err := json.Unmarshal(raw, &op); err != nil {
				return nil, fmt.Errorf("%w: parse operation %s %s: %v", ErrUnavailable, method, path, err)
			}
			routes = append(routes, routefilter.RouteDescriptor{
				Method:      method,
				Path:        path,
				OperationID: op.OperationID,
				Summary:     op.Summary,
			})
		}
	}

	// JSON maps have no order; sort for reproducible logging and output.
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	return routes, nil
}
