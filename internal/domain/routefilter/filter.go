// Package routefilter decides which upstream HTTP endpoints are safe to
// re-expose as capabilities. It is the security gate between the upstream
// application's route table and the gateway surface.
package routefilter

import (
	"net/http"
	"strings"
)

// RouteDescriptor is one upstream HTTP endpoint, read from the upstream
// application's route table. Read-only from this system's perspective.
type RouteDescriptor struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	OperationID string `json:"operation_id"`
	Summary     string `json:"summary,omitempty"`
}

// Policy configures the filter. A route is admitted iff its method is in
// AllowedMethods AND no entry of BlockedPathPatterns is a case-insensitive
// substring of its path. Matching is plain substring, not path-segment
// aware: "/users" also blocks "/user-settings". That mirrors the upstream
// application's historical behavior.
type Policy struct {
	AllowedMethods      []string `yaml:"allowed_methods" json:"allowed_methods"`
	BlockedPathPatterns []string `yaml:"blocked_path_patterns" json:"blocked_path_patterns"`
}

// DefaultPolicy returns the stock denylist: read-only verbs plus note
// creation, with authentication, user management, admin, debug, and other
// sensitive endpoints suppressed.
func DefaultPolicy() Policy {
	return Policy{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		BlockedPathPatterns: []string{
			"/system", "/service", "/mcp_deny",
			"/login", "/auth",
			"/users", "/user",
			"/password-recovery", "/reset-password",
			"/debug", "/admin",
			"/messaging",
			"/metrics",
			"/private",
			"signup", "password", "token", "admin", "debug",
			"superuser", "delete", "reset", "recovery",
		},
	}
}

// MethodAllowed reports whether method passes the allowlist.
func (p Policy) MethodAllowed(method string) bool {
	for _, m := range p.AllowedMethods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// BlockedBy returns the first pattern matching path, if any.
func (p Policy) BlockedBy(path string) (string, bool) {
	lower := strings.ToLower(path)
	for _, pattern := range p.BlockedPathPatterns {
		if pattern == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return pattern, true
		}
	}
	return "", false
}

// Decision explains one route's verdict. Used for operator-facing output;
// Filter is the behavioral contract.
type Decision struct {
	Route    RouteDescriptor
	Admitted bool
	Reason   string
}

// Decide evaluates one route against the policy. The method check is
// independent of and in addition to the path check: a disallowed method is
// rejected even when no pattern matches the path.
func Decide(route RouteDescriptor, policy Policy) Decision {
	if !policy.MethodAllowed(route.Method) {
		return Decision{Route: route, Reason: "method " + route.Method + " not in allowlist"}
	}
	if pattern, blocked := policy.BlockedBy(route.Path); blocked {
		return Decision{Route: route, Reason: "path matches blocked pattern " + pattern}
	}
	return Decision{Route: route, Admitted: true}
}

// Filter returns the routes admitted by the policy, preserving input order.
// Pure: no side effects, same input always yields same output.
func Filter(routes []RouteDescriptor, policy Policy) []RouteDescriptor {
	admitted := make([]RouteDescriptor, 0, len(routes))
	for _, route := range routes {
		if Decide(route, policy).Admitted {
			admitted = append(admitted, route)
		}
	}
	return admitted
}
