package routefilter_test

import (
	"testing"

	"github.com/mcp-notegate/notegate/internal/domain/routefilter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func policy(methods []string, patterns []string) routefilter.Policy {
	return routefilter.Policy{AllowedMethods: methods, BlockedPathPatterns: patterns}
}

func TestFilter_MethodAllowlist(t *testing.T) {
	p := policy([]string{"GET", "POST"}, nil)

	routes := []routefilter.RouteDescriptor{
		{Method: "GET", Path: "/api/v1/notes/"},
		{Method: "POST", Path: "/api/v1/notes/"},
		{Method: "PUT", Path: "/api/v1/notes/{id}"},
		{Method: "DELETE", Path: "/api/v1/notes/{id}"},
		{Method: "PATCH", Path: "/api/v1/notes/{id}"},
	}

	admitted := routefilter.Filter(routes, p)
	require.Len(t, admitted, 2)
	assert.Equal(t, "GET", admitted[0].Method)
	assert.Equal(t, "POST", admitted[1].Method)
}

func TestFilter_MethodCheckIndependentOfPath(t *testing.T) {
	// A clean path never rescues a disallowed method.
	p := policy([]string{"GET", "POST"}, []string{"admin"})

	admitted := routefilter.Filter([]routefilter.RouteDescriptor{
		{Method: "DELETE", Path: "/notes/5"},
	}, p)
	assert.Empty(t, admitted)
}

func TestFilter_BlockedPathPatterns(t *testing.T) {
	p := policy([]string{"GET"}, []string{"admin"})

	admitted := routefilter.Filter([]routefilter.RouteDescriptor{
		{Method: "GET", Path: "/admin/users"},
		{Method: "GET", Path: "/users"},
	}, p)

	require.Len(t, admitted, 1)
	assert.Equal(t, "/users", admitted[0].Path)
}

func TestFilter_PatternMatchIsCaseInsensitive(t *testing.T) {
	p := policy([]string{"GET"}, []string{"password"})

	admitted := routefilter.Filter([]routefilter.RouteDescriptor{
		{Method: "GET", Path: "/Password-Recovery"},
		{Method: "GET", Path: "/api/v1/notes/"},
	}, p)

	require.Len(t, admitted, 1)
	assert.Equal(t, "/api/v1/notes/", admitted[0].Path)
}

func TestFilter_SubstringNotSegmentAware(t *testing.T) {
	// Documented behavior: "/users" also blocks "/user-settings" via the
	// "/user" pattern family. Substring matching is intentional.
	p := policy([]string{"GET"}, []string{"/users"})

	admitted := routefilter.Filter([]routefilter.RouteDescriptor{
		{Method: "GET", Path: "/users-export"},
		{Method: "GET", Path: "/notes"},
	}, p)

	require.Len(t, admitted, 1)
	assert.Equal(t, "/notes", admitted[0].Path)
}

func TestFilter_Deterministic(t *testing.T) {
	p := routefilter.DefaultPolicy()
	routes := []routefilter.RouteDescriptor{
		{Method: "GET", Path: "/api/v1/notes/"},
		{Method: "GET", Path: "/api/v1/login/access-token"},
		{Method: "POST", Path: "/api/v1/tasks/"},
		{Method: "DELETE", Path: "/api/v1/tasks/{id}"},
	}

	first := routefilter.Filter(routes, p)
	second := routefilter.Filter(routes, p)
	assert.Equal(t, first, second)
}

func TestDefaultPolicy_BlocksSensitiveRoutes(t *testing.T) {
	p := routefilter.DefaultPolicy()

	blockedPaths := []string{
		"/api/v1/login/access-token",
		"/api/v1/users/me",
		"/api/v1/utils/test-token",
		"/password-recovery/{email}",
		"/admin/stats",
		"/debug/pprof",
		"/private/internal",
	}
	for _, path := range blockedPaths {
		d := routefilter.Decide(routefilter.RouteDescriptor{Method: "GET", Path: path}, p)
		assert.False(t, d.Admitted, "expected %s to be blocked", path)
		assert.NotEmpty(t, d.Reason)
	}

	allowed := []routefilter.RouteDescriptor{
		{Method: "GET", Path: "/api/v1/notes/"},
		{Method: "POST", Path: "/api/v1/tasks/"},
		{Method: "GET", Path: "/api/v1/notes/categories"},
	}
	for _, route := range allowed {
		assert.True(t, routefilter.Decide(route, p).Admitted, "expected %s %s to be admitted", route.Method, route.Path)
	}
}

func TestDecide_Reasons(t *testing.T) {
	p := policy([]string{"GET"}, []string{"admin"})

	d := routefilter.Decide(routefilter.RouteDescriptor{Method: "PUT", Path: "/notes"}, p)
	assert.False(t, d.Admitted)
	assert.Contains(t, d.Reason, "PUT")

	d = routefilter.Decide(routefilter.RouteDescriptor{Method: "GET", Path: "/admin"}, p)
	assert.False(t, d.Admitted)
	assert.Contains(t, d.Reason, "admin")
}
