// Package upstream is the HTTP client for the notes application backend.
// Capabilities never talk to the backend directly; they go through Client so
// that authentication, error mapping, and timeouts live in one place.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// ErrUnavailable marks failures that mean the backend cannot be reached or
// introspected at all. During the build phase this is fatal to startup.
var ErrUnavailable = errors.New("upstream application unavailable")

// APIError is a non-2xx response from the backend, surfaced to the caller as
// a structured failure.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return "authentication failed: invalid or expired token"
	case http.StatusForbidden:
		return "authorization failed: insufficient permissions"
	case http.StatusTooManyRequests:
		return "rate limit exceeded: too many requests"
	}
	if e.Detail != "" {
		return fmt.Sprintf("request failed: %s", e.Detail)
	}
	return fmt.Sprintf("request failed: HTTP %d", e.StatusCode)
}

// Config holds the connection settings for the backend.
type Config struct {
	// BaseURL is the backend root, e.g. "https://notes.example.com".
	BaseURL string
	// Email and Password are the service account used when a caller does
	// not supply its own token. Exchanged for a JWT via the backend's
	// password-grant token endpoint.
	Email    string
	Password string
	// TokenPath is the password-grant endpoint. Defaults to
	// "/api/v1/login/access-token".
	TokenPath string
	// Timeout bounds each outbound call. Defaults to 30s.
	Timeout time.Duration

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client makes authenticated requests against the backend.
type Client struct {
	baseURL string
	http    *http.Client

	mu     sync.Mutex
	source oauth2.TokenSource
}

// NewClient builds a client. The service token is fetched lazily on first
// use, not here; reaching the backend at construction time is the gateway
// build phase's job.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("upstream base URL is required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid upstream base URL %q: %w", cfg.BaseURL, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	tokenPath := cfg.TokenPath
	if tokenPath == "" {
		tokenPath = "/api/v1/login/access-token"
	}

	c := &Client{baseURL: base, http: httpClient}
	if cfg.Email != "" {
		// The backend speaks the OAuth2 password grant: the login form's
		// username field carries the account email.
		oc := &oauth2.Config{
			Endpoint: oauth2.Endpoint{
				TokenURL:  base + tokenPath,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		c.source = oauth2.ReuseTokenSource(nil, &passwordSource{
			ctx:      ctx,
			config:   oc,
			username: cfg.Email,
			password: cfg.Password,
		})
	}
	return c, nil
}

// passwordSource logs in with the password grant each time the cached token
// expires. The backend issues no refresh tokens, so re-login is the refresh.
type passwordSource struct {
	ctx      context.Context
	config   *oauth2.Config
	username string
	password string
}

func (s *passwordSource) Token() (*oauth2.Token, error) {
	tok, err := s.config.PasswordCredentialsToken(s.ctx, s.username, s.password)
	if err != nil {
		return nil, fmt.Errorf("service account login: %w", err)
	}
	return tok, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// bearerFor resolves the Authorization value for a call. A caller-supplied
// credential that already looks like a JWT is used as-is; anything else
// falls back to the service account token.
func (c *Client) bearerFor(callerToken string) (string, error) {
	if looksLikeJWT(callerToken) {
		return callerToken, nil
	}
	c.mu.Lock()
	source := c.source
	c.mu.Unlock()
	if source == nil {
		if callerToken != "" {
			// No service account configured: pass the raw value through
			// and let the backend reject it with a useful error.
			return callerToken, nil
		}
		return "", fmt.Errorf("no credentials: configure a service account or pass a token")
	}
	tok, err := source.Token()
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

func looksLikeJWT(s string) bool {
	return len(s) > 50 && strings.Count(s, ".") >= 2
}

// Do performs one authenticated JSON call. body is marshaled when non-nil;
// query is appended to the path. The raw response body is returned for 2xx;
// everything else maps to *APIError, and transport failures wrap
// ErrUnavailable.
func (c *Client) Do(ctx context.Context, method, path, callerToken string, body any, query url.Values) (json.RawMessage, error) {
	bearer, err := c.bearerFor(callerToken)
	if err != nil {
		return nil, err
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(data, resp.StatusCode)}
	}
	if len(data) == 0 {
		data = json.RawMessage(`null`)
	}
	return data, nil
}

// Get is Do with method GET and no body.
func (c *Client) Get(ctx context.Context, path, callerToken string, query url.Values) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, callerToken, nil, query)
}

// Health probes the backend's health endpoint without authentication.
func (c *Client) Health(ctx context.Context, path string) error {
	if path == "" {
		path = "/api/v1/utils/health-check/"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode}
	}
	return nil
}

func errorDetail(body []byte, status int) string {
	var parsed struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != nil {
		switch d := parsed.Detail.(type) {
		case string:
			return d
		default:
			if b, err := json.Marshal(d); err == nil {
				return string(b)
			}
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}
