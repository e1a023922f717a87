package errors

import (
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcp-notegate/notegate/internal/upstream"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"unavailable sentinel", fmt.Errorf("fetch routes: %w", upstream.ErrUnavailable), ErrorKindOffline},
		{"unauthorized", &upstream.APIError{StatusCode: 401, Detail: "Could not validate credentials"}, ErrorKindAuth},
		{"forbidden", &upstream.APIError{StatusCode: 403, Detail: "Not enough permissions"}, ErrorKindForbidden},
		{"rate limited", &upstream.APIError{StatusCode: 429, Detail: "slow down"}, ErrorKindRateLimit},
		{"not found status", &upstream.APIError{StatusCode: 404, Detail: "Note not found"}, ErrorKindNotFound},
		{"other http status", &upstream.APIError{StatusCode: 500, Detail: "boom"}, ErrorKindHTTP},
		{"connection refused", goerrors.New("dial tcp 127.0.0.1:8000: connect: connection refused"), ErrorKindOffline},
		{"dns failure", goerrors.New("lookup backend.invalid: no such host"), ErrorKindOffline},
		{"unknown", goerrors.New("something else entirely"), ErrorKindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.err.Error(), got.Message)
		})
	}
}

func TestClassify_OfflineCarriesHint(t *testing.T) {
	got := Classify(fmt.Errorf("health: %w", upstream.ErrUnavailable))
	assert.Contains(t, got.Hint, "NOTEGATE_BACKEND_URL")
}

func TestClassify_Nil(t *testing.T) {
	got := Classify(nil)
	assert.Equal(t, ErrorKind(""), got.Kind)
	assert.Empty(t, got.Message)
}
