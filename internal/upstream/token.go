package upstream

import "context"

type callerTokenKey struct{}

// WithCallerToken stores a caller-supplied credential on the context so
// that capability handlers can forward it to the backend.
func WithCallerToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, callerTokenKey{}, token)
}

// CallerTokenFrom returns the caller credential stored on the context, or
// "" when the service account should be used.
func CallerTokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(callerTokenKey{}).(string)
	return tok
}

// ResolveToken picks the credential for one tool call: an explicit
// user-supplied value wins, then whatever the transport put on the context.
func ResolveToken(ctx context.Context, userID string) string {
	if userID != "" {
		return userID
	}
	return CallerTokenFrom(ctx)
}
