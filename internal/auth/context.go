// ABOUTME: Request-scoped token storage for validated Home Assistant credentials
// ABOUTME: Provides WithToken/TokenFromContext for propagating the token via context

package auth

import (
	"context"
)

// tokenContextKey is the key type for storing the validated token in context.Context.
type tokenContextKey struct{}

// WithToken returns a new context with the validated bearer token attached.
// The token lives only for the duration of the request; it is never persisted.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext retrieves the validated token from the context, returning
// an empty string if the credential gate has not run.
func TokenFromContext(ctx context.Context) string {
	val := ctx.Value(tokenContextKey{})
	if val == nil {
		return ""
	}
	token, ok := val.(string)
	if !ok {
		return ""
	}
	return token
}

// TokenPrefix returns a bounded, non-sensitive prefix of a token for logging.
// Token values must never be emitted in full.
func TokenPrefix(token string) string {
	const n = 10
	if len(token) <= n {
		return token
	}
	return token[:n] + "..."
}
