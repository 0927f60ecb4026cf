// ABOUTME: Credential gate interceptor validating bearer tokens against Home Assistant
// ABOUTME: Runs before every route handler and short-circuits with 401/503 on failure

package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/2389/hass-mcp-gateway/internal/upstream"
)

// Interceptor is one element of the ordered request-processing chain. Each
// interceptor may short-circuit with a terminal response instead of calling
// the next handler.
type Interceptor func(http.Handler) http.Handler

// Chain applies interceptors to a handler so that the first interceptor in
// the list runs first on each request.
func Chain(h http.Handler, interceptors ...Interceptor) http.Handler {
	for i := len(interceptors) - 1; i >= 0; i-- {
		h = interceptors[i](h)
	}
	return h
}

// TokenValidator checks a bearer token against the upstream Home Assistant
// instance. Implemented by *upstream.Client.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) error
}

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// Gate creates the credential gate interceptor. Every request except the
// liveness endpoints must carry a bearer token that Home Assistant accepts.
// Validation happens on every request: the gateway has no session concept, so
// no validation result is cached across requests.
//
// Gate decisions:
//   - missing or malformed Authorization header: 401, no upstream call
//   - Home Assistant rejects the token: 401
//   - Home Assistant unreachable: 503, distinct from an invalid credential
//   - token accepted: attached to the request context for downstream use
func Gate(validator TokenValidator, logger *slog.Logger) Interceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Liveness checks bypass authentication.
			if strings.HasSuffix(r.URL.Path, "/health") {
				next.ServeHTTP(w, r)
				return
			}

			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				logger.Warn("rejected request", "path", r.URL.Path, "reason", errMsg)
				writeGateError(w, http.StatusUnauthorized, "Unauthorized", "Missing or invalid Authorization header")
				return
			}

			if err := validator.ValidateToken(r.Context(), token); err != nil {
				var upErr *upstream.Error
				if errors.As(err, &upErr) && upErr.Unreachable() {
					logger.Error("token validation failed, upstream unreachable",
						"path", r.URL.Path,
						"token_prefix", TokenPrefix(token),
					)
					writeGateError(w, http.StatusServiceUnavailable, "Service Unavailable", "Cannot reach Home Assistant")
					return
				}
				logger.Warn("rejected invalid token",
					"path", r.URL.Path,
					"token_prefix", TokenPrefix(token),
				)
				writeGateError(w, http.StatusUnauthorized, "Unauthorized", "Invalid Home Assistant token")
				return
			}

			logger.Debug("token validated", "path", r.URL.Path, "token_prefix", TokenPrefix(token))
			next.ServeHTTP(w, r.WithContext(WithToken(r.Context(), token)))
		})
	}
}

// RequestLogger creates an interceptor logging every inbound request before
// the gate runs.
func RequestLogger(logger *slog.Logger) Interceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Info("request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
			next.ServeHTTP(w, r)
		})
	}
}

// Recoverer creates an interceptor converting handler panics into 500s.
func Recoverer(logger *slog.Logger) Interceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panic", "path", r.URL.Path, "panic", rec)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func writeGateError(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + kind + `","message":"` + message + `"}`))
}
