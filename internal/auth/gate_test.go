// ABOUTME: Tests for the credential gate interceptor
// ABOUTME: Covers header extraction, upstream validation outcomes, and health bypass

package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2389/hass-mcp-gateway/internal/upstream"
)

// mockValidator implements TokenValidator for testing.
type mockValidator struct {
	err   error
	calls int
}

func (m *mockValidator) ValidateToken(_ context.Context, _ string) error {
	m.calls++
	return m.err
}

func gateHandler(v TokenValidator) (http.Handler, *string) {
	var gotToken string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = TokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return Chain(inner, Gate(v, slog.Default())), &gotToken
}

func TestGate_ValidToken(t *testing.T) {
	validator := &mockValidator{}
	handler, gotToken := gateHandler(validator)

	req := httptest.NewRequest(http.MethodPost, "/messages", nil)
	req.Header.Set("Authorization", "Bearer long-lived-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if *gotToken != "long-lived-token" {
		t.Errorf("expected token in context, got %q", *gotToken)
	}
	if validator.calls != 1 {
		t.Errorf("expected exactly one validation call, got %d", validator.calls)
	}
}

func TestGate_MissingHeader(t *testing.T) {
	validator := &mockValidator{}
	handler, _ := gateHandler(validator)

	req := httptest.NewRequest(http.MethodPost, "/messages", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	if validator.calls != 0 {
		t.Errorf("expected no upstream validation for missing header, got %d calls", validator.calls)
	}
}

func TestGate_NonBearerScheme(t *testing.T) {
	validator := &mockValidator{}
	handler, _ := gateHandler(validator)

	req := httptest.NewRequest(http.MethodPost, "/messages", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	if validator.calls != 0 {
		t.Errorf("expected no upstream validation for non-bearer scheme, got %d calls", validator.calls)
	}
}

func TestGate_UpstreamRejectsToken(t *testing.T) {
	validator := &mockValidator{
		err: &upstream.Error{StatusCode: http.StatusUnauthorized, Message: "Invalid Home Assistant token"},
	}
	handler, _ := gateHandler(validator)

	req := httptest.NewRequest(http.MethodPost, "/messages", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestGate_UpstreamUnreachable(t *testing.T) {
	// Drive the real validator against a dead port so the unreachable
	// classification comes from the actual client.
	client := upstream.New("http://127.0.0.1:1", time.Second, slog.Default())
	handler, _ := gateHandler(client)

	req := httptest.NewRequest(http.MethodPost, "/messages", nil)
	req.Header.Set("Authorization", "Bearer any-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}

func TestGate_HealthBypass(t *testing.T) {
	validator := &mockValidator{}
	handler, _ := gateHandler(validator)

	for _, path := range []string{"/health", "/mcp/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected status 200 without auth, got %d", path, rec.Code)
		}
	}
	if validator.calls != 0 {
		t.Errorf("expected no validation calls for health endpoints, got %d", validator.calls)
	}
}

func TestTokenPrefix(t *testing.T) {
	if got := TokenPrefix("abcdefghijklmnop"); got != "abcdefghij..." {
		t.Errorf("expected bounded prefix, got %q", got)
	}
	if got := TokenPrefix("short"); got != "short" {
		t.Errorf("short tokens pass through, got %q", got)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mk := func(name string) Interceptor {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	})

	Chain(inner, mk("first"), mk("second")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "handler" {
		t.Errorf("unexpected interceptor order: %v", order)
	}
}
