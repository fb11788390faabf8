package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/metrics"
	"github.com/taskhive/taskhive/internal/session"
	"github.com/taskhive/taskhive/internal/token"
)

const gateTestSecret = "middleware-test-secret"

func newGate(t *testing.T, registry *session.Registry, opts ...token.Option) func(http.Handler) http.Handler {
	t.Helper()

	codec, err := token.NewCodec(gateTestSecret, 10*time.Minute, opts...)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	return Authenticate(AuthConfig{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Codec:    codec,
		Registry: registry,
		Metrics:  metrics.NewNoop(),
	})
}

// identityEcho records the identity the gate injected.
func identityEcho(captured *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = auth.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func issueTestToken(t *testing.T, subject string) string {
	t.Helper()

	codec, err := token.NewCodec(gateTestSecret, 10*time.Minute)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	tok, err := codec.Issue(subject)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return tok
}

func TestAuthenticate_ValidToken(t *testing.T) {
	t.Parallel()

	registry := session.NewRegistry()
	gate := newGate(t, registry)

	var identity string
	handler := gate(identityEcho(&identity))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, "alice@example.com"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if identity != "alice@example.com" {
		t.Errorf("identity = %q, want alice@example.com", identity)
	}
}

func TestAuthenticate_TokenWithoutBearerPrefix(t *testing.T) {
	t.Parallel()

	registry := session.NewRegistry()
	gate := newGate(t, registry)

	var identity string
	handler := gate(identityEcho(&identity))

	// Raw header value is accepted when the Bearer prefix is absent.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Authorization", issueTestToken(t, "bob@example.com"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if identity != "bob@example.com" {
		t.Errorf("identity = %q, want bob@example.com", identity)
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	t.Parallel()

	gate := newGate(t, session.NewRegistry())
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	t.Parallel()

	gate := newGate(t, session.NewRegistry())
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with a garbage token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	t.Parallel()

	registry := session.NewRegistry()
	gate := newGate(t, registry)

	tok := issueTestToken(t, "alice@example.com")
	registry.Revoke(tok)

	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with a revoked token")
	}))

	// The token's signature and expiry are still valid; revocation alone
	// must reject it.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	issuer, err := token.NewCodec(gateTestSecret, 10*time.Minute, token.WithClock(func() time.Time { return issued }))
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	tok, err := issuer.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Gate's clock sits past the token's expiry.
	gate := newGate(t, session.NewRegistry(), token.WithClock(func() time.Time {
		return issued.Add(11 * time.Minute)
	}))
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with an expired token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticate_UniformErrorBody(t *testing.T) {
	t.Parallel()

	registry := session.NewRegistry()
	gate := newGate(t, registry)
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	revoked := issueTestToken(t, "alice@example.com")
	registry.Revoke(revoked)

	headers := map[string]string{
		"missing": "",
		"garbage": "Bearer junk",
		"revoked": "Bearer " + revoked,
	}

	var bodies []string
	for name, header := range headers {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}

	// All rejections must look identical so callers cannot distinguish
	// why a token failed.
	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("rejection bodies differ: %q vs %q", bodies[0], bodies[i])
		}
	}
}

func TestExtractBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"bearer prefix", "Bearer abc123", "abc123"},
		{"no prefix", "abc123", "abc123"},
		{"prefix only", "Bearer ", ""},
		{"lowercase bearer kept verbatim", "bearer abc123", "bearer abc123"},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := extractBearerToken(req); got != tt.want {
				t.Errorf("extractBearerToken = %q, want %q", got, tt.want)
			}
		})
	}
}
