package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/metrics"
	"github.com/taskhive/taskhive/internal/session"
	"github.com/taskhive/taskhive/internal/token"
)

// AuthConfig holds configuration for the authentication middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Codec    *token.Codec
	Registry *session.Registry
	Metrics  metrics.Recorder
}

// Authenticate returns a middleware that resolves the bearer token on each
// request to an identity. Revoked tokens are rejected before signature
// verification, so a logged-out token stays dead even while its signature
// and expiry would still check out.
func Authenticate(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := extractBearerToken(r)
			if tok == "" {
				logAuthFailure(cfg.Logger, r, "missing_token")
				recorder.IncTokenVerification("invalid")
				writeAuthError(w)
				return
			}

			if cfg.Registry.IsRevoked(tok) {
				logAuthFailure(cfg.Logger, r, "revoked")
				recorder.IncTokenVerification("revoked")
				writeAuthError(w)
				return
			}

			subject, err := cfg.Codec.Verify(tok)
			if err != nil {
				logAuthFailure(cfg.Logger, r, verifyFailureReason(err))
				recorder.IncTokenVerification(verifyFailureReason(err))
				writeAuthError(w)
				return
			}

			recorder.IncTokenVerification("ok")

			ctx := auth.ContextWithIdentity(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the session token from the Authorization header.
// A literal "Bearer " prefix is stripped if present; otherwise the raw
// header value is used.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

// verifyFailureReason maps codec errors to a short reason label.
func verifyFailureReason(err error) string {
	if errors.Is(err, token.ErrExpired) {
		return "expired"
	}
	return "invalid"
}

// logAuthFailure logs a rejected request with correlation fields.
func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	if logger == nil {
		return
	}
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent probing.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Invalid or missing token","code":"UNAUTHORIZED"}`))
}
