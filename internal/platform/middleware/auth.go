package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenVerifier validates a bearer token and resolves the caller.
type TokenVerifier interface {
	VerifyToken(token string) (*Principal, error)
}

// Principal is the authenticated caller attached to the request context.
// Every tenant-scoped query downstream must filter by TenantID.
type Principal struct {
	Email    string
	TenantID int64
}

type principalKey struct{}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// WithPrincipal returns a context carrying the principal. Exposed for tests.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// RequireAuth rejects requests without a valid bearer token. The 401 body
// carries no detail beyond "could not validate" so probing reveals nothing.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				writeUnauthorized(w)
				return
			}

			principal, err := verifier.VerifyToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized request",
					"error", err,
					"path", r.URL.Path,
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, *principal)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Could not validate credentials"}`))
}
