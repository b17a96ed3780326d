package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/taxfree/card-wallet/internal/token"
)

type contextKey int

const identityKey contextKey = iota

// Auth gates protected routes. It extracts the bearer token, verifies it,
// and injects the resolved identity into the request context. It never
// consults the user store: the token's claims are trusted until expiry.
func Auth(tokens *token.Service, logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				reject(w, http.StatusUnauthorized, "authentication token required")
				return
			}

			identity, err := tokens.Verify(raw)
			if err != nil {
				// The client sees one uniform rejection; the cause
				// (expired vs forged vs malformed) stays in the log.
				logger.WithError(err).Debug("token rejected")
				reject(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Identity returns the authenticated identity injected by Auth.
func Identity(ctx context.Context) (*token.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*token.Identity)
	return identity, ok
}

// WithIdentity returns a context carrying the given identity. Exposed for
// handler tests that bypass the middleware.
func WithIdentity(ctx context.Context, identity *token.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func reject(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}
