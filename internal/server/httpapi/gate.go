package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
)

type ctxKey struct{}

// SessionValidator is the part of the auth service the gate needs.
type SessionValidator interface {
	ValidateSession(token string) (*auth.Identity, error)
}

// RequireAdmin lets a request through only with a valid admin session. The
// token comes from the session cookie or an Authorization: Bearer header.
// Rejected requests get 401 and the body is left unread.
func RequireAdmin(v SessionValidator, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
				return
			}

			identity, err := v.ValidateSession(token)
			if err != nil {
				logger.Info(r.Context(), "session rejected", "path", r.URL.Path, "error", err)
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
				return
			}
			if identity.Role != common.RoleAdmin {
				logger.Warn(r.Context(), "non-admin session rejected", "user_id", identity.UserID)
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, identity)))
		})
	}
}

// IdentityFromContext returns the identity stored by RequireAdmin.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*auth.Identity)
	return id, ok
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(common.SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
