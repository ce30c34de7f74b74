package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/scryptex/backend/internal/api"
	"github.com/scryptex/backend/internal/models"
)

type contextKey string

const ctxUserKey contextKey = "user"

// UserResolver turns a bearer token into the authenticated user.
type UserResolver interface {
	UserFromToken(ctx context.Context, token string) (*models.User, error)
}

// RequireUser authenticates requests via the Authorization bearer token
// and stores the resolved user in the request context.
func RequireUser(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractBearer(r)
			if raw == "" {
				api.Error(w, http.StatusUnauthorized, "missing or malformed Authorization header")
				return
			}
			user, err := resolver.UserFromToken(r.Context(), raw)
			if err != nil {
				api.Error(w, http.StatusUnauthorized, "could not validate credentials")
				return
			}
			ctx := context.WithValue(r.Context(), ctxUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromCtx returns the authenticated user or nil.
func UserFromCtx(ctx context.Context) *models.User {
	u, _ := ctx.Value(ctxUserKey).(*models.User)
	return u
}

// WithUser returns a context carrying the given user.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxUserKey, u)
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
