package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jmdelacruz/pharmacy-inventory/internal/jwtutil"
)

// Identity is the authenticated user attached to a request
type Identity struct {
	UserID   int64
	Username string
}

type contextKey struct{}

var identityKey contextKey

// Auth verifies the Bearer token on incoming requests and stores the
// authenticated identity in the request context
func Auth(tokens *jwtutil.JWT) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Authorization token required", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			identity := Identity{UserID: claims.UserID, Username: claims.Username}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom extracts the authenticated identity set by Auth
func IdentityFrom(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
