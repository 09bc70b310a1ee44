package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sakif/identity-service/internal/apperror"
	"github.com/sakif/identity-service/internal/model"
)

// contextKey is an unexported type for context keys in this package, so
// no other package can read or shadow the values stored here.
type contextKey string

const currentUserKey contextKey = "currentUser"

// UserResolver resolves a bearer token to the user it asserts. The service
// layer implements it; the middleware stays ignorant of how tokens are
// decoded or where users live.
type UserResolver interface {
	ResolveCurrentUser(ctx context.Context, token string) (*model.User, error)
}

// RequireAuth enforces authentication on protected routes.
//
// It reads the token from the Authorization header ("Bearer <token>"),
// resolves it to a user, and stores the user in the request context. A
// missing, invalid or expired token, or a token whose subject no longer
// exists, all produce the same 401 response.
func RequireAuth(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			user, err := resolver.ResolveCurrentUser(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), currentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user stored by RequireAuth.
// The second return is false for anonymous requests.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(currentUserKey).(*model.User)
	return user, ok && user != nil
}

// BearerToken extracts the token from the Authorization header. Returns ""
// when the header is absent or not a Bearer credential.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// unauthorized writes the same error shape the handler package produces
// for ErrUnauthenticated, with the message taken from the apperror
// constructor so the two responses cannot drift apart.
func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}{
		Error:   "unauthenticated",
		Message: apperror.Unauthenticated().Message,
	})
}
