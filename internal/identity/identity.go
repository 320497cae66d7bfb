// Package identity resolves which preference bucket a request belongs to.
package identity

import (
	"context"
	"net/http"
	"strings"
)

// UserIDHeader carries the caller identity set by the upstream gateway.
// toolhub trusts it as-is; it performs no authentication of its own.
const UserIDHeader = "X-User-ID"

// Anonymous is the identity bucket for unauthenticated sessions.
const Anonymous = "anonymous"

type userIDKey struct{}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserID returns the identity stored in ctx, or Anonymous.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok && id != "" {
		return id
	}
	return Anonymous
}

// Middleware resolves the caller identity from UserIDHeader and stores it in
// the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if id == "" {
			id = Anonymous
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
	})
}
