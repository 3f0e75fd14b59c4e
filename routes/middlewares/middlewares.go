package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/surveyforge/surveyforge/app"
	"github.com/surveyforge/surveyforge/httpx"
	"github.com/surveyforge/surveyforge/policy"
)

type contextKey struct{}

var callerKey contextKey

// Authenticate resolves the caller's identity from the Authorization
// header. A missing header means an anonymous caller; a present but
// invalid or expired token fails the request.
func Authenticate(app app.App) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw := auth
			if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
				raw = auth[7:]
			}

			username, err := app.Verify(raw)
			if err != nil {
				httpx.WriteError(w, r, "auth.token", err)
				return
			}

			ctx := context.WithValue(r.Context(), callerKey, policy.User(username))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Caller returns the identity resolved for this request, or an anonymous
// caller when no token was supplied.
func Caller(r *http.Request) policy.Caller {
	if c, ok := r.Context().Value(callerKey).(policy.Caller); ok {
		return c
	}
	return policy.Anonymous()
}
