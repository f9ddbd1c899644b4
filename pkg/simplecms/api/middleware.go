package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
)

type authErrorKey struct{}

// Credential extracts the bearer token from the Authorization header, falling
// back to the "jwt" cookie.
func Credential(r *http.Request) string {
	if token := jwtauth.TokenFromHeader(r); token != "" {
		return token
	}
	return jwtauth.TokenFromCookie(r)
}

// Authenticator resolves the request credential once. A valid, active
// principal is stored in the request context; anything else leaves the
// request anonymous and remembers why for RequireAuth.
func Authenticator(resolver *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := Credential(r)
			if credential == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			p, err := resolver.ResolveActive(ctx, credential)
			if err != nil {
				ctx = context.WithValue(ctx, authErrorKey{}, err)
			} else {
				ctx = auth.WithPrincipal(ctx, p)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401, or 403 for inactive accounts.
func RequireAuth(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.FromContext(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}
			err, _ := r.Context().Value(authErrorKey{}).(error)
			if err == nil {
				err = auth.RequireActive(nil)
			}
			writeError(w, r, logger, err)
		})
	}
}

// RequireSuperuser rejects every caller that is not an active superuser.
func RequireSuperuser(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := auth.RequireSuperuser(auth.FromContext(r.Context())); err != nil {
				writeError(w, r, logger, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
