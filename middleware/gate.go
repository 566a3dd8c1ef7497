// Package middleware provides the net/http authentication gate over a
// lectureauth Engine. Resolve attaches the caller's identity when the
// access token checks out and lets everything else pass anonymous;
// Require is the perimeter that turns anonymous into 401.
package middleware

import (
	"context"
	"net/http"
	"strings"

	lectureauth "github.com/ktnu/lectureauth"
)

// AccessTokenCookie is the default credential carrier.
const AccessTokenCookie = "access_token"

type contextKey uint8

const identityKey contextKey = iota

// TokenExtractor pulls the access token out of a request. The boolean
// reports whether a token was present at all.
type TokenExtractor func(r *http.Request) (string, bool)

// CookieThenBearer reads the access_token cookie first and falls back to
// an Authorization: Bearer header.
func CookieThenBearer(r *http.Request) (string, bool) {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value, true
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
		return token, true
	}
	return "", false
}

// Resolve validates the extracted token and attaches the identity to the
// request context. Absence and every validation failure alike leave the
// request anonymous: the gate never writes a response, so public routes
// behind it keep working and Require stays the single rejection point.
func Resolve(engine *lectureauth.Engine, extract TokenExtractor) func(http.Handler) http.Handler {
	if extract == nil {
		extract = CookieThenBearer
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extract(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			identity, err := engine.ValidateAccess(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// Require rejects anonymous requests with 401. Place it after Resolve on
// protected routes.
func Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity attaches a validated identity to the context.
func WithIdentity(ctx context.Context, identity *lectureauth.AuthResult) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the identity attached by Resolve.
func IdentityFromContext(ctx context.Context) (*lectureauth.AuthResult, bool) {
	identity, ok := ctx.Value(identityKey).(*lectureauth.AuthResult)
	return identity, ok && identity != nil
}
