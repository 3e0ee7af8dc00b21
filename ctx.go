package auth

import (
	"context"

	"github.com/goliatone/go-router"
)

var subjectCtxKey = &contextKey{"subject"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithSubjectContext sets the authenticated student id in the given context
func WithSubjectContext(r context.Context, subjectID string) context.Context {
	return context.WithValue(r, subjectCtxKey, subjectID)
}

// SubjectFromContext finds the authenticated student id in the context.
func SubjectFromContext(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(subjectCtxKey).(string)
	return raw, ok && raw != ""
}

// WithClaimsContext sets the SessionClaims in the given context
func WithClaimsContext(r context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the SessionClaims from the standard context
func GetClaims(ctx context.Context) (*SessionClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*SessionClaims)
	return raw, ok && raw != nil
}

// GetRouterClaims extracts the SessionClaims the middleware stored in
// the request store
func GetRouterClaims(c router.Context, key string) (*SessionClaims, bool) {
	if key == "" {
		key = "user" // Default key used by JWT middleware
	}
	claims, ok := c.Get(key, nil).(*SessionClaims)
	return claims, ok && claims != nil
}

// SubjectFromRequest returns the authenticated student id for a request
// that went through the protected route middleware.
func SubjectFromRequest(c router.Context) (string, bool) {
	if sub, ok := SubjectFromContext(c.Context()); ok {
		return sub, true
	}
	if claims, ok := GetRouterClaims(c, ""); ok {
		return claims.Subject(), claims.Subject() != ""
	}
	return "", false
}
