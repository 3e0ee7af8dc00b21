package auth

import (
	"context"

	"github.com/goliatone/go-campus-auth/middleware/jwtware"
)

// ValidationListener aliases the jwtware listener so consumers can use auth helpers directly.
type ValidationListener = jwtware.ValidationListener

// ContextEnricherAdapter stores the verified claims and the student id in
// the standard request context.
func ContextEnricherAdapter(c context.Context, claims jwtware.Claims) context.Context {
	if claims == nil {
		return c
	}

	if sessionClaims, ok := claims.(*SessionClaims); ok {
		c = WithClaimsContext(c, sessionClaims)
	}

	return WithSubjectContext(c, claims.Subject())
}

// RegisterValidationListeners appends listeners to a jwtware.Config in a safe, reusable way.
func RegisterValidationListeners(cfg *jwtware.Config, listeners ...ValidationListener) {
	if cfg == nil || len(listeners) == 0 {
		return
	}
	cfg.ValidationListeners = append(cfg.ValidationListeners, listeners...)
}
