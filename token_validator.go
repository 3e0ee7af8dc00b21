package auth

import (
	"github.com/goliatone/go-campus-auth/middleware/jwtware"
)

// TokenValidator verifies tokens without tying callers to a signing implementation.
type TokenValidator interface {
	Verify(tokenString string) (*SessionClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (*SessionClaims, error)

// Verify satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Verify(tokenString string) (*SessionClaims, error) {
	if f == nil {
		return nil, ErrTokenMalformed
	}
	return f(tokenString)
}

// MultiTokenValidator tries validators in order until one succeeds.
// ErrTokenMalformed means "try next", any other error is final. Used to
// keep accepting tokens signed with a retired secret during rotation.
type MultiTokenValidator struct {
	validators []TokenValidator
}

// NewMultiTokenValidator filters nil validators and returns a composite validator.
func NewMultiTokenValidator(validators ...TokenValidator) *MultiTokenValidator {
	filtered := make([]TokenValidator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			filtered = append(filtered, v)
		}
	}
	return &MultiTokenValidator{validators: filtered}
}

// Verify satisfies the TokenValidator interface.
func (m *MultiTokenValidator) Verify(tokenString string) (*SessionClaims, error) {
	var lastErr error
	for _, v := range m.validators {
		claims, err := v.Verify(tokenString)
		if err == nil {
			return claims, nil
		}
		if ErrorIs(err, ErrTokenMalformed) {
			lastErr = err
			continue
		}
		return nil, err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrTokenMalformed
}

// JWTValidator adapts a TokenValidator to the jwtware middleware
func JWTValidator(v TokenValidator) jwtware.TokenValidator {
	return jwtware.TokenValidatorFunc(func(raw string) (jwtware.Claims, error) {
		claims, err := v.Verify(raw)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}
