package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a session token. The only
// application claim is the student id, everything else is registered.
type SessionClaims struct {
	jwt.RegisteredClaims
	StudentID string `json:"id"`
}

// Subject returns the authenticated student id
func (c *SessionClaims) Subject() string {
	if c.StudentID != "" {
		return c.StudentID
	}
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration time, zero if unset
func (c *SessionClaims) Expires() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// IssuedAt returns the issue time, zero if unset
func (c *SessionClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.IssuedAt.Time
}
