package auth

import (
	"context"
	"time"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// LoggerProvider hands out named loggers
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// PasswordHasher derives and checks salted password digests
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, digest string) (bool, error)
}

// TokenService issues and verifies session tokens
type TokenService interface {
	Issue(subjectID string) (string, error)
	Verify(token string) (*SessionClaims, error)
}

// StudentStore persists student accounts. Create fails with
// ErrDuplicateEmail when the email is taken and lookups fail with
// ErrRecordNotFound when nothing matches, every other failure is
// reported as ErrStoreFailure.
type StudentStore interface {
	Create(ctx context.Context, record *Student) (*Student, error)
	FindByEmail(ctx context.Context, email string) (*Student, error)
	FindByID(ctx context.Context, id string) (*Student, error)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	SessionFromToken(token string) (*SessionClaims, error)
}

// StudentRegisterer runs the registration flow
type StudentRegisterer interface {
	Execute(ctx context.Context, msg RegisterStudentMessage) (*Student, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() time.Duration
	GetIssuer() string
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
}
