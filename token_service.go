package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of a session token
const DefaultTokenTTL = time.Hour

// TokenServiceImpl implements the TokenService interface with HS256
type TokenServiceImpl struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	now        func() time.Time
	logger     Logger
}

type TokenServiceOption func(*TokenServiceImpl)

// WithIssuer sets the iss claim and requires it on verification
func WithIssuer(issuer string) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		ts.issuer = issuer
	}
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if now != nil {
			ts.now = now
		}
	}
}

// WithTokenLogger sets the logger used on verification failures
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// NewTokenService creates a new TokenService instance. A non positive
// ttl falls back to DefaultTokenTTL.
func NewTokenService(signingKey []byte, ttl time.Duration, opts ...TokenServiceOption) *TokenServiceImpl {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	ts := &TokenServiceImpl{
		signingKey: signingKey,
		ttl:        ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(ts)
	}
	if ts.logger == nil {
		ts.logger = ResolveLogger("auth.tokens", nil, nil)
	}
	return ts
}

// NewTokenServiceFromConfig builds a service from a Config
func NewTokenServiceFromConfig(cfg Config, opts ...TokenServiceOption) *TokenServiceImpl {
	opts = append([]TokenServiceOption{WithIssuer(cfg.GetIssuer())}, opts...)
	return NewTokenService([]byte(cfg.GetSigningKey()), cfg.GetTokenExpiration(), opts...)
}

// TTL returns the token lifetime
func (ts *TokenServiceImpl) TTL() time.Duration {
	return ts.ttl
}

// Issue creates a signed token for subjectID that expires after the
// configured TTL.
func (ts *TokenServiceImpl) Issue(subjectID string) (string, error) {
	if subjectID == "" {
		return "", WrapError(ErrTokenSigning, errors.New("subject must not be empty"))
	}

	now := ts.now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
		StudentID: subjectID,
	}

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary session claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *SessionClaims) (string, error) {
	if claims == nil {
		return "", WrapError(ErrTokenSigning, errors.New("claims must not be nil"))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", WrapError(ErrTokenSigning, err)
	}

	return signedString, nil
}

// Verify checks the signature, algorithm and expiry of token and returns
// its claims. The error is ErrTokenExpired or ErrTokenMalformed.
func (ts *TokenServiceImpl) Verify(tokenString string) (*SessionClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Debug("TokenService verify encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, WrapError(ErrTokenExpired, err)
		}
		return nil, WrapError(ErrTokenMalformed, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject() == "" {
		ts.logger.Debug("TokenService verify could not decode session claims")
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
