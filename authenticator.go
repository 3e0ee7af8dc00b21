package auth

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
)

type Auther struct {
	store        StudentStore
	hasher       PasswordHasher
	tokenService TokenService
	logger       Logger
	activitySink ActivitySink
	decoyDigest  string
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator. The decoy digest
// verified for unknown emails is computed up front.
func NewAuthenticator(store StudentStore, hasher PasswordHasher, tokens TokenService) *Auther {
	return &Auther{
		store:        store,
		hasher:       hasher,
		tokenService: tokens,
		logger:       ResolveLogger("auth.login", nil, nil),
		activitySink: noopActivitySink{},
		decoyDigest:  RandomPasswordHash(),
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login exchanges credentials for a session token. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	req := LoginRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return "", err
	}

	email = NormalizeEmail(email)

	student, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if ErrorIs(err, ErrRecordNotFound) {
			// burn a comparable amount of time so the response does
			// not reveal whether the email exists
			_, _ = s.hasher.Verify(ctx, password, s.decoyDigest)
			s.emitAuthEvent(ctx, ActivityEventLoginFailure, "", map[string]any{
				"reason": "unknown_email",
			})
			return "", ErrInvalidCredentials
		}
		s.logger.Error("Login lookup error", "error", err)
		return "", asStoreFailure(err)
	}

	matched, err := s.hasher.Verify(ctx, password, student.PasswordHash)
	if err != nil {
		s.logger.Error("Login verify password error", "error", err, "student_id", student.ID.String())
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return "", richErr
		}
		return "", WrapError(ErrHashFailure, err)
	}

	if !matched {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, student.ID.String(), map[string]any{
			"reason": "password_mismatch",
		})
		return "", ErrInvalidCredentials
	}

	token, err := s.tokenService.Issue(student.ID.String())
	if err != nil {
		s.logger.Error("Login failed to issue token", "error", err)
		if ErrorIs(err, ErrTokenSigning) {
			return "", err
		}
		return "", WrapError(ErrTokenSigning, err)
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, student.ID.String(), nil)

	return token, nil
}

// SessionFromToken verifies token and returns its claims
func (s *Auther) SessionFromToken(token string) (*SessionClaims, error) {
	claims, err := s.tokenService.Verify(token)
	if err != nil {
		s.logger.Debug("SessionFromToken rejected token", "expired", IsTokenExpiredError(err))
		return nil, err
	}
	return claims, nil
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, studentID string, metadata map[string]any) {
	emitActivity(ctx, s.activitySink, s.logger, ActivityEvent{
		EventType: eventType,
		StudentID: studentID,
		Metadata:  metadata,
	})
}

func asStoreFailure(err error) error {
	if ErrorIs(err, ErrStoreFailure) {
		return err
	}
	return WrapError(ErrStoreFailure, err)
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate requires both email and password
func (r LoginRequest) Validate() error {
	n := LoginRequest{Email: NormalizeEmail(r.Email), Password: r.Password}
	if err := validation.ValidateStruct(&n,
		validation.Field(&n.Email, validation.Required),
		validation.Field(&n.Password, validation.Required),
	); err != nil {
		richErr := WrapError(ErrMissingField, err)
		richErr.Message = "please provide an email and a password"
		return richErr.WithMetadata(map[string]any{"fields": validationFields(err)})
	}
	return nil
}
