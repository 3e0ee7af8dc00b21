package auth

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeMissingField       = "MISSING_FIELD"
	TextCodeEmailInUse         = "EMAIL_IN_USE"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeUnauthenticated    = "UNAUTHENTICATED"
	TextCodeForbidden          = "FORBIDDEN"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeNotFound           = "NOT_FOUND"
	TextCodeStoreFailure       = "STORE_FAILURE"
	TextCodeHashFailure        = "HASH_FAILURE"
	TextCodeTokenSigning       = "TOKEN_SIGNING_FAILURE"
)

// ErrMissingField is returned when a required input is absent or empty
var ErrMissingField = errors.New("please provide all required information", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeMissingField)

// ErrDuplicateEmail is returned when the email is already registered
var ErrDuplicateEmail = errors.New("email already in use", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeEmailInUse)

// ErrInvalidCredentials covers both unknown email and password mismatch
var ErrInvalidCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeInvalidCredentials)

// ErrUnauthenticated is returned when a protected request carries no token
var ErrUnauthenticated = errors.New("access denied", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeUnauthenticated)

// ErrForbidden is returned when a protected request carries a bad or expired token
var ErrForbidden = errors.New("invalid token", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeForbidden)

var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed is the verification outcome for tampered, foreign or unparsable tokens
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeTokenMalformed)

// ErrRecordNotFound is returned by stores when no record matches
var ErrRecordNotFound = errors.New("record not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode(TextCodeNotFound)

// ErrStoreFailure wraps any persistence error that is not a known outcome
var ErrStoreFailure = errors.New("internal server error", errors.CategoryInternal).
	WithCode(errors.CodeInternal).
	WithTextCode(TextCodeStoreFailure)

// ErrHashFailure wraps bcrypt errors other than a mismatch
var ErrHashFailure = errors.New("internal server error", errors.CategoryInternal).
	WithCode(errors.CodeInternal).
	WithTextCode(TextCodeHashFailure)

var ErrTokenSigning = errors.New("internal server error", errors.CategoryInternal).
	WithCode(errors.CodeInternal).
	WithTextCode(TextCodeTokenSigning)

// WrapError returns a copy of base carrying cause as its source.
// Sentinels are shared so they are always cloned before mutation.
func WrapError(base *errors.Error, cause error) *errors.Error {
	clone := base.Clone()
	clone.Source = cause
	return clone
}

// WithMessage returns a copy of base with a different client message
func WithMessage(base *errors.Error, msg string) *errors.Error {
	clone := base.Clone()
	clone.Message = msg
	return clone
}

// WithMetadata returns a copy of base with meta merged in
func WithMetadata(base *errors.Error, meta map[string]any) *errors.Error {
	return base.Clone().WithMetadata(meta)
}

// ErrorIs reports whether any rich error in the chain of err shares
// the text code of target.
func ErrorIs(err error, target *errors.Error) bool {
	if target == nil {
		return false
	}
	var richErr *errors.Error
	for errors.As(err, &richErr) {
		if richErr.TextCode == target.TextCode {
			return true
		}
		err = richErr.Source
	}
	return false
}

// IsInternal reports whether err must be hidden from clients
func IsInternal(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return true
	}
	return richErr.Category == errors.CategoryInternal
}

// StatusCode maps err to the HTTP status it should produce
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Code != 0 {
		return richErr.Code
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message a client may see for err
func PublicMessage(err error) string {
	if IsInternal(err) {
		return ErrStoreFailure.Message
	}
	var richErr *errors.Error
	errors.As(err, &richErr)
	return richErr.Message
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if ErrorIs(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if ErrorIs(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
