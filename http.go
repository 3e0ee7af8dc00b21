package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"

	"github.com/goliatone/go-campus-auth/middleware/jwtware"
)

// RouteAuthenticator guards routes with session tokens
type RouteAuthenticator struct {
	validator        TokenValidator
	cfg              Config
	Logger           Logger
	AuthErrorHandler func(router.Context, error) error
	listeners        []jwtware.ValidationListener
}

// NewHTTPAuthenticator builds a guard that verifies tokens with validator
func NewHTTPAuthenticator(validator TokenValidator, cfg Config) *RouteAuthenticator {
	a := &RouteAuthenticator{
		validator: validator,
		cfg:       cfg,
		Logger:    ResolveLogger("auth.http", nil, nil),
	}
	a.AuthErrorHandler = a.defaultAuthErrHandler
	return a
}

// WithValidationListeners runs listeners after a token verifies
func (a *RouteAuthenticator) WithValidationListeners(listeners ...jwtware.ValidationListener) *RouteAuthenticator {
	a.listeners = append(a.listeners, listeners...)
	return a
}

// ProtectedRoute returns middleware that only lets authenticated requests
// through. Missing tokens get 401, invalid or expired tokens get 403. On
// success the student id is available through SubjectFromRequest.
func (a *RouteAuthenticator) ProtectedRoute() router.MiddlewareFunc {
	cfg := jwtware.Config{
		ErrorHandler:        a.AuthErrorHandler,
		TokenValidator:      JWTValidator(a.validator),
		ContextEnricher:     ContextEnricherAdapter,
		ValidationListeners: a.listeners,
	}
	if a.cfg != nil {
		cfg.AuthScheme = a.cfg.GetAuthScheme()
		cfg.ContextKey = a.cfg.GetContextKey()
		cfg.TokenLookup = a.cfg.GetTokenLookup()
	}
	return jwtware.New(cfg)
}

func (a *RouteAuthenticator) defaultAuthErrHandler(c router.Context, err error) error {
	if jwtware.IsMissingToken(err) {
		return WriteError(c, ErrUnauthenticated, a.Logger)
	}

	// the reason stays server side, clients only see a generic 403
	reason := "invalid"
	if IsTokenExpiredError(err) {
		reason = "expired"
	}
	a.Logger.Debug("Protected route rejected token", "reason", reason, "path", c.Path())

	return WriteError(c, WrapError(ErrForbidden, err), a.Logger)
}

// WriteError renders err as {"message": ...} with its mapped status.
// Internal errors are logged with their cause and rendered generically.
func WriteError(c router.Context, err error, logger Logger) error {
	status := StatusCode(err)
	message := PublicMessage(err)

	if IsInternal(err) {
		if logger != nil {
			logger.Error("Request failed", "error", err, "path", c.Path(), "method", c.Method())
		}
		status = http.StatusInternalServerError
		message = ErrStoreFailure.Message
	}

	return c.JSON(status, map[string]any{"message": message})
}

// FiberErrorHandler is the app level fallback for errors returned by handlers
func FiberErrorHandler(logger Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}
		return WriteError(router.NewFiberContext(c), err, logger)
	}
}
