package jwtware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-router"
)

var (
	defaultTokenLookup = "header:" + router.HeaderAuthorization

	// ErrJWTMissing is reported when no extractor finds a token
	ErrJWTMissing = errors.New("missing or malformed JWT")
)

// Claims mirrors the session claims from the auth package without the import
type Claims interface {
	Subject() string
}

// TokenValidator validates raw tokens and returns their claims
type TokenValidator interface {
	Validate(tokenString string) (Claims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (Claims, error)

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string) (Claims, error) {
	return f(tokenString)
}

// ValidationListener is invoked after a token has been validated and
// before the protected handler runs. A non nil error rejects the request.
type ValidationListener func(c router.Context, claims Claims) error

// ErrorHandler renders a rejected request
type ErrorHandler func(c router.Context, err error) error

type Config struct {
	Filter func(router.Context) bool
	// SuccessHandler runs once the token is accepted, it defaults to the
	// next handler in the chain.
	SuccessHandler router.HandlerFunc
	// ErrorHandler receives ErrJWTMissing when no token was found and
	// the validator error otherwise.
	ErrorHandler ErrorHandler
	ContextKey   string
	TokenLookup  string
	AuthScheme   string
	// TokenValidator is required for token validation
	TokenValidator TokenValidator

	// ContextEnricher propagates claims to the request context
	ContextEnricher func(c context.Context, claims Claims) context.Context

	ValidationListeners []ValidationListener
}

// New returns router middleware that rejects requests without a valid token
func New(config ...Config) router.MiddlewareFunc {
	cfg := GetDefaultConfig(config...)
	extractors := cfg.getExtractors()

	return func(next router.HandlerFunc) router.HandlerFunc {
		success := cfg.SuccessHandler
		if success == nil {
			success = next
		}

		return func(c router.Context) error {
			if cfg.Filter != nil && cfg.Filter(c) {
				return next(c)
			}

			raw, err := ExtractRawToken(c, extractors)
			if err != nil {
				return cfg.ErrorHandler(c, err)
			}

			claims, err := cfg.TokenValidator.Validate(raw)
			if err != nil {
				return cfg.ErrorHandler(c, err)
			}

			if err := cfg.runValidationListeners(c, claims); err != nil {
				return cfg.ErrorHandler(c, err)
			}

			c.Set(cfg.ContextKey, claims)

			if cfg.ContextEnricher != nil {
				c.SetContext(cfg.ContextEnricher(c.Context(), claims))
			}

			return success(c)
		}
	}
}

// IsMissingToken reports whether err means no token was presented
func IsMissingToken(err error) bool {
	return errors.Is(err, ErrJWTMissing)
}

func ExtractRawToken(c router.Context, extractors []JWTExtractor) (string, error) {
	for _, extractor := range extractors {
		raw, err := extractor(c)
		if raw != "" && err == nil {
			return raw, nil
		}
	}
	return "", ErrJWTMissing
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			if IsMissingToken(err) {
				return c.JSON(http.StatusUnauthorized, map[string]any{"message": "access denied"})
			}
			return c.JSON(http.StatusForbidden, map[string]any{"message": "invalid token"})
		}
	}

	if cfg.TokenValidator == nil {
		panic("AUTH: JWT middleware configuration: TokenValidator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

func (cfg *Config) getExtractors() []JWTExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

func (cfg *Config) runValidationListeners(c router.Context, claims Claims) error {
	for _, listener := range cfg.ValidationListeners {
		if listener == nil {
			continue
		}
		if err := listener(c, claims); err != nil {
			return err
		}
	}
	return nil
}

// GetExtractors parses a lookup such as
// "header:Authorization,query:auth_token,param:token". Unknown sources
// are skipped.
func GetExtractors(tokenLookup string, authSchemes ...string) []JWTExtractor {
	extractors := make([]JWTExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, jwtFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, jwtFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, jwtFromParam(parts[1]))
		}
	}

	return extractors
}

type JWTExtractor func(c router.Context) (string, error)

// jwtFromHeader extracts the token from a request header. Both
// "<scheme> <token>" and a bare token are accepted.
func jwtFromHeader(header string, authScheme string) JWTExtractor {
	authScheme = strings.TrimSpace(authScheme)
	return func(c router.Context) (string, error) {
		a := strings.TrimSpace(c.Header(header))
		if a == "" {
			return "", ErrJWTMissing
		}
		l := len(authScheme)
		if l > 0 && strings.EqualFold(a, authScheme) {
			return "", ErrJWTMissing
		}
		if l > 0 && len(a) > l && strings.EqualFold(a[:l], authScheme) && a[l] == ' ' {
			token := strings.TrimSpace(a[l:])
			if token == "" {
				return "", ErrJWTMissing
			}
			return token, nil
		}
		return a, nil
	}
}

// jwtFromQuery returns a function that extracts token from the query string.
func jwtFromQuery(param string) JWTExtractor {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrJWTMissing
		}
		return token, nil
	}
}

// jwtFromParam returns a function that extracts token from the url param string.
func jwtFromParam(param string) JWTExtractor {
	return func(c router.Context) (string, error) {
		token := c.Param(param, "")
		if token == "" {
			return "", ErrJWTMissing
		}
		return token, nil
	}
}
