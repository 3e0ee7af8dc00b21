package auth

import (
	"net/http"

	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

const redacted = "[redacted]"

func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegistrationCreate).
		SetName("register.post")

	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("sign-in.post")

	return controller
}

type AuthControllerRoutes struct {
	Login    string
	Register string
}

type AuthController struct {
	Debug      bool
	Logger     Logger
	Routes     *AuthControllerRoutes
	Registerer StudentRegisterer
	Auther     Authenticator
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithRegisterer(r StudentRegisterer) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Registerer = r
		return c
	}
}

func WithAuther(a Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = a
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: ResolveLogger("auth.controller", nil, nil),
		Routes: &AuthControllerRoutes{
			Login:    "/login",
			Register: "/register",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Registerer == nil {
		panic("Missing StudentRegisterer in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

// RegistrationCreate handles POST {name, email, password}
func (a *AuthController) RegistrationCreate(c router.Context) error {
	payload := new(RegisterStudentMessage)
	if err := c.Bind(payload); err != nil {
		a.Logger.Debug("Register could not parse body", "error", err)
		return WriteError(c, WrapError(ErrMissingField, err), a.Logger)
	}

	if a.Debug {
		a.Logger.Debug("Register payload", "payload", print.MaybePrettyJSON(RegisterStudentMessage{
			Name:     payload.Name,
			Email:    payload.Email,
			Password: redacted,
		}))
	}

	if _, err := a.Registerer.Execute(c.Context(), *payload); err != nil {
		return WriteError(c, err, a.Logger)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "registration successful",
	})
}

// LoginPost handles POST {email, password} and answers {token}
func (a *AuthController) LoginPost(c router.Context) error {
	payload := new(LoginRequest)
	if err := c.Bind(payload); err != nil {
		a.Logger.Debug("Login could not parse body", "error", err)
		richErr := WrapError(ErrMissingField, err)
		richErr.Message = "please provide an email and a password"
		return WriteError(c, richErr, a.Logger)
	}

	if a.Debug {
		a.Logger.Debug("Login payload", "payload", print.MaybePrettyJSON(LoginRequest{
			Email:    payload.Email,
			Password: redacted,
		}))
	}

	token, err := a.Auther.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return WriteError(c, err, a.Logger)
	}

	return c.JSON(http.StatusOK, map[string]any{"token": token})
}
