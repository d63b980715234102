package accounts

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
)

// AuthControllerRoutes holds the route paths for the lifecycle endpoints
type AuthControllerRoutes struct {
	Register string
	Login    string
	Activate string
}

// AuthController maps the lifecycle operations onto HTTP 1:1: 200 with the
// operation result on success, 400 with the same envelope on recoverable
// failure, 500 only when a collaborator fails.
type AuthController struct {
	Debug  bool
	Logger Logger
	Auther Authenticator
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithControllerRoutes(routes *AuthControllerRoutes) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if routes != nil {
			c.Routes = routes
		}
		return c
	}
}

func NewAuthController(auther Authenticator, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Auther: auther,
		Routes: &AuthControllerRoutes{
			Register: "/auth/register",
			Login:    "/auth/login",
			Activate: "/auth/activate/:token",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the lifecycle endpoints on the app
func RegisterAuthRoutes(app *fiber.App, controller *AuthController) {
	app.Post(controller.Routes.Register, controller.RegisterPost)
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Get(controller.Routes.Activate, controller.ActivateGet)
}

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegistrationRequest)
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("RegisterPost body parse error: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(Result{Error: true, Message: "Invalid request payload"})
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(payload))
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Result{Error: true, Message: err.Error()})
	}

	res, err := a.Auther.Register(c.UserContext(), *payload)
	if err != nil {
		a.Logger.Error("RegisterPost error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(Result{Error: true, Message: "Something Went Wrong"})
	}

	if res.Error {
		return c.Status(fiber.StatusBadRequest).JSON(res)
	}
	return c.JSON(res)
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("LoginPost body parse error: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(LoginResult{Result: Result{Error: true, Message: "Invalid request payload"}})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(LoginResult{Result: Result{Error: true, Message: err.Error()}})
	}

	res, err := a.Auther.Login(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		a.Logger.Error("LoginPost error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(LoginResult{Result: Result{Error: true, Message: "Something Went Wrong"}})
	}

	if res.Error {
		return c.Status(fiber.StatusBadRequest).JSON(res)
	}
	return c.JSON(res)
}

func (a *AuthController) ActivateGet(c *fiber.Ctx) error {
	token := c.Params("token")

	res, err := a.Auther.Activate(c.UserContext(), token)
	if err != nil {
		a.Logger.Error("ActivateGet error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(Result{Error: true, Message: "Something Went Wrong"})
	}

	if res.Error {
		return c.Status(fiber.StatusBadRequest).JSON(res)
	}
	return c.JSON(res)
}
