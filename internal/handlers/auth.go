package handlers

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/labstack/echo/v4"

	"github.com/dhnshshettigar/sweet-shop-backend/internal/logging"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/repo"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/service"
)

type AuthHandler struct {
	Svc *service.AuthService
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Must be a valid email address."),
			is.Email.Error("Must be a valid email address."),
		),
		validation.Field(&r.Password,
			validation.Required.Error("Password must be at least 8 characters long."),
			validation.Length(8, 0).Error("Password must be at least 8 characters long."),
		),
	)
}

// LoginRequest shares the registration shape and rules.
type LoginRequest RegisterRequest

func (r LoginRequest) Validate() error {
	return RegisterRequest(r).Validate()
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("register_error", "status", 400, "reason", "validation failed")
		return validationFailed(c, err)
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, "Registration failed: Email already in use.")
		}
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("login_error", "status", 400, "reason", "validation failed")
		return validationFailed(c, err)
	}

	token, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Login failed: Invalid credentials.")
		}
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
	})
}
