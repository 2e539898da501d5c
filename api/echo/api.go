package echo

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/velmik/auth-service/api"
	"github.com/velmik/auth-service/cache"
	"github.com/velmik/auth-service/domain"
	"github.com/velmik/auth-service/services"
)

// AuthAPI struct to hold dependencies.
type AuthAPI struct {
	service  *services.AuthService
	tokens   *services.TokenService
	denylist cache.Denylist
}

// NewAuthAPI initializes the authentication API.
func NewAuthAPI(service *services.AuthService, tokens *services.TokenService, denylist cache.Denylist) *AuthAPI {
	return &AuthAPI{
		service:  service,
		tokens:   tokens,
		denylist: denylist,
	}
}

// RegisterRoutes registers the authentication routes.
func (a *AuthAPI) RegisterRoutes(e *echo.Echo) {
	e.POST("/signup", a.SignupHandler)
	e.POST("/login", a.LoginHandler)
	e.POST("/logout", a.LogoutHandler, a.RequireAuth)
	e.GET("/me", a.MeHandler, a.RequireAuth)
	e.POST("/forgot-password", a.ForgotPasswordHandler)
	e.POST("/reset-password/:token", a.ResetPasswordHandler)
}

// SignupHandler registers a new user and returns 201 on success. A duplicate
// email or missing field is a 400.
func (a *AuthAPI) SignupHandler(c echo.Context) error {
	var req api.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "Invalid request body"})
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "Missing required fields"})
	}

	ctx := c.Request().Context()

	if _, err := a.service.Signup(ctx, services.SignupParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "Email already in use"})
		}
		return a.internalError(c, err, "signup failed")
	}

	return c.JSON(http.StatusCreated, api.MessageResponse{Message: "User registered successfully"})
}

// LoginHandler verifies credentials and returns a session token. The error
// message never distinguishes an unknown email from a wrong password.
func (a *AuthAPI) LoginHandler(c echo.Context) error {
	var req api.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "Invalid request body"})
	}

	ctx := c.Request().Context()

	token, err := a.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "Invalid credentials"})
		}
		return a.internalError(c, err, "login failed")
	}

	return c.JSON(http.StatusOK, api.LoginResponse{Message: "Login successfully", Token: token})
}

// LogoutHandler denylists the presented token for its remaining lifetime.
func (a *AuthAPI) LogoutHandler(c echo.Context) error {
	token := bearerToken(c)

	if err := a.service.Logout(c.Request().Context(), token); err != nil {
		if errors.Is(err, domain.ErrTokenMalformed) {
			return c.JSON(http.StatusUnauthorized, api.MessageResponse{Message: "Invalid token"})
		}
		return a.internalError(c, err, "logout failed")
	}

	return c.JSON(http.StatusOK, api.MessageResponse{Message: "Logged out successfully"})
}

// MeHandler returns the authenticated user's record. The password hash is
// never serialized.
func (a *AuthAPI) MeHandler(c echo.Context) error {
	userID := authenticatedUserID(c)

	user, err := a.service.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, api.MessageResponse{Message: "User not found"})
		}
		return a.internalError(c, err, "current user lookup failed")
	}

	return c.JSON(http.StatusOK, user)
}

// ForgotPasswordHandler issues a reset token and emails the reset link.
// An unknown email is a 400 "User not found"; this reveals account existence
// and is kept deliberately for compatibility with the observed behavior.
func (a *AuthAPI) ForgotPasswordHandler(c echo.Context) error {
	var req api.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "Invalid request body"})
	}

	ctx := c.Request().Context()

	if err := a.service.ForgotPassword(ctx, req.Email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "User not found"})
		}
		// The user depends on receiving the link, so a delivery failure is
		// a hard 500 here, unlike the other notification mails.
		return a.internalError(c, err, "forgot-password failed")
	}

	return c.JSON(http.StatusOK, api.MessageResponse{Message: "Reset link sent successfully"})
}

// ResetPasswordHandler consumes the reset token and updates the password.
func (a *AuthAPI) ResetPasswordHandler(c echo.Context) error {
	token := c.Param("token")

	var req api.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "Invalid request body"})
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "Missing required fields"})
	}

	ctx := c.Request().Context()

	if err := a.service.ResetPassword(ctx, token, req.Password); err != nil {
		if errors.Is(err, domain.ErrResetTokenInvalid) {
			return c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "Invalid or expired token"})
		}
		return a.internalError(c, err, "reset-password failed")
	}

	return c.JSON(http.StatusOK, api.MessageResponse{Message: "Password reset successful"})
}

// internalError logs the fault, reports it and answers a generic 500 with
// details suppressed from the client.
func (a *AuthAPI) internalError(c echo.Context, err error, msg string) error {
	log.Error().Err(err).Str("path", c.Path()).Msg(msg)
	sentry.CaptureException(err)
	return c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: "Internal Server Error"})
}
