package echo

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/velmik/auth-service/api"
)

const (
	userIDContextKey = "auth.userID"
	tokenContextKey  = "auth.token"
)

// RequireAuth guards a route with bearer-token authentication. The denylist
// is consulted before the signature so a blacklisted token fails fast with a
// distinct message; a denylist outage fails the request closed.
func (a *AuthAPI) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return c.JSON(http.StatusUnauthorized, api.MessageResponse{Message: "Access denied. No token provided."})
		}

		ctx := c.Request().Context()

		revoked, err := a.denylist.IsRevoked(ctx, token)
		if err != nil {
			log.Error().Err(err).Msg("denylist check failed")
			return c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: "Internal Server Error"})
		}
		if revoked {
			return c.JSON(http.StatusForbidden, api.MessageResponse{Message: "Token is blacklisted. Please log in again."})
		}

		claims, err := a.tokens.Verify(token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.MessageResponse{Message: "Invalid or expired token"})
		}

		c.Set(userIDContextKey, claims.Subject)
		c.Set(tokenContextKey, token)

		return next(c)
	}
}

// bearerToken extracts the token from the Authorization header, or "" when
// the header is absent or not a bearer scheme.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// authenticatedUserID returns the subject stashed by RequireAuth.
func authenticatedUserID(c echo.Context) string {
	userID, _ := c.Get(userIDContextKey).(string)
	return userID
}
