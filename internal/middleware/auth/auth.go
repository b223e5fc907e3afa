package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dhnshshettigar/sweet-shop-backend/internal/tokens"
)

const identityKey = "identity"

type Middleware struct {
	JWTSecret []byte
}

func New(secret []byte) *Middleware {
	return &Middleware{JWTSecret: secret}
}

// RequireAuth extracts and verifies the bearer token and attaches the
// decoded claims to the request context. Claims are trusted as of
// issuance; there is no store re-fetch.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization required: No token provided.")
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization failed: Invalid or expired token.")
		}

		c.Set(identityKey, claims)
		return next(c)
	}
}

// AdminOnly runs after RequireAuth. The missing-identity branch guards
// against gate mis-ordering.
func (m *Middleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := Identity(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization required: User data missing.")
		}
		if claims.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "Forbidden: Admin access required.")
		}
		return next(c)
	}
}

func Identity(c echo.Context) (*tokens.AccessClaims, bool) {
	claims, ok := c.Get(identityKey).(*tokens.AccessClaims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}
