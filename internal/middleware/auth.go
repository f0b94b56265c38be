package middleware

import (
	"net/http"
	"strings"

	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const principalKey = "principal"

// Principal is the authenticated account making the request. Handlers
// receive it through the echo context instead of any ambient global.
type Principal struct {
	UserID    uint
	Email     string
	Superuser bool
}

// AuthMiddleware validates the JWT token and stores the principal in the
// request context. Unauthenticated requests are denied with 401.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		c.Set(principalKey, Principal{
			UserID:    claims.UserID,
			Email:     claims.Email,
			Superuser: claims.Superuser,
		})

		return next(c)
	}
}

// GetPrincipal retrieves the authenticated principal from the context.
// Returns false when the request did not pass AuthMiddleware.
func GetPrincipal(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}

// SetPrincipal stores a principal in the context. Exposed for tests that
// invoke handlers without the full middleware chain.
func SetPrincipal(c echo.Context, p Principal) {
	c.Set(principalKey, p)
}
