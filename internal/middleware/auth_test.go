package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invokeAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, *Principal) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured *Principal
	next := func(c echo.Context) error {
		if p, ok := GetPrincipal(c); ok {
			captured = &p
		}
		return c.NoContent(http.StatusOK)
	}

	require.NoError(t, AuthMiddleware(next)(c))
	return rec, captured
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	rec, principal := invokeAuth(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, principal)
}

func TestAuthMiddlewareBadFormat(t *testing.T) {
	rec, principal := invokeAuth(t, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, principal)
}

func TestAuthMiddlewareGarbageToken(t *testing.T) {
	rec, principal := invokeAuth(t, "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, principal)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	token, err := jwtutil.GenerateToken("admin@example.com", 7, true)
	require.NoError(t, err)

	rec, principal := invokeAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	assert.Equal(t, uint(7), principal.UserID)
	assert.Equal(t, "admin@example.com", principal.Email)
	assert.True(t, principal.Superuser)
}
