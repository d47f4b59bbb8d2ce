package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"coursebox/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/secret", JWTMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": c.Locals("userId")})
	})
	return app
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	config.LoadConfig()
	app := protectedApp()

	token, err := GenerateJWT(42, "Test", "teacher", "t@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	config.LoadConfig()
	app := protectedApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/secret", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddleware_MalformedToken(t *testing.T) {
	config.LoadConfig()
	app := protectedApp()

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddleware_WrongScheme(t *testing.T) {
	config.LoadConfig()
	app := protectedApp()

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Basic abc123")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
