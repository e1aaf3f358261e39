package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-fbr-backend/middlewares"
)

func TestMain(m *testing.M) {
	// The secret is loaded once per process; set it before any token is
	// generated or verified.
	os.Setenv("JWT_SECRET_KEY", "test-secret-for-unit-tests")
	os.Exit(m.Run())
}

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", middlewares.IsAuthenticatedHeader(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":  c.Locals("userID"),
			"username": c.Locals("username"),
			"admin":    c.Locals("admin"),
		})
	})
	return app
}

func TestAuth_ValidTokenPasses(t *testing.T) {
	app := protectedApp()

	token, err := middlewares.GenerateJWT("42", "cashier1", false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuth_MissingHeaderRejected(t *testing.T) {
	app := protectedApp()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_GarbageTokenRejected(t *testing.T) {
	app := protectedApp()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
