package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arzan03/CourseHub/internal/handlers"
	"github.com/arzan03/CourseHub/internal/logger"
	"github.com/arzan03/CourseHub/internal/middleware"
	"github.com/arzan03/CourseHub/internal/services"
	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(issuer *services.TokenIssuer) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler(logger.Nop())})
	app.Use(middleware.RequestLogger(logger.Nop()))
	app.Get("/me", middleware.Auth(issuer), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"email": middleware.Email(c), "role": middleware.Role(c)})
	})
	app.Get("/admin", middleware.Auth(issuer), middleware.RequireRole(services.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/user", middleware.Auth(issuer), middleware.RequireUser(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := map[string]string{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	return resp.StatusCode, body
}

func TestAuthMissingHeader(t *testing.T) {
	app := setupApp(services.NewTokenIssuer(services.TokenConfig{Secret: "s", AdminTokenTTL: time.Hour}))

	status, body := doRequest(t, app, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "No token", body["message"])
}

func TestAuthInvalidTokens(t *testing.T) {
	issuer := services.NewTokenIssuer(services.TokenConfig{Secret: "s", AdminTokenTTL: time.Hour})
	other := services.NewTokenIssuer(services.TokenConfig{Secret: "other", AdminTokenTTL: time.Hour})
	app := setupApp(issuer)

	foreign, err := other.IssueUserToken("u@x.com")
	require.NoError(t, err)

	for _, header := range []string{"Bearer", "Bearer garbage", "Bearer " + foreign, "Token " + foreign} {
		status, body := doRequest(t, app, "/me", header)
		assert.Equal(t, http.StatusUnauthorized, status, header)
		assert.Equal(t, "Invalid token", body["message"], header)
	}
}

func TestAuthStoresClaims(t *testing.T) {
	issuer := services.NewTokenIssuer(services.TokenConfig{Secret: "s", AdminTokenTTL: time.Hour})
	app := setupApp(issuer)

	token, err := issuer.IssueAdminToken("a@x.com")
	require.NoError(t, err)

	status, body := doRequest(t, app, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole(t *testing.T) {
	issuer := services.NewTokenIssuer(services.TokenConfig{Secret: "s", AdminTokenTTL: time.Hour})
	app := setupApp(issuer)

	userToken, err := issuer.IssueUserToken("u@x.com")
	require.NoError(t, err)
	status, body := doRequest(t, app, "/admin", "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Admin access required", body["message"])

	// Tokens minted with the capitalised role are still accepted.
	legacy, err := issuer.Issue("a@x.com", "Admin", time.Hour)
	require.NoError(t, err)
	status, _ = doRequest(t, app, "/admin", "Bearer "+legacy)
	assert.Equal(t, http.StatusOK, status)
}

func TestRequireUser(t *testing.T) {
	issuer := services.NewTokenIssuer(services.TokenConfig{Secret: "s", AdminTokenTTL: time.Hour})
	app := setupApp(issuer)

	userToken, err := issuer.IssueUserToken("v@x.com")
	require.NoError(t, err)
	status, _ := doRequest(t, app, "/user", "Bearer "+userToken)
	assert.Equal(t, http.StatusOK, status)

	adminToken, err := issuer.IssueAdminToken("v@x.com")
	require.NoError(t, err)
	status, body := doRequest(t, app, "/user", "Bearer "+adminToken)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "User access required", body["message"])
}
