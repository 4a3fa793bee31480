package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"skill-bridge/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJWT struct {
	claims jwt.Claims
	err    error
}

func (s stubJWT) ValidateToken(string) (jwt.Claims, error) { return s.claims, s.err }

func call(t *testing.T, app *fiber.App, authHeader string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return resp.StatusCode, out
}

func newAuthApp(svc jwt.Service) *fiber.App {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Use(NewAuthMiddleware(svc).Middleware())
	app.Get("/me", func(c fiber.Ctx) error {
		id, _ := c.Locals(CtxUserIDKey).(uuid.UUID)
		return c.JSON(fiber.Map{"user_id": id.String()})
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	uid := uuid.New()
	ok := newAuthApp(stubJWT{claims: jwt.Claims{UserID: uid, TokenType: jwt.TokenTypeAccess}})

	status, out := call(t, ok, "Bearer abc")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, uid.String(), out["user_id"])

	status, out = call(t, ok, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", out["message"])

	status, _ = call(t, ok, "Basic abc")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	expired := newAuthApp(stubJWT{err: jwt.ErrTokenExpired})
	status, out = call(t, expired, "Bearer abc")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Token expired", out["message"])
}

func TestErrorMiddleware_RecoversPanic(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Get("/me", func(c fiber.Ctx) error { panic("boom") })

	status, out := call(t, app, "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", out["message"])
}

func TestErrorMiddleware_HidesInternalCause(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Get("/me", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusServiceUnavailable, "pool exhausted", nil, nil)
	})

	status, out := call(t, app, "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", out["message"])
}

func TestAccessLogMiddleware_SetsRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(nil).Middleware())
	app.Get("/me", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(HeaderRequestID, "rid-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "rid-1", resp.Header.Get(HeaderRequestID))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
}
