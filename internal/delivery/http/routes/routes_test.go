package routes

import (
	"context"
	"net/http/httptest"
	"testing"

	"skill-bridge/internal/delivery/http/handler"
	"skill-bridge/internal/delivery/http/middleware"
	v1 "skill-bridge/internal/delivery/http/routes/v1"
	"skill-bridge/internal/pkg/jwt"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubList struct{}

func (stubList) CoursesForProfile(context.Context, uuid.UUID, usecase.RecommendationListParams) ([]usecase.CourseRecommendationItem, error) {
	return nil, nil
}

func (stubList) VacanciesForProfile(context.Context, uuid.UUID, usecase.RecommendationListParams) ([]usecase.VacancyRecommendationItem, error) {
	return nil, nil
}

func newApp(auth *middleware.AuthMiddleware) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	NewRegistry(handler.NewHealthHandler(nil), nil, v1.Handlers{
		Auth:    auth,
		Listing: handler.NewRecommendationListHandler(stubList{}),
		Catalog: handler.NewCatalogHandler(nil),
	}).Register(app)
	return app
}

func TestRegistry_AuthProtectsAPI(t *testing.T) {
	app := newApp(middleware.NewAuthMiddleware(jwt.NewHMACService("secret")))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/recommendations/courses/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodPost, "/api/v1/courses", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRegistry_WithoutAuth(t *testing.T) {
	app := newApp(nil)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/recommendations/vacancies/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
