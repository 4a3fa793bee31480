package v1

import (
	"skill-bridge/internal/delivery/http/handler"
	"skill-bridge/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth            *middleware.AuthMiddleware
	Recommendations *handler.RecommendationHandler
	Listing         *handler.RecommendationListHandler
	Catalog         *handler.CatalogHandler
}

// Register mounts the v1 API. Without an auth middleware the routes are
// served unauthenticated.
func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	protected := r
	if h.Auth != nil {
		protected = r.Group("", h.Auth.Middleware())
	}

	if h.Recommendations != nil {
		h.Recommendations.RegisterRoutes(protected)
	}
	if h.Listing != nil {
		h.Listing.RegisterRoutes(protected)
	}
	if h.Catalog != nil {
		h.Catalog.RegisterRoutes(protected)
	}
}
