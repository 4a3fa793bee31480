package app

import (
	"context"
	"fmt"
	"strings"

	"skill-bridge/internal/config"
	"skill-bridge/internal/delivery/http/handler"
	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/delivery/http/routes"
	v1 "skill-bridge/internal/delivery/http/routes/v1"
	"skill-bridge/internal/logger"
	"skill-bridge/internal/pkg/jwt"
	"skill-bridge/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)

	var auth *middleware.AuthMiddleware
	if secret := c.Config.Auth.JWTAccessSecret; secret != "" {
		auth = middleware.NewAuthMiddleware(jwt.NewHMACService(secret))
	} else {
		c.Logger.Warn("JWT_ACCESS_SECRET not set; API served without authentication")
	}

	var wsHandler *ws.Handler
	if c.Hub != nil {
		wsHandler = ws.NewHandler(c.Hub, c.Logger.Named("ws"))
	}

	routes.NewRegistry(handler.NewHealthHandler(c.DB), wsHandler, v1.Handlers{
		Auth:            auth,
		Recommendations: handler.NewRecommendationHandler(c.Trigger),
		Listing:         handler.NewRecommendationListHandler(c.Listing),
		Catalog:         handler.NewCatalogHandler(c.Catalog),
	}).Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container and HTTP app. The hub runs until ctx is done.
func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	log = logger.OrNop(log)
	hub := ws.NewHub(log.Named("ws"))
	go hub.Run(ctx)

	c, err := NewContainer(ctx, cfg, log, hub)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log.Named("http")).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
