package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/haus-gg/haus-api/internal/config"
	"github.com/haus-gg/haus-api/internal/handler"
	"github.com/haus-gg/haus-api/internal/middleware"
	"github.com/haus-gg/haus-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	HouseHandler        *handler.HouseHandler
	MembershipHandler   *handler.MembershipHandler
	ActivityHandler     *handler.ActivityHandler
	NotificationHandler *handler.NotificationHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	houses := api.Group("/houses", jwtMiddleware)

	if deps.HouseHandler != nil {
		deps.HouseHandler.Register(houses, middleware.RequireRole("producer"))
	}
	if deps.MembershipHandler != nil {
		deps.MembershipHandler.Register(houses)
	}
	if deps.ActivityHandler != nil {
		// Governance writes are throttled per wallet to keep a single
		// member from flooding a house with proposals or ballots.
		houses.Use("/:id/activities", methodGuard(fiber.MethodPost, middleware.RateLimit("governance", 30, time.Minute)))
		deps.ActivityHandler.Register(houses)
	}
	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(houses)
	}
}

func methodGuard(method string, inner fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != method {
			return c.Next()
		}
		return inner(c)
	}
}
