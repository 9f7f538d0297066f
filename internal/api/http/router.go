package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-admin/internal/api/http/handlers"
	"github.com/spec-kit/storefront-admin/internal/auth"
	"github.com/spec-kit/storefront-admin/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admins         *handlers.AdminsHandler
	Activation     *handlers.ActivationHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)
	app.Post("/auth/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	// Activation endpoints are public: the token itself is the credential.
	app.Get("/activation", cfg.Activation.Lookup)
	app.Post("/activation", cfg.Activation.Activate)

	admins := app.Group("/administrators", cfg.AuthMiddleware.Handle)
	admins.Post("/", auth.RequireLevel(domain.AccessLevelSuperadmin), cfg.Admins.Invite)
	admins.Get("/", auth.RequireLevel(domain.AccessLevelAdmin), cfg.Admins.List)
	admins.Get("/:id", auth.RequireLevel(domain.AccessLevelAdmin), cfg.Admins.Get)
	admins.Patch("/:id/status", auth.RequireLevel(domain.AccessLevelSuperadmin), cfg.Admins.SetStatus)
}
