package routes

import (
	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App, h Handlers) {
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.RefreshToken)

	// Protected routes
	auth.Get("/me", h.Protected, h.Auth.Me)
	auth.Post("/logout", h.Protected, h.Auth.Logout)
}
