package routes

import (
	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes configures the user directory routes
func SetupUserRoutes(app *fiber.App, h Handlers) {
	users := app.Group("/api/usuarios")
	users.Get("/todos", h.Protected, h.Users.List)
	users.Get("/id/:id", h.Protected, h.Users.Get)
	users.Get("/correo/:correo", h.Protected, h.Users.GetByEmail)
	users.Put("/:id", h.Protected, h.Users.Update)
	users.Delete("/:id", h.Protected, h.Users.Delete)
	users.Put("/:id/profesional", h.Protected, h.Users.BecomeProvider)
}
