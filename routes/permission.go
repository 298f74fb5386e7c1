package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/conectados/middleware"
	"github.com/meinhoongagan/conectados/models"
)

// SetupRoleRoutes configures role switching and granting
func SetupRoleRoutes(app *fiber.App, h Handlers) {
	roles := app.Group("/api/usuarios")
	roles.Put("/:id/cambiar-rol", h.Protected, h.Users.SwitchRole)
	roles.Put("/:id/roles", h.Protected, middleware.RequireRole(h.Lookup, models.RoleAdmin), h.Users.GrantRole)
}
