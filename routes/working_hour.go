package routes

import (
	"github.com/gofiber/fiber/v2"
)

// SetupWorkingHourRoutes configures provider schedule routes
func SetupWorkingHourRoutes(app *fiber.App, h Handlers) {
	schedule := app.Group("/api/usuarios")
	schedule.Get("/:id/horario", h.Users.GetSchedule)
	schedule.Put("/:id/horario", h.Protected, h.Users.SetSchedule)
}
