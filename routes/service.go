package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/conectados/middleware"
	"github.com/meinhoongagan/conectados/models"
)

// SetupServiceRoutes configures the service catalog routes
func SetupServiceRoutes(app *fiber.App, h Handlers) {
	providerOnly := middleware.RequireRole(h.Lookup, models.RoleProvider, models.RoleAdmin)

	service := app.Group("/api/servicios")
	service.Get("/todos", h.Services.GetAllServices)
	service.Get("/listar", h.Services.GetSortedServices)
	service.Get("/categorias", h.Services.GetCategories)
	service.Get("/categoria/:categoria", h.Services.GetServicesByCategory)
	service.Get("/prestador/:id", h.Services.GetServicesByProvider)
	service.Get("/:id", h.Services.GetService)
	service.Post("/crear", h.Protected, providerOnly, h.Services.CreateService)
	service.Put("/actualizar/:id", h.Protected, h.Services.UpdateService)
	service.Delete("/eliminar/:id", h.Protected, h.Services.DeleteService)
	service.Post("/:id/foto", h.Protected, h.Services.UploadPhoto)
}
