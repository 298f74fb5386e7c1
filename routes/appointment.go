package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/conectados/middleware"
	"github.com/meinhoongagan/conectados/models"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App, h Handlers) {
	appointment := app.Group("/api/citas", h.Protected)
	appointment.Post("/", h.Appointments.CreateAppointment)
	appointment.Post("/crear", h.Appointments.CreateAppointment)
	appointment.Get("/", h.Appointments.GetAllAppointments)
	appointment.Get("/me", h.Appointments.GetMyAppointments)
	appointment.Get("/buscador/:id", h.Appointments.GetSeekerAppointments)
	appointment.Get("/prestador/:id", h.Appointments.GetProviderAppointments)
	appointment.Put("/actualizar-automatica", middleware.RequireRole(h.Lookup, models.RoleAdmin), h.Appointments.CompletePastAppointments)
	appointment.Put("/editar/:id", h.Appointments.UpdateAppointment)
	appointment.Put("/:id/actualizar-estado", h.Appointments.UpdateAppointmentStatus)
	appointment.Delete("/eliminar/:id", h.Appointments.DeleteAppointment)
	appointment.Get("/:id", h.Appointments.GetAppointment)
}
