package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/conectados/controllers"
	"github.com/meinhoongagan/conectados/middleware"
)

// Handlers bundles everything the route tables need.
type Handlers struct {
	Auth         *controllers.AuthController
	Users        *controllers.UserController
	Services     *controllers.ServiceController
	Appointments *controllers.AppointmentController
	Reviews      *controllers.ReviewController

	Protected fiber.Handler
	Lookup    middleware.UserLookup
}

// Setup registers every route group on app.
func Setup(app *fiber.App, h Handlers) {
	SetupAuthRoutes(app, h)
	SetupUserRoutes(app, h)
	SetupRoleRoutes(app, h)
	SetupWorkingHourRoutes(app, h)
	SetupServiceRoutes(app, h)
	SetupAppointmentRoutes(app, h)
	SetupReviewRoutes(app, h)
}
