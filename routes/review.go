package routes

import (
	"github.com/gofiber/fiber/v2"
)

// SetupReviewRoutes configures all review related routes
func SetupReviewRoutes(app *fiber.App, h Handlers) {
	review := app.Group("/api/resenas")
	review.Get("/todas", h.Reviews.GetAllReviews)
	review.Get("/servicio/:id", h.Reviews.GetServiceReviews)
	review.Get("/citaid/:id", h.Reviews.GetAppointmentReview)
	review.Get("/:id", h.Reviews.GetReview)
	review.Post("/crear", h.Protected, h.Reviews.CreateReview)
	review.Put("/actualizar/:id", h.Protected, h.Reviews.UpdateReview)
	review.Delete("/eliminar/:id", h.Protected, h.Reviews.DeleteReview)
}
