package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/conectados/services"
)

type ReviewController struct {
	Reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{Reviews: reviews}
}

// CreateReview stores the caller's review of one of their appointments
func (h *ReviewController) CreateReview(c *fiber.Ctx) error {
	var input services.ReviewInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	review, err := h.Reviews.Create(c.UserContext(), actorFrom(c).ID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *ReviewController) GetAllReviews(c *fiber.Ctx) error {
	list, err := h.Reviews.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *ReviewController) GetReview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	review, err := h.Reviews.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(review)
}

func (h *ReviewController) GetServiceReviews(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.Reviews.ListByService(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *ReviewController) GetAppointmentReview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.Reviews.FindByAppointment(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *ReviewController) UpdateReview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input services.ReviewInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	review, err := h.Reviews.Update(c.UserContext(), actorFrom(c), id, input)
	if err != nil {
		return err
	}
	return c.JSON(review)
}

func (h *ReviewController) DeleteReview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Reviews.Delete(c.UserContext(), actorFrom(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
