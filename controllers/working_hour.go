package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/conectados/services"
)

// GetSchedule returns a provider's working days and hours
func (h *UserController) GetSchedule(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	schedule, err := h.Users.GetSchedule(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(schedule)
}

// SetSchedule replaces a provider's working days and hours
func (h *UserController) SetSchedule(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input services.ScheduleInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	schedule, err := h.Users.SetSchedule(c.UserContext(), actorFrom(c), id, input)
	if err != nil {
		return err
	}
	return c.JSON(schedule)
}
