package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/conectados/services"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

func (h *UserController) List(c *fiber.Ctx) error {
	users, err := h.Users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *UserController) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.Users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserController) GetByEmail(c *fiber.Ctx) error {
	user, err := h.Users.GetByEmail(c.UserContext(), c.Params("correo"))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserController) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input services.UpdateUserInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	user, err := h.Users.Update(c.UserContext(), actorFrom(c), id, input)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserController) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Users.Delete(c.UserContext(), actorFrom(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BecomeProvider adds the provider role and its profile details
func (h *UserController) BecomeProvider(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input services.ProviderDetailsInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	user, err := h.Users.BecomeProvider(c.UserContext(), actorFrom(c), id, input)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
