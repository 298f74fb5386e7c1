package controllers

import (
	"github.com/gofiber/fiber/v2"
)

type roleInput struct {
	Role string `json:"rol"`
}

// roleFrom accepts {"rol": "..."}, a bare JSON string or a ?rol= query value.
func roleFrom(c *fiber.Ctx) (string, error) {
	if q := c.Query("rol"); q != "" {
		return q, nil
	}
	var input roleInput
	if err := c.BodyParser(&input); err == nil && input.Role != "" {
		return input.Role, nil
	}
	raw := trimQuotes(string(c.Body()))
	if raw == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "rol is required")
	}
	return raw, nil
}

// SwitchRole changes the active role of a user
func (h *UserController) SwitchRole(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	role, err := roleFrom(c)
	if err != nil {
		return err
	}
	auth, err := h.Users.SwitchActiveRole(c.UserContext(), actorFrom(c), id, role)
	if err != nil {
		return err
	}
	return c.JSON(auth)
}

// GrantRole assigns an extra role to a user
func (h *UserController) GrantRole(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	role, err := roleFrom(c)
	if err != nil {
		return err
	}
	user, err := h.Users.GrantRole(c.UserContext(), actorFrom(c), id, role)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
