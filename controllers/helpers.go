package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/conectados/middleware"
	"github.com/meinhoongagan/conectados/models"
	"github.com/meinhoongagan/conectados/services"
)

func actorFrom(c *fiber.Ctx) services.Actor {
	id, _ := c.Locals(middleware.LocalUserID).(uint)
	role, _ := c.Locals(middleware.LocalRole).(string)
	return services.Actor{ID: id, Role: models.Role(role)}
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	return nil
}

func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
