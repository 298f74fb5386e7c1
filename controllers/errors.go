package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/meinhoongagan/conectados/services"
	"github.com/meinhoongagan/conectados/utils"
)

var kindStatus = map[services.Kind]int{
	services.KindNotFound:     fiber.StatusNotFound,
	services.KindConflict:     fiber.StatusConflict,
	services.KindForbidden:    fiber.StatusForbidden,
	services.KindBadRequest:   fiber.StatusBadRequest,
	services.KindUnauthorized: fiber.StatusUnauthorized,
	services.KindUnavailable:  fiber.StatusServiceUnavailable,
}

// ErrorHandler turns handler errors into an ErrorResponse body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(utils.ErrorResponse{
			Message: fe.Message,
			Error:   utils.StatusText(fe.Code),
		})
	}

	var se *services.Error
	if errors.As(err, &se) {
		status, ok := kindStatus[se.Kind]
		if !ok {
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(utils.ErrorResponse{
			Message: se.Message,
			Error:   se.Kind.String(),
		})
	}

	log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
		Message: "Internal server error",
		Error:   "internal",
	})
}
