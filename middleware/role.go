package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/conectados/models"
	"github.com/meinhoongagan/conectados/utils"
)

// UserLookup loads the caller from storage.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// RequireRole lets the request through when the stored user is operating
// under one of roles. Roles held but not active do not count. Must run after
// Protected.
func RequireRole(users UserLookup, roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(LocalUserID).(uint)
		if !ok {
			return unauthorized(c, "No authentication token")
		}

		user, err := users.FindByID(c.UserContext(), userID)
		if err != nil {
			return unauthorized(c, "User not found")
		}
		for _, r := range roles {
			if user.ActiveRole == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "You don't have the required role to perform this action",
			Error:   "Forbidden",
		})
	}
}
