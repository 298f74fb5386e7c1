package middleware

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/meinhoongagan/conectados/utils"
)

const (
	LocalUserID = "userID"
	LocalRole   = "role"
)

// Protected validates the bearer token and stores the caller's id and
// active role in the request locals. With users set the role is the one
// stored now, so switching roles takes effect before the token expires.
func Protected(secret []byte, users UserLookup) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   secret,
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c, "Invalid token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "Invalid token claims")
			}
			if claims["typ"] == "refresh" {
				return unauthorized(c, "Refresh tokens cannot be used for requests")
			}

			userID, err := extractUserID(claims)
			if err != nil {
				log.Debugf("user id extraction: %v", err)
				return unauthorized(c, "Invalid user ID in token")
			}
			role, err := extractRole(claims)
			if err != nil {
				log.Debugf("role extraction: %v", err)
				return unauthorized(c, "Invalid role in token")
			}

			if users != nil {
				user, err := users.FindByID(c.UserContext(), userID)
				if err != nil {
					return unauthorized(c, "User not found")
				}
				role = string(user.ActiveRole)
			}

			c.Locals(LocalUserID, userID)
			c.Locals(LocalRole, role)
			return c.Next()
		},
	})
}

// extractUserID handles multiple potential formats of user ID in token
func extractUserID(claims jwt.MapClaims) (uint, error) {
	idVal := claims["id"]
	if idVal == nil {
		return 0, fmt.Errorf("no ID found in claims")
	}

	switch v := idVal.(type) {
	case float64:
		if v <= 0 {
			return 0, fmt.Errorf("invalid ID %v", v)
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse ID string: %v", err)
		}
		return uint(parsed), nil
	default:
		return 0, fmt.Errorf("unsupported ID type: %T", v)
	}
}

func extractRole(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", fmt.Errorf("no role found in claims")
	}
	return role, nil
}

func jwtError(c *fiber.Ctx, err error) error {
	log.Debugf("jwt: %v", err)
	return unauthorized(c, "Invalid or expired token")
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
		Message: message,
		Error:   "Unauthorized",
	})
}
