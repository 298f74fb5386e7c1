package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/conectados/services"
)

type AuthController struct {
	Users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{Users: users}
}

// Register handles user registration
func (h *AuthController) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	user, err := h.Users.Register(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles user authentication
func (h *AuthController) Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"contrasena"`
	}

	input := new(LoginInput)
	if err := parseBody(c, input); err != nil {
		return err
	}
	auth, err := h.Users.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return err
	}
	return c.JSON(auth)
}

// Me returns the current user's profile
func (h *AuthController) Me(c *fiber.Ctx) error {
	user, err := h.Users.Get(c.UserContext(), actorFrom(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// Logout doesn't actually invalidate the token as JWTs are stateless
func (h *AuthController) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Successfully logged out",
	})
}

// RefreshToken generates a new token pair using a refresh token
func (h *AuthController) RefreshToken(c *fiber.Ctx) error {
	type RefreshRequest struct {
		RefreshToken string `json:"refresh_token"`
	}

	input := new(RefreshRequest)
	if err := parseBody(c, input); err != nil {
		return err
	}
	auth, err := h.Users.Refresh(c.UserContext(), input.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(auth)
}
