package handlers

import (
	"errors"

	"ledgerpay/internal/services/auth"
	"ledgerpay/internal/utils"
	"ledgerpay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signin handles POST /users/signin and returns a bearer token.
func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.SigninInput(input.Username, input.Password)
	if !v.Valid() {
		return utils.BadRequest(c, v.First())
	}

	output, err := h.authService.Signin(c.Context(), input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			return utils.NotFound(c, "user not found")
		case errors.Is(err, auth.ErrInvalidCredentials):
			return utils.Unauthorized(c, "invalid credentials")
		default:
			return utils.InternalError(c, "authentication failed")
		}
	}

	return utils.Success(c, output)
}
