package handlers

import (
	"errors"
	"log"

	"ledgerpay/internal/services/user"
	"ledgerpay/internal/utils"
	"ledgerpay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const maxListTake = 100 // Maximum allowed users per page

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Signup handles POST /users/signup.
func (h *UserHandler) Signup(c *fiber.Ctx) error {
	var input struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		Birthdate string `json:"birthdate"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.SignupInput(input.Username, input.Password, input.Birthdate)
	if !v.Valid() {
		return utils.BadRequest(c, v.First())
	}

	created, err := h.userService.Signup(c.Context(), user.SignupInput{
		Username:  input.Username,
		Password:  input.Password,
		Birthdate: input.Birthdate,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserExists) {
			return utils.BadRequest(c, "user already exists")
		}
		log.Printf("signup failed: %v", err)
		return utils.InternalError(c, "failed to create user")
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{"id": created.ID})
}

// FindMany handles GET /users with optional ids filtering and
// skip/take pagination.
func (h *UserHandler) FindMany(c *fiber.Ctx) error {
	page := utils.GetPage(c, 0, 10)
	if page.Take > maxListTake {
		page.Take = maxListTake
	}

	output, err := h.userService.FindMany(c.Context(), user.FindManyInput{
		IDs:  utils.GetIDs(c),
		Skip: page.Skip,
		Take: page.Take,
	})
	if err != nil {
		log.Printf("error listing users: %v", err)
		return utils.InternalError(c, "failed to list users")
	}

	return utils.Success(c, output)
}
