// Package middleware provides HTTP middleware for the fiber app,
// including JWT authentication.
package middleware

import (
	"log"
	"strings"

	"ledgerpay/internal/services/user"
	"ledgerpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates bearer tokens and attaches the caller's
// claims to the request context.
type AuthMiddleware struct {
	userService user.Service
}

func NewAuthMiddleware(userService user.Service) *AuthMiddleware {
	return &AuthMiddleware{
		userService: userService,
	}
}

// Handler checks for a Bearer token with a valid signature and a
// subject that still exists, then stores the claims in c.Locals.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		log.Printf("token validation error: %v", err)
		return utils.Unauthorized(c, "invalid token")
	}

	if _, err := m.userService.GetByID(c.Context(), claims.UserID); err != nil {
		log.Printf("user %s from token not found", claims.UserID)
		return utils.Unauthorized(c, "invalid token")
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)

	return c.Next()
}
