// Package routes wires repositories, services, and handlers together
// and registers the HTTP routes.
package routes

import (
	"time"

	"ledgerpay/internal/config"
	"ledgerpay/internal/handlers"
	"ledgerpay/internal/middleware"
	"ledgerpay/internal/repositories"
	"ledgerpay/internal/services/auth"
	"ledgerpay/internal/services/transfer"
	"ledgerpay/internal/services/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)
	txManager := repositories.NewTransferTxManager(
		db,
		repositories.CacheService,
		config.GetDurationEnv("TRANSFER_LOCK_TIMEOUT", 5*time.Second),
	)

	userService := user.NewService(userRepo)
	authService := auth.NewService(userRepo)
	transferService := transfer.NewService(txManager, transfer.Config{
		MaxAttempts: config.GetIntEnv("TRANSFER_MAX_ATTEMPTS", transfer.DefaultMaxAttempts),
		RetryDelay:  config.GetDurationEnv("TRANSFER_RETRY_DELAY", transfer.DefaultRetryDelay),
	})

	userHandler := handlers.NewUserHandler(userService)
	authHandler := handlers.NewAuthHandler(authService)
	transferHandler := handlers.NewTransferHandler(transferService)

	authMiddleware := middleware.NewAuthMiddleware(userService)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/signup", userHandler.Signup)
	users.Post("/signin", authHandler.Signin)
	users.Get("/", authMiddleware.Handler, userHandler.FindMany)

	api.Post("/transfers", authMiddleware.Handler, transferHandler.CreateTransfer)
}
