package repositories

import (
	"context"
	"errors"

	"ledgerpay/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// UserRepository is the account store. Balance mutation is not exposed
// here: it only happens through the transfer transaction manager.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// FindMany returns only accounts that exist; unknown ids are
	// omitted silently. An empty ids slice means "all users".
	FindMany(ctx context.Context, ids []string, take, skip int) ([]models.User, error)
	Count(ctx context.Context, ids []string) (int64, error)
}
