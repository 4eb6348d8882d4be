package repositories

import (
	"context"
	"log"

	"ledgerpay/internal/models"
	"ledgerpay/internal/repositories/cache"

	"gorm.io/gorm"
)

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *gorm.DB, cache *cache.CacheService) UserRepository {
	return &userRepository{
		db:    db,
		cache: cache,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	// Try cache first
	if user, err := r.cache.GetUser(ctx, id); err == nil {
		return user, nil
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := r.cache.CacheUser(ctx, &user); err != nil {
		log.Printf("failed to cache user %s: %v", user.ID, err)
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &user, nil
}

func (r *userRepository) FindMany(ctx context.Context, ids []string, take, skip int) ([]models.User, error) {
	var users []models.User
	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id, username, birthdate, balance").
		Order("id").
		Limit(take).
		Offset(skip)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context, ids []string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.User{})
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, ErrDatabaseOperation
	}
	return count, nil
}
