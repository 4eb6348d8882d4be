package repositories

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"ledgerpay/internal/models"
	"ledgerpay/internal/repositories/cache"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransferStore gives the transfer executor transactional access to
// account balances and the ledger. Every method runs against the
// transaction opened by the owning TransferTxManager.
type TransferStore interface {
	// AccountsForUpdate locks and returns the accounts for the given
	// ids. Rows are always locked in ascending id order regardless of
	// the order ids are passed in, so two concurrent transfers over
	// the same pair of accounts cannot deadlock each other. Unknown
	// ids are omitted silently; the caller checks the count.
	AccountsForUpdate(ctx context.Context, ids []string) ([]models.User, error)
	UpdateBalance(ctx context.Context, id string, balance int64) error
	AppendTransfer(ctx context.Context, transfer *models.Transfer) error
}

// TransferTxManager runs a unit of work against a single database
// transaction: either every write inside fn commits, or none do.
type TransferTxManager interface {
	WithinTransaction(ctx context.Context, fn func(TransferStore) error) error
}

type transferStore struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func (s *transferStore) AccountsForUpdate(ctx context.Context, ids []string) ([]models.User, error) {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	var users []models.User
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", sorted).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	return users, nil
}

func (s *transferStore) UpdateBalance(ctx context.Context, id string, balance int64) error {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("balance", balance)
	if result.Error != nil {
		return fmt.Errorf("failed to update balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	if err := s.cache.InvalidateUser(ctx, id); err != nil {
		log.Printf("failed to invalidate cache for user %s: %v", id, err)
	}
	return nil
}

func (s *transferStore) AppendTransfer(ctx context.Context, transfer *models.Transfer) error {
	if err := s.db.WithContext(ctx).Create(transfer).Error; err != nil {
		return fmt.Errorf("failed to append transfer: %w", err)
	}
	return nil
}

type transferTxManager struct {
	db          *gorm.DB
	cache       *cache.CacheService
	lockTimeout time.Duration
}

// NewTransferTxManager creates a TransferTxManager over the given
// database handle. lockTimeout bounds row lock acquisition inside each
// transaction; zero disables the bound.
func NewTransferTxManager(db *gorm.DB, cache *cache.CacheService, lockTimeout time.Duration) TransferTxManager {
	return &transferTxManager{db: db, cache: cache, lockTimeout: lockTimeout}
}

func (m *transferTxManager) WithinTransaction(ctx context.Context, fn func(TransferStore) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.lockTimeout > 0 {
			// SET does not take bind parameters; the value comes from
			// configuration, not request input.
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to set lock timeout: %w", err)
			}
		}
		return fn(&transferStore{db: tx, cache: m.cache})
	})
}
