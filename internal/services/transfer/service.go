// Package transfer implements the money-movement executor: it
// validates a transfer request, locks both accounts, applies the debit
// and credit, and appends the ledger record, all inside one database
// transaction.
package transfer

import (
	"context"
	"fmt"
	"time"

	"ledgerpay/internal/models"
	"ledgerpay/internal/repositories"
)

// Request carries an already-parsed transfer triple.
type Request struct {
	FromID string
	ToID   string
	Amount int64
}

// Config holds executor tuning knobs.
type Config struct {
	// MaxAttempts bounds how many times a transfer is retried when the
	// database reports a serialization, deadlock, or lock-timeout
	// failure. After the last attempt ErrConflict is surfaced.
	MaxAttempts int
	RetryDelay  time.Duration
}

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 25 * time.Millisecond
)

// Service executes balance transfers between two accounts.
type Service interface {
	Execute(ctx context.Context, req Request) error
}

type service struct {
	tx     repositories.TransferTxManager
	config Config
}

// NewService creates a new transfer service.
func NewService(tx repositories.TransferTxManager, config Config) Service {
	if tx == nil {
		panic("transaction manager is required")
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultRetryDelay
	}
	return &service{tx: tx, config: config}
}

// Execute validates the request and applies it atomically. Validation
// failures never touch the database; contention failures are retried a
// bounded number of times before ErrConflict is returned.
func (s *service) Execute(ctx context.Context, req Request) error {
	if req.FromID == "" || req.ToID == "" || req.FromID == req.ToID {
		return ErrSameUser
	}
	if req.Amount <= 0 {
		return ErrInvalidAmount
	}

	for attempt := 1; ; attempt++ {
		err := s.tx.WithinTransaction(ctx, func(store repositories.TransferStore) error {
			return s.apply(ctx, store, req)
		})
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		if attempt >= s.config.MaxAttempts {
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.config.RetryDelay):
		}
	}
}

// apply runs inside the transaction: both accounts are already the
// only ones this unit of work may touch, and the store has them row
// locked after AccountsForUpdate returns.
func (s *service) apply(ctx context.Context, store repositories.TransferStore, req Request) error {
	accounts, err := store.AccountsForUpdate(ctx, []string{req.FromID, req.ToID})
	if err != nil {
		return err
	}
	if len(accounts) != 2 {
		return ErrUserNotFound
	}

	var from, to *models.User
	for i := range accounts {
		switch accounts[i].ID {
		case req.FromID:
			from = &accounts[i]
		case req.ToID:
			to = &accounts[i]
		}
	}
	if from == nil || to == nil {
		return ErrUserNotFound
	}

	if from.Balance < req.Amount {
		return ErrInsufficientBalance
	}

	if err := store.UpdateBalance(ctx, from.ID, from.Balance-req.Amount); err != nil {
		return fmt.Errorf("debit sender: %w", err)
	}
	if err := store.UpdateBalance(ctx, to.ID, to.Balance+req.Amount); err != nil {
		return fmt.Errorf("credit receiver: %w", err)
	}

	record := &models.Transfer{
		FromID: req.FromID,
		ToID:   req.ToID,
		Amount: req.Amount,
	}
	if err := store.AppendTransfer(ctx, record); err != nil {
		return fmt.Errorf("append ledger record: %w", err)
	}
	return nil
}
