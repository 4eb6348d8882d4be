package transfer

import (
	"context"
	"sync"
	"testing"

	"ledgerpay/internal/models"
	"ledgerpay/internal/repositories"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) AccountsForUpdate(ctx context.Context, ids []string) ([]models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStore) UpdateBalance(ctx context.Context, id string, balance int64) error {
	args := m.Called(ctx, id, balance)
	return args.Error(0)
}

func (m *MockStore) AppendTransfer(ctx context.Context, transfer *models.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

// fakeTxManager runs the unit of work against a single store. Queued
// errors are returned, one per call, before the store is touched,
// which simulates commit-time failures.
type fakeTxManager struct {
	store repositories.TransferStore
	errs  []error
	calls int
}

func (f *fakeTxManager) WithinTransaction(ctx context.Context, fn func(repositories.TransferStore) error) error {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return err
		}
	}
	return fn(f.store)
}

func TestTransferService_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name:    "same user",
			req:     Request{FromID: "a", ToID: "a", Amount: 50},
			wantErr: ErrSameUser,
		},
		{
			name:    "empty from",
			req:     Request{FromID: "", ToID: "b", Amount: 50},
			wantErr: ErrSameUser,
		},
		{
			name:    "empty to",
			req:     Request{FromID: "a", ToID: "", Amount: 50},
			wantErr: ErrSameUser,
		},
		{
			name:    "zero amount",
			req:     Request{FromID: "a", ToID: "b", Amount: 0},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			req:     Request{FromID: "a", ToID: "b", Amount: -5},
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			tx := &fakeTxManager{store: store}
			s := NewService(tx, Config{})

			err := s.Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, tx.calls, "validation failures must not open a transaction")
			store.AssertExpectations(t)
		})
	}
}

func TestTransferService_Execute(t *testing.T) {
	t.Run("successful transfer debits, credits, and appends", func(t *testing.T) {
		store := new(MockStore)
		store.On("AccountsForUpdate", mock.Anything, []string{"alice", "bob"}).
			Return([]models.User{
				{ID: "alice", Balance: 200},
				{ID: "bob", Balance: 50},
			}, nil)
		store.On("UpdateBalance", mock.Anything, "alice", int64(100)).Return(nil)
		store.On("UpdateBalance", mock.Anything, "bob", int64(150)).Return(nil)
		store.On("AppendTransfer", mock.Anything, mock.MatchedBy(func(tr *models.Transfer) bool {
			return tr.FromID == "alice" && tr.ToID == "bob" && tr.Amount == 100
		})).Return(nil)

		s := NewService(&fakeTxManager{store: store}, Config{})
		err := s.Execute(context.Background(), Request{FromID: "alice", ToID: "bob", Amount: 100})

		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("insufficient balance leaves state untouched", func(t *testing.T) {
		store := new(MockStore)
		store.On("AccountsForUpdate", mock.Anything, mock.Anything).
			Return([]models.User{
				{ID: "alice", Balance: 50},
				{ID: "bob", Balance: 0},
			}, nil)

		s := NewService(&fakeTxManager{store: store}, Config{})
		err := s.Execute(context.Background(), Request{FromID: "alice", ToID: "bob", Amount: 100})

		assert.ErrorIs(t, err, ErrInsufficientBalance)
		store.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "AppendTransfer", mock.Anything, mock.Anything)
	})

	t.Run("missing account is not found", func(t *testing.T) {
		store := new(MockStore)
		store.On("AccountsForUpdate", mock.Anything, mock.Anything).
			Return([]models.User{{ID: "alice", Balance: 200}}, nil)

		s := NewService(&fakeTxManager{store: store}, Config{})
		err := s.Execute(context.Background(), Request{FromID: "alice", ToID: "ghost", Amount: 10})

		assert.ErrorIs(t, err, ErrUserNotFound)
		store.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("debit failure aborts before ledger append", func(t *testing.T) {
		store := new(MockStore)
		store.On("AccountsForUpdate", mock.Anything, mock.Anything).
			Return([]models.User{
				{ID: "alice", Balance: 200},
				{ID: "bob", Balance: 0},
			}, nil)
		store.On("UpdateBalance", mock.Anything, "alice", int64(100)).
			Return(assert.AnError)

		s := NewService(&fakeTxManager{store: store}, Config{})
		err := s.Execute(context.Background(), Request{FromID: "alice", ToID: "bob", Amount: 100})

		assert.ErrorIs(t, err, assert.AnError)
		store.AssertNotCalled(t, "AppendTransfer", mock.Anything, mock.Anything)
	})
}

func TestTransferService_Retry(t *testing.T) {
	serializationErr := &pgconn.PgError{Code: "40001"}

	t.Run("transient serialization failure is retried", func(t *testing.T) {
		store := new(MockStore)
		store.On("AccountsForUpdate", mock.Anything, mock.Anything).
			Return([]models.User{
				{ID: "alice", Balance: 200},
				{ID: "bob", Balance: 0},
			}, nil)
		store.On("UpdateBalance", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		store.On("AppendTransfer", mock.Anything, mock.Anything).Return(nil)

		tx := &fakeTxManager{store: store, errs: []error{serializationErr, serializationErr, nil}}
		s := NewService(tx, Config{MaxAttempts: 3, RetryDelay: 1})

		err := s.Execute(context.Background(), Request{FromID: "alice", ToID: "bob", Amount: 100})

		assert.NoError(t, err)
		assert.Equal(t, 3, tx.calls)
	})

	t.Run("persistent contention surfaces a conflict", func(t *testing.T) {
		tx := &fakeTxManager{
			store: new(MockStore),
			errs:  []error{serializationErr, serializationErr, serializationErr},
		}
		s := NewService(tx, Config{MaxAttempts: 3, RetryDelay: 1})

		err := s.Execute(context.Background(), Request{FromID: "alice", ToID: "bob", Amount: 100})

		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, 3, tx.calls)
	})

	t.Run("non-retryable storage errors surface unchanged", func(t *testing.T) {
		tx := &fakeTxManager{store: new(MockStore), errs: []error{assert.AnError}}
		s := NewService(tx, Config{MaxAttempts: 3, RetryDelay: 1})

		err := s.Execute(context.Background(), Request{FromID: "alice", ToID: "bob", Amount: 100})

		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 1, tx.calls)
	})
}

// memStore is an in-memory account store whose tx manager serializes
// units of work and rolls back on failure, mimicking the database's
// atomicity for concurrency tests.
type memStore struct {
	balances map[string]int64
	ledger   []models.Transfer
}

func (s *memStore) AccountsForUpdate(ctx context.Context, ids []string) ([]models.User, error) {
	var users []models.User
	for _, id := range ids {
		if balance, ok := s.balances[id]; ok {
			users = append(users, models.User{ID: id, Balance: balance})
		}
	}
	return users, nil
}

func (s *memStore) UpdateBalance(ctx context.Context, id string, balance int64) error {
	if _, ok := s.balances[id]; !ok {
		return repositories.ErrUserNotFound
	}
	s.balances[id] = balance
	return nil
}

func (s *memStore) AppendTransfer(ctx context.Context, transfer *models.Transfer) error {
	s.ledger = append(s.ledger, *transfer)
	return nil
}

type memTxManager struct {
	mu    sync.Mutex
	store *memStore
}

func (m *memTxManager) WithinTransaction(ctx context.Context, fn func(repositories.TransferStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(map[string]int64, len(m.store.balances))
	for id, balance := range m.store.balances {
		snapshot[id] = balance
	}
	ledgerLen := len(m.store.ledger)

	if err := fn(m.store); err != nil {
		m.store.balances = snapshot
		m.store.ledger = m.store.ledger[:ledgerLen]
		return err
	}
	return nil
}

func TestTransferService_ConcurrentTransfers(t *testing.T) {
	const (
		amount     = int64(100)
		funded     = 3 // sender can afford exactly this many transfers
		goroutines = 10
	)

	store := &memStore{balances: map[string]int64{"sender": amount * funded}}
	recipients := make([]string, goroutines)
	for i := range recipients {
		recipients[i] = string(rune('a' + i))
		store.balances[recipients[i]] = 0
	}
	totalBefore := sumBalances(store)

	s := NewService(&memTxManager{store: store}, Config{})

	errs := make([]error, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Execute(context.Background(), Request{
				FromID: "sender",
				ToID:   recipients[i],
				Amount: amount,
			})
		}(i)
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, ErrInsufficientBalance):
			insufficient++
		}
	}

	assert.Equal(t, funded, succeeded)
	assert.Equal(t, goroutines-funded, insufficient)
	assert.Equal(t, int64(0), store.balances["sender"])
	assert.Len(t, store.ledger, funded)
	assert.Equal(t, totalBefore, sumBalances(store), "transfers must conserve total balance")
}

func TestTransferService_FailedTransferLeavesLedgerEmpty(t *testing.T) {
	store := &memStore{balances: map[string]int64{"sender": 50, "receiver": 10}}
	s := NewService(&memTxManager{store: store}, Config{})

	err := s.Execute(context.Background(), Request{FromID: "sender", ToID: "receiver", Amount: 100})

	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Empty(t, store.ledger)
	assert.Equal(t, int64(50), store.balances["sender"])
	assert.Equal(t, int64(10), store.balances["receiver"])
}

func sumBalances(s *memStore) int64 {
	var total int64
	for _, balance := range s.balances {
		total += balance
	}
	return total
}
