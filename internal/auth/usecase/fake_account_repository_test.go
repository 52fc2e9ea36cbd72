package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/filevault/internal/auth/domain"
)

// fakeAccountRepository is an in-memory, thread-safe AccountRepository used
// across the usecase tests.
type fakeAccountRepository struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*domain.Account
}

func newFakeAccountRepository() *fakeAccountRepository {
	return &fakeAccountRepository{
		accounts: make(map[uuid.UUID]*domain.Account),
	}
}

func (f *fakeAccountRepository) clone(account *domain.Account) *domain.Account {
	copied := *account
	return &copied
}

func (f *fakeAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.accounts {
		if existing.Username == account.Username {
			return domain.ErrAccountAlreadyExists
		}
	}

	account.CreatedAt = time.Now().UTC()
	account.UpdatedAt = account.CreatedAt
	f.accounts[account.ID] = f.clone(account)
	return nil
}

func (f *fakeAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return f.clone(account), nil
}

func (f *fakeAccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, account := range f.accounts {
		if account.Username == username {
			return f.clone(account), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeAccountRepository) UpdateLockoutState(
	ctx context.Context,
	id uuid.UUID,
	failedAttempts int,
	lockedUntil *time.Time,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.FailedAttempts = failedAttempts
	account.LockedUntil = lockedUntil
	account.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeAccountRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.LastLoginAt = &at
	account.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeAccountRepository) UpdateMfa(
	ctx context.Context,
	id uuid.UUID,
	status domain.MfaStatus,
	secret string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.MfaStatus = status
	account.MfaSecret = secret
	account.UpdatedAt = time.Now().UTC()
	return nil
}
