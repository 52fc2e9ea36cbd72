package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/filevault/internal/auth/domain"
)

var accountColumns = []string{
	"id", "username", "password_hash", "role", "mfa_status", "mfa_secret",
	"failed_attempts", "locked_until", "last_login_at", "created_at", "updated_at",
}

func accountRow(account *authDomain.Account) *sqlmock.Rows {
	var lockedUntil, lastLoginAt driver.Value
	if account.LockedUntil != nil {
		lockedUntil = *account.LockedUntil
	}
	if account.LastLoginAt != nil {
		lastLoginAt = *account.LastLoginAt
	}

	return sqlmock.NewRows(accountColumns).AddRow(
		account.ID,
		account.Username,
		account.PasswordHash,
		string(account.Role),
		string(account.MfaStatus),
		account.MfaSecret,
		account.FailedAttempts,
		lockedUntil,
		lastLoginAt,
		account.CreatedAt,
		account.UpdatedAt,
	)
}

func newTestAccount() *authDomain.Account {
	return &authDomain.Account{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     "alice",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$test-hash",
		Role:         authDomain.RoleUser,
		MfaStatus:    authDomain.MfaNotConfigured,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

func TestPostgreSQLAccountRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAccountRepository(db)
		account := newTestAccount()

		mock.ExpectExec("INSERT INTO accounts").
			WithArgs(
				account.ID,
				account.Username,
				account.PasswordHash,
				string(account.Role),
				string(account.MfaStatus),
				account.MfaSecret,
				account.FailedAttempts,
				nil,
				nil,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, account))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate username", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAccountRepository(db)
		account := newTestAccount()

		mock.ExpectExec("INSERT INTO accounts").
			WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "accounts_username_key"`))

		err = repo.Create(ctx, account)
		assert.ErrorIs(t, err, authDomain.ErrAccountAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLAccountRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAccountRepository(db)
		account := newTestAccount()

		mock.ExpectQuery("SELECT (.+) FROM accounts WHERE id =").
			WithArgs(account.ID).
			WillReturnRows(accountRow(account))

		got, err := repo.GetByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
		assert.Equal(t, account.Username, got.Username)
		assert.Equal(t, authDomain.MfaNotConfigured, got.MfaStatus)
		assert.Nil(t, got.LockedUntil)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAccountRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectQuery("SELECT (.+) FROM accounts WHERE id =").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(accountColumns))

		got, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, authDomain.ErrAccountNotFound)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLAccountRepository_GetByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("found with lockout state", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAccountRepository(db)
		account := newTestAccount()
		lockedUntil := time.Now().UTC().Add(15 * time.Minute)
		account.FailedAttempts = 0
		account.LockedUntil = &lockedUntil

		mock.ExpectQuery("SELECT (.+) FROM accounts WHERE username =").
			WithArgs("alice").
			WillReturnRows(accountRow(account))

		got, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, got.LockedUntil)
		assert.WithinDuration(t, lockedUntil, *got.LockedUntil, time.Second)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAccountRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM accounts WHERE username =").
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows(accountColumns))

		_, err = repo.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, authDomain.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLAccountRepository_UpdateLockoutState(t *testing.T) {
	ctx := context.Background()

	t.Run("sets counter and lockout", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAccountRepository(db)
		id := uuid.Must(uuid.NewV7())
		lockedUntil := time.Now().UTC().Add(15 * time.Minute)

		mock.ExpectExec("UPDATE accounts").
			WithArgs(0, lockedUntil, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateLockoutState(ctx, id, 0, &lockedUntil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clears lockout", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAccountRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectExec("UPDATE accounts").
			WithArgs(0, nil, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateLockoutState(ctx, id, 0, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown account", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAccountRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectExec("UPDATE accounts").
			WithArgs(3, nil, id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.UpdateLockoutState(ctx, id, 3, nil)
		assert.ErrorIs(t, err, authDomain.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLAccountRepository_UpdateLastLogin(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLAccountRepository(db)
	id := uuid.Must(uuid.NewV7())
	at := time.Now().UTC()

	mock.ExpectExec("UPDATE accounts SET last_login_at").
		WithArgs(at, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateLastLogin(ctx, id, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAccountRepository_UpdateMfa(t *testing.T) {
	ctx := context.Background()

	t.Run("enable", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAccountRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectExec("UPDATE accounts SET mfa_status").
			WithArgs(string(authDomain.MfaEnabled), "JBSWY3DPEHPK3PXP", id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateMfa(ctx, id, authDomain.MfaEnabled, "JBSWY3DPEHPK3PXP"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("disable clears the secret", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAccountRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectExec("UPDATE accounts SET mfa_status").
			WithArgs(string(authDomain.MfaNotConfigured), "", id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateMfa(ctx, id, authDomain.MfaNotConfigured, ""))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
