package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/filevault/internal/auth/domain"
	"github.com/allisson/filevault/internal/database"
	apperrors "github.com/allisson/filevault/internal/errors"
)

// MySQLAccountRepository implements account persistence for MySQL.
type MySQLAccountRepository struct {
	db *sql.DB
}

// NewMySQLAccountRepository creates a new MySQL account repository.
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{db: db}
}

// Create inserts a new account.
func (r *MySQLAccountRepository) Create(ctx context.Context, account *authDomain.Account) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO accounts (id, username, password_hash, role, mfa_status, mfa_secret,
			  failed_attempts, locked_until, last_login_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		account.ID.String(),
		account.Username,
		account.PasswordHash,
		account.Role,
		account.MfaStatus,
		account.MfaSecret,
		account.FailedAttempts,
		account.LockedUntil,
		account.LastLoginAt,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return authDomain.ErrAccountAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

const mysqlAccountColumns = `id, username, password_hash, role, mfa_status, mfa_secret,
			  failed_attempts, locked_until, last_login_at, created_at, updated_at`

func (r *MySQLAccountRepository) scanAccount(row *sql.Row) (*authDomain.Account, error) {
	var account authDomain.Account
	var id string

	err := row.Scan(
		&id,
		&account.Username,
		&account.PasswordHash,
		&account.Role,
		&account.MfaStatus,
		&account.MfaSecret,
		&account.FailedAttempts,
		&account.LockedUntil,
		&account.LastLoginAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account")
	}

	account.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse account id")
	}
	return &account, nil
}

// GetByID retrieves an account by ID.
func (r *MySQLAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlAccountColumns + ` FROM accounts WHERE id = ?`

	return r.scanAccount(querier.QueryRowContext(ctx, query, id.String()))
}

// GetByUsername retrieves an account by username.
func (r *MySQLAccountRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*authDomain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlAccountColumns + ` FROM accounts WHERE username = ?`

	return r.scanAccount(querier.QueryRowContext(ctx, query, username))
}

// UpdateLockoutState persists the failed-attempt counter and lockout expiry.
func (r *MySQLAccountRepository) UpdateLockoutState(
	ctx context.Context,
	id uuid.UUID,
	failedAttempts int,
	lockedUntil *time.Time,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts
			  SET failed_attempts = ?, locked_until = ?, updated_at = NOW()
			  WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, failedAttempts, lockedUntil, id.String())
	if err != nil {
		return apperrors.Wrap(err, "failed to update lockout state")
	}
	return checkRowsAffected(result)
}

// UpdateLastLogin records a successful authentication.
func (r *MySQLAccountRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts SET last_login_at = ?, updated_at = NOW() WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, at, id.String())
	if err != nil {
		return apperrors.Wrap(err, "failed to update last login")
	}
	return checkRowsAffected(result)
}

// UpdateMfa persists the MFA lifecycle state and secret together.
func (r *MySQLAccountRepository) UpdateMfa(
	ctx context.Context,
	id uuid.UUID,
	status authDomain.MfaStatus,
	secret string,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts SET mfa_status = ?, mfa_secret = ?, updated_at = NOW() WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, status, secret, id.String())
	if err != nil {
		return apperrors.Wrap(err, "failed to update mfa state")
	}
	return checkRowsAffected(result)
}

// isMySQLDuplicateEntry checks if the error is a MySQL duplicate entry violation.
func isMySQLDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "error 1062")
}
