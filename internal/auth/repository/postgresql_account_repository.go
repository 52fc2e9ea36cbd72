// Package repository implements account persistence for PostgreSQL and MySQL.
//
// Both implementations share transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL stores UUIDs as CHAR(36).
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

// PostgreSQLAccountRepository implements account persistence for PostgreSQL.
type PostgreSQLAccountRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccountRepository creates a new PostgreSQL account repository.
func NewPostgreSQLAccountRepository(db *sql.DB) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{db: db}
}

// Create inserts a new account.
func (r *PostgreSQLAccountRepository) Create(ctx context.Context, account *authDomain.Account) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO accounts (id, username, password_hash, role, mfa_status, mfa_secret,
			  failed_attempts, locked_until, last_login_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		account.ID,
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
		if isPostgreSQLUniqueViolation(err) {
			return authDomain.ErrAccountAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

const postgresAccountColumns = `id, username, password_hash, role, mfa_status, mfa_secret,
			  failed_attempts, locked_until, last_login_at, created_at, updated_at`

func (r *PostgreSQLAccountRepository) scanAccount(row *sql.Row) (*authDomain.Account, error) {
	var account authDomain.Account
	err := row.Scan(
		&account.ID,
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
	return &account, nil
}

// GetByID retrieves an account by ID.
func (r *PostgreSQLAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresAccountColumns + ` FROM accounts WHERE id = $1`

	return r.scanAccount(querier.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves an account by username.
func (r *PostgreSQLAccountRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*authDomain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresAccountColumns + ` FROM accounts WHERE username = $1`

	return r.scanAccount(querier.QueryRowContext(ctx, query, username))
}

// UpdateLockoutState persists the failed-attempt counter and lockout expiry.
func (r *PostgreSQLAccountRepository) UpdateLockoutState(
	ctx context.Context,
	id uuid.UUID,
	failedAttempts int,
	lockedUntil *time.Time,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts
			  SET failed_attempts = $1, locked_until = $2, updated_at = NOW()
			  WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, failedAttempts, lockedUntil, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update lockout state")
	}
	return checkRowsAffected(result)
}

// UpdateLastLogin records a successful authentication.
func (r *PostgreSQLAccountRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts SET last_login_at = $1, updated_at = NOW() WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, at, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update last login")
	}
	return checkRowsAffected(result)
}

// UpdateMfa persists the MFA lifecycle state and secret together.
func (r *PostgreSQLAccountRepository) UpdateMfa(
	ctx context.Context,
	id uuid.UUID,
	status authDomain.MfaStatus,
	secret string,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts SET mfa_status = $1, mfa_secret = $2, updated_at = NOW() WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, status, secret, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update mfa state")
	}
	return checkRowsAffected(result)
}

// checkRowsAffected maps a zero-row update to ErrAccountNotFound.
func checkRowsAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check affected rows")
	}
	if rows == 0 {
		return authDomain.ErrAccountNotFound
	}
	return nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
