// Package repository implements file metadata persistence for PostgreSQL and MySQL.
//
// Both implementations share transaction support via database.GetTx().
// PostgreSQL uses native UUID and BYTEA types, MySQL stores UUIDs as CHAR(36)
// and key material as VARBINARY.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/filevault/internal/database"
	apperrors "github.com/allisson/filevault/internal/errors"
	filesDomain "github.com/allisson/filevault/internal/files/domain"
)

// PostgreSQLFileRepository implements file metadata persistence for PostgreSQL.
type PostgreSQLFileRepository struct {
	db *sql.DB
}

// NewPostgreSQLFileRepository creates a new PostgreSQL file repository.
func NewPostgreSQLFileRepository(db *sql.DB) *PostgreSQLFileRepository {
	return &PostgreSQLFileRepository{db: db}
}

// Create inserts new file metadata.
func (r *PostgreSQLFileRepository) Create(ctx context.Context, file *filesDomain.File) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO files (id, owner_id, name, size, algorithm, key_salt, key_nonce,
			  wrapped_key, content_nonce, digest, storage_key, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		file.ID,
		file.OwnerID,
		file.Name,
		file.Size,
		file.Algorithm,
		file.KeySalt,
		file.KeyNonce,
		file.WrappedKey,
		file.ContentNonce,
		file.Digest,
		file.StorageKey,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create file")
	}
	return nil
}

const postgresFileColumns = `id, owner_id, name, size, algorithm, key_salt, key_nonce,
			  wrapped_key, content_nonce, digest, storage_key, created_at, updated_at`

func scanPostgreSQLFile(scanner interface{ Scan(dest ...any) error }) (*filesDomain.File, error) {
	var file filesDomain.File
	err := scanner.Scan(
		&file.ID,
		&file.OwnerID,
		&file.Name,
		&file.Size,
		&file.Algorithm,
		&file.KeySalt,
		&file.KeyNonce,
		&file.WrappedKey,
		&file.ContentNonce,
		&file.Digest,
		&file.StorageKey,
		&file.CreatedAt,
		&file.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, filesDomain.ErrFileNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get file")
	}
	return &file, nil
}

// GetByID retrieves file metadata by ID.
func (r *PostgreSQLFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*filesDomain.File, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresFileColumns + ` FROM files WHERE id = $1`

	return scanPostgreSQLFile(querier.QueryRowContext(ctx, query, id))
}

// ListByOwner retrieves file metadata for an owner, newest first.
func (r *PostgreSQLFileRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	limit, offset int,
) ([]*filesDomain.File, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresFileColumns + ` FROM files
			  WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list files")
	}
	defer rows.Close()

	var files []*filesDomain.File
	for rows.Next() {
		file, err := scanPostgreSQLFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list files")
	}
	return files, nil
}

// Delete removes file metadata by ID.
func (r *PostgreSQLFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM files WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete file")
	}
	return checkFileRowsAffected(result)
}

// checkFileRowsAffected maps a zero-row update to ErrFileNotFound.
func checkFileRowsAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check affected rows")
	}
	if rows == 0 {
		return filesDomain.ErrFileNotFound
	}
	return nil
}
