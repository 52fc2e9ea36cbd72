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

// MySQLFileRepository implements file metadata persistence for MySQL.
type MySQLFileRepository struct {
	db *sql.DB
}

// NewMySQLFileRepository creates a new MySQL file repository.
func NewMySQLFileRepository(db *sql.DB) *MySQLFileRepository {
	return &MySQLFileRepository{db: db}
}

// Create inserts new file metadata.
func (r *MySQLFileRepository) Create(ctx context.Context, file *filesDomain.File) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO files (id, owner_id, name, size, algorithm, key_salt, key_nonce,
			  wrapped_key, content_nonce, digest, storage_key, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		file.ID.String(),
		file.OwnerID.String(),
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

const mysqlFileColumns = `id, owner_id, name, size, algorithm, key_salt, key_nonce,
			  wrapped_key, content_nonce, digest, storage_key, created_at, updated_at`

func scanMySQLFile(scanner interface{ Scan(dest ...any) error }) (*filesDomain.File, error) {
	var file filesDomain.File
	var id, ownerID string

	err := scanner.Scan(
		&id,
		&ownerID,
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

	if file.ID, err = uuid.Parse(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse file id")
	}
	if file.OwnerID, err = uuid.Parse(ownerID); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse owner id")
	}
	return &file, nil
}

// GetByID retrieves file metadata by ID.
func (r *MySQLFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*filesDomain.File, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlFileColumns + ` FROM files WHERE id = ?`

	return scanMySQLFile(querier.QueryRowContext(ctx, query, id.String()))
}

// ListByOwner retrieves file metadata for an owner, newest first.
func (r *MySQLFileRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	limit, offset int,
) ([]*filesDomain.File, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlFileColumns + ` FROM files
			  WHERE owner_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, ownerID.String(), limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list files")
	}
	defer rows.Close()

	var files []*filesDomain.File
	for rows.Next() {
		file, err := scanMySQLFile(rows)
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
func (r *MySQLFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM files WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, id.String())
	if err != nil {
		return apperrors.Wrap(err, "failed to delete file")
	}
	return checkFileRowsAffected(result)
}
