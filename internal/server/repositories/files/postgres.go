// Package files provides the PostgreSQL-backed repository of file documents.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storeit/internal/common"
	"github.com/dmitrijs2005/storeit/internal/dbx"
	"github.com/dmitrijs2005/storeit/internal/server/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const selectFile = `SELECT f.id, f.name, f.type, f.extension, f.size, f.url,
		f.owner_id, u.full_name, u.email, f.account_id, f.users, f.bucket_file_id,
		f.created_at, f.updated_at
		FROM files f
		JOIN users u ON u.id = f.owner_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the document and fills in its id and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {

	query :=
		`INSERT INTO files (name, type, extension, size, url, owner_id, account_id, users, bucket_file_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at
		 `

	users := file.Users
	if users == nil {
		users = []string{}
	}

	err := r.db.QueryRowContext(ctx, query,
		file.Name, file.Type, file.Extension, file.Size, file.URL,
		file.Owner.ID, file.AccountID, pq.Array(users), file.BucketFileID,
	).Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	file.Users = users
	return file, nil
}

// List returns the files owned by userID or shared with email, most
// recently updated first.
func (r *PostgresRepository) List(ctx context.Context, userID string, email string) ([]*models.File, error) {
	query := selectFile + `
		WHERE f.owner_id = $1 OR f.users @> ARRAY[lower($2)]::text[]
		ORDER BY f.updated_at DESC, f.id
		`

	rows, err := r.db.QueryContext(ctx, query, userID, email)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// Get returns the file with the given id or common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.File, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	query := selectFile + `
		WHERE f.id = $1
		`

	f, err := scanFile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}

// UpdateName changes only the name of the file; type and extension stay.
func (r *PostgresRepository) UpdateName(ctx context.Context, id string, name string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}

	query :=
		`UPDATE files SET name = $2, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, name)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res)
}

// UpdateUsers replaces the viewer list. The owner's own email is removed.
func (r *PostgresRepository) UpdateUsers(ctx context.Context, id string, emails []string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}

	query :=
		`UPDATE files SET
			users = array_remove($2::text[], (SELECT lower(email) FROM users WHERE users.id = files.owner_id)),
			updated_at = now()
		 WHERE id = $1
		 `

	if emails == nil {
		emails = []string{}
	}

	res, err := r.db.ExecContext(ctx, query, id, pq.Array(emails))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res)
}

// Delete removes the document and returns the identifiers of what it
// referenced: the bucket object and the owner.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (*models.File, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	query :=
		`DELETE FROM files
		 WHERE id = $1
		 RETURNING id, bucket_file_id, owner_id
		 `

	f := &models.File{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.BucketFileID, &f.Owner.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}

// ExistsByBucketFileID reports whether a document references the object.
func (r *PostgresRepository) ExistsByBucketFileID(ctx context.Context, bucketFileID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM files WHERE bucket_file_id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, bucketFileID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

// validID reports whether id can name a row. The id column is a uuid, so
// anything else would fail in Postgres with invalid_text_representation.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner) (*models.File, error) {
	f := &models.File{}
	err := s.Scan(&f.ID, &f.Name, &f.Type, &f.Extension, &f.Size, &f.URL,
		&f.Owner.ID, &f.Owner.FullName, &f.Owner.Email, &f.AccountID, pq.Array(&f.Users), &f.BucketFileID,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if f.Users == nil {
		f.Users = []string{}
	}
	return f, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}

	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
