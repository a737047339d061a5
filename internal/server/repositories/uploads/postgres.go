// Package uploads tracks objects written to the bucket whose document is not
// (or no longer) guaranteed to exist. Rows are reconciled by the sweeper.
package uploads

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storeit/internal/dbx"
	"github.com/dmitrijs2005/storeit/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create records a pending object. Recording the same object twice is a no-op.
func (r *PostgresRepository) Create(ctx context.Context, p *models.PendingUpload) error {
	query := `
		INSERT INTO pending_uploads (bucket_file_id, owner_id)
		VALUES ($1, $2)
		ON CONFLICT (bucket_file_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, p.BucketFileID, p.OwnerID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, bucketFileID string) error {
	query := `
		DELETE FROM pending_uploads
		WHERE bucket_file_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, bucketFileID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// MarkFailed counts one failed sweep of the record.
func (r *PostgresRepository) MarkFailed(ctx context.Context, bucketFileID string) error {
	query := `
		UPDATE pending_uploads SET attempts = attempts + 1
		WHERE bucket_file_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, bucketFileID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListOlderThan returns up to limit rows created before the given time,
// fewest failed attempts first, then oldest first.
func (r *PostgresRepository) ListOlderThan(ctx context.Context, before time.Time, limit int) ([]*models.PendingUpload, error) {
	query := `
		SELECT bucket_file_id, owner_id, attempts, created_at
		FROM pending_uploads
		WHERE created_at < $1
		ORDER BY attempts, created_at
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, before, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.PendingUpload
	for rows.Next() {
		p := &models.PendingUpload{}
		if err := rows.Scan(&p.BucketFileID, &p.OwnerID, &p.Attempts, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}
