package uploads

import (
	"context"
	"time"

	"github.com/dmitrijs2005/storeit/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.PendingUpload) error
	Delete(ctx context.Context, bucketFileID string) error
	MarkFailed(ctx context.Context, bucketFileID string) error
	ListOlderThan(ctx context.Context, before time.Time, limit int) ([]*models.PendingUpload, error)
}
