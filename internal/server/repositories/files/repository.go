package files

import (
	"context"

	"github.com/dmitrijs2005/storeit/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	List(ctx context.Context, userID string, email string) ([]*models.File, error)
	Get(ctx context.Context, id string) (*models.File, error)
	UpdateName(ctx context.Context, id string, name string) error
	UpdateUsers(ctx context.Context, id string, emails []string) error
	Delete(ctx context.Context, id string) (*models.File, error)
	ExistsByBucketFileID(ctx context.Context, bucketFileID string) (bool, error)
}
