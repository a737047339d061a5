package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/storeit/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find looks up a refresh token by its opaque token string.
	// It returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token by its token string.
	Delete(ctx context.Context, token string) error

	// DeleteExpired purges the user's expired tokens.
	DeleteExpired(ctx context.Context, userID string, now time.Time) (int64, error)
}
