package client

import (
	"context"

	"github.com/dmitrijs2005/storeit/internal/api"
)

type Client interface {
	Close() error
	Register(ctx context.Context, email, fullName, password string) error
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Upload(ctx context.Context, name string, content []byte, path string) (*api.File, error)
	List(ctx context.Context) ([]*api.File, error)
	Rename(ctx context.Context, fileID, name, extension, path string) (*api.File, error)
	Share(ctx context.Context, fileID string, emails []string, path string) (*api.File, error)
	Delete(ctx context.Context, fileID, bucketFileID, path string) error
	SetTokens(accessToken, refreshToken string)
	OnTokens(fn func(accessToken, refreshToken string))
}
