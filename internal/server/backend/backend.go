// Package backend builds the authenticated handle to the document database
// and the object storage used by the command layer.
package backend

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/storeit/internal/server/config"
	"github.com/dmitrijs2005/storeit/internal/server/objectstore"
	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	openDB   = sql.Open
	newStore = objectstore.New
)

// Client exposes the database and object storage sub-clients.
type Client struct {
	DB    *sql.DB
	Store *objectstore.Store
}

// New connects to PostgreSQL and prepares the object storage client. The
// database is pinged once; the bucket is not touched.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	db, err := openDB("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	store, err := newStore(ctx, objectstore.Options{
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3BaseEndpoint,
		AccessKey: cfg.S3RootUser,
		SecretKey: cfg.S3RootPassword,
		Bucket:    cfg.S3Bucket,
		Prefix:    cfg.ProjectID,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	return &Client{DB: db, Store: store}, nil
}

// Close releases the database pool.
func (c *Client) Close() error {
	return c.DB.Close()
}
