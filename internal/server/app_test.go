package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/storeit/internal/logging"
	"github.com/dmitrijs2005/storeit/internal/server/backend"
	"github.com/dmitrijs2005/storeit/internal/server/config"
	"github.com/dmitrijs2005/storeit/internal/server/objectstore"
	"github.com/dmitrijs2005/storeit/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepoManager struct {
	repomanager.RepositoryManager
	migrateErr error
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return f.migrateErr }

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.SweepInterval = 0
	return c
}

// stubBackend swaps the package seams for the duration of the test.
func stubBackend(t *testing.T, migrateErr, bucketErr error) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	origBackend, origRM, origBucket := newBackend, newRepoManager, ensureBucket
	t.Cleanup(func() { newBackend, newRepoManager, ensureBucket = origBackend, origRM, origBucket })

	newBackend = func(context.Context, *config.Config) (*backend.Client, error) {
		return &backend.Client{DB: db, Store: objectstore.NewWithClient(nil, "storeit", "storeit")}, nil
	}
	newRepoManager = func() repomanager.RepositoryManager { return &fakeRepoManager{migrateErr: migrateErr} }
	ensureBucket = func(context.Context, *backend.Client) error { return bucketErr }
	return mock
}

func TestNewApp_BackendError(t *testing.T) {
	orig := newBackend
	t.Cleanup(func() { newBackend = orig })
	newBackend = func(context.Context, *config.Config) (*backend.Client, error) {
		return nil, errors.New("no db")
	}

	_, err := NewApp(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend init error")
}

func TestNewApp_LoggerError(t *testing.T) {
	orig := newLoggerFromName
	t.Cleanup(func() { newLoggerFromName = orig })
	newLoggerFromName = func(string) (logging.Logger, error) { return nil, errors.New("no sink") }

	_, err := NewApp(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logger init error")
}

func TestNewApp_MigrationErrorClosesDB(t *testing.T) {
	mock := stubBackend(t, errors.New("bad migration"), nil)
	mock.ExpectClose()

	_, err := NewApp(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_BucketErrorClosesDB(t *testing.T) {
	mock := stubBackend(t, nil, errors.New("access denied"))
	mock.ExpectClose()

	_, err := NewApp(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket init error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	mock := stubBackend(t, nil, nil)
	mock.ExpectClose()

	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)
	require.NotNil(t, app.fileService)
	require.NotNil(t, app.sweeper)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
