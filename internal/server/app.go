// Package server initializes and runs the StoreIt server.
// It connects the database and object storage, applies migrations, wires the
// services and runs the gRPC server, the HTTP side server and the upload
// sweeper until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/storeit/internal/logging"
	"github.com/dmitrijs2005/storeit/internal/server/backend"
	"github.com/dmitrijs2005/storeit/internal/server/config"
	"github.com/dmitrijs2005/storeit/internal/server/events"
	"github.com/dmitrijs2005/storeit/internal/server/httpapi"
	"github.com/dmitrijs2005/storeit/internal/server/mapper"
	"github.com/dmitrijs2005/storeit/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storeit/internal/server/services"

	gs "github.com/dmitrijs2005/storeit/internal/server/grpc"
)

var (
	newBackend        = backend.New
	newRepoManager    = repomanager.NewPostgresRepositoryManager
	ensureBucket      = func(ctx context.Context, c *backend.Client) error { return c.Store.EnsureBucket(ctx) }
	newLoggerFromName = logging.New
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	backend     *backend.Client
	userService *services.UserService
	fileService *services.FileService
	sweeper     *services.UploadSweeper
	broadcaster *events.Broadcaster
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := newLoggerFromName(c.LogBackend)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	b, err := newBackend(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("backend init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, b.DB); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	if err := ensureBucket(ctx, b); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("bucket init error: %w", err)
	}

	broadcaster := events.NewBroadcaster()
	urls := mapper.URLBuilder{BaseURL: c.FileBaseURL(), Bucket: c.S3Bucket, Prefix: c.ProjectID}

	us := services.NewUserService(b.DB, rm, c)
	fs := services.NewFileService(b.DB, rm, b.Store, urls, us, broadcaster, logger, c.MaxUploadSize)
	sw := services.NewUploadSweeper(b.DB, rm, b.Store, logger, c.PendingUploadTTL, c.SweepInterval)

	return &App{
		config:      c,
		logger:      logger,
		backend:     b,
		userService: us,
		fileService: fs,
		sweeper:     sw,
		broadcaster: broadcaster,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.fileService,
		app.config.SecretKey, app.config.MaxUploadSize)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.New(app.config.EndpointAddrHTTP, app.logger, app.backend.DB, app.broadcaster)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.sweeper.Run(ctx)
	}()

	wg.Wait()

	if err := app.backend.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
