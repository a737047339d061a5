// Package grpc exposes the StoreIt services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/storeit/internal/api"
	"github.com/dmitrijs2005/storeit/internal/logging"
	"github.com/dmitrijs2005/storeit/internal/server/models"
	"github.com/dmitrijs2005/storeit/internal/server/services"
	"google.golang.org/grpc"
)

// messageOverhead covers JSON base64 expansion of an upload body plus the envelope.
const messageOverhead = 1 << 20

// defaultRecvMsgSize applies when uploads are not size-limited. It matches
// the client's send limit.
const defaultRecvMsgSize = 128 << 20

func recvMsgSize(maxUploadSize int64) int {
	if maxUploadSize <= 0 {
		return defaultRecvMsgSize
	}
	return int(maxUploadSize)*4/3 + messageOverhead
}

type userService interface {
	Register(ctx context.Context, email, fullName, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type fileService interface {
	Upload(ctx context.Context, p services.UploadParams) (*models.File, error)
	GetFiles(ctx context.Context) ([]*models.File, error)
	RenameFile(ctx context.Context, p services.RenameParams) (*models.File, error)
	UpdateFileUsers(ctx context.Context, p services.UpdateUsersParams) (*models.File, error)
	DeleteFile(ctx context.Context, p services.DeleteParams) error
}

type GRPCServer struct {
	address        string
	users          userService
	files          fileService
	logger         logging.Logger
	jwtSecret      []byte
	maxRecvMsgSize int
}

func NewGRPCServer(a string, l logging.Logger, us userService, fs fileService, secretKey string, maxUploadSize int64) (*GRPCServer, error) {
	return &GRPCServer{
		address:        a,
		logger:         l.With("module", "grpc_server"),
		users:          us,
		files:          fs,
		jwtSecret:      []byte(secretKey),
		maxRecvMsgSize: recvMsgSize(maxUploadSize),
	}, nil
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	// creates gRPC-server
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor),
		grpc.MaxRecvMsgSize(s.maxRecvMsgSize),
	)

	// registers service
	api.RegisterStoreItServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
