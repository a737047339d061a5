package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/storeit/internal/api"
	"github.com/dmitrijs2005/storeit/internal/common"
	"github.com/dmitrijs2005/storeit/internal/server/models"
	"github.com/dmitrijs2005/storeit/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request")

	user, err := s.users.Register(ctx, req.Email, req.FullName, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return &api.RegisterResponse{UserID: user.ID, AccountID: user.AccountID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {

	tokens, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.LoginResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.RefreshTokenResponse, error) {

	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *api.LogoutRequest) (*api.LogoutResponse, error) {

	if err := s.users.Logout(ctx, req.RefreshToken); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.LogoutResponse{}, nil
}

func (s *GRPCServer) UploadFile(ctx context.Context, req *api.UploadFileRequest) (*api.UploadFileResponse, error) {

	file, err := s.files.Upload(ctx, services.UploadParams{Name: req.Name, Content: req.Content, Path: req.Path})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.UploadFileResponse{File: fileToAPI(file)}, nil
}

func (s *GRPCServer) ListFiles(ctx context.Context, _ *api.ListFilesRequest) (*api.ListFilesResponse, error) {

	files, err := s.files.GetFiles(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := &api.ListFilesResponse{Files: make([]*api.File, 0, len(files))}
	for _, f := range files {
		resp.Files = append(resp.Files, fileToAPI(f))
	}
	return resp, nil
}

func (s *GRPCServer) RenameFile(ctx context.Context, req *api.RenameFileRequest) (*api.RenameFileResponse, error) {

	file, err := s.files.RenameFile(ctx, services.RenameParams{
		FileID: req.FileID, Name: req.Name, Extension: req.Extension, Path: req.Path,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.RenameFileResponse{File: fileToAPI(file)}, nil
}

func (s *GRPCServer) UpdateFileUsers(ctx context.Context, req *api.UpdateFileUsersRequest) (*api.UpdateFileUsersResponse, error) {

	file, err := s.files.UpdateFileUsers(ctx, services.UpdateUsersParams{FileID: req.FileID, Emails: req.Emails, Path: req.Path})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.UpdateFileUsersResponse{File: fileToAPI(file)}, nil
}

func (s *GRPCServer) DeleteFile(ctx context.Context, req *api.DeleteFileRequest) (*api.DeleteFileResponse, error) {

	err := s.files.DeleteFile(ctx, services.DeleteParams{FileID: req.FileID, BucketFileID: req.BucketFileID, Path: req.Path})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.DeleteFileResponse{}, nil
}

// toStatus converts service errors into gRPC statuses. Internal details are
// logged, never sent. File command failures were already logged by the
// service and only reach the debug log here.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	var uploadErr *common.UploadError
	var backendErr *common.BackendError

	switch {
	case errors.Is(err, common.ErrUnauthenticated), errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.As(err, &uploadErr) && uploadErr.Orphaned:
		return status.Errorf(codes.DataLoss, "upload failed, object %s orphaned", uploadErr.ObjectID)
	}

	if uploadErr != nil || errors.As(err, &backendErr) {
		s.logger.Debug(ctx, "request failed", "error", err)
	} else {
		s.logger.Error(ctx, "request failed", "error", err)
	}
	return status.Error(codes.Internal, "internal error")
}

func fileToAPI(f *models.File) *api.File {
	return &api.File{
		ID:        f.ID,
		Name:      f.Name,
		Type:      f.Type,
		Extension: f.Extension,
		Size:      f.Size,
		URL:       f.URL,
		Owner: api.Owner{
			ID:       f.Owner.ID,
			FullName: f.Owner.FullName,
			Email:    f.Owner.Email,
		},
		AccountID:    f.AccountID,
		Users:        f.Users,
		BucketFileID: f.BucketFileID,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}
