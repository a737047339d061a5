package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/storeit/internal/api"
	"github.com/dmitrijs2005/storeit/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// maxMessageSize bounds upload requests and list responses.
const maxMessageSize = 128 << 20

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.StoreItClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	onTokens     func(accessToken, refreshToken string)
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

// SetTokens installs a token pair, e.g. one restored from a saved session.
func (s *GRPCClient) SetTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	s.accessToken, s.refreshToken = accessToken, refreshToken
	s.mu.Unlock()
}

// OnTokens registers fn to be called whenever the token pair changes.
func (s *GRPCClient) OnTokens(fn func(accessToken, refreshToken string)) {
	s.mu.Lock()
	s.onTokens = fn
	s.mu.Unlock()
}

func (s *GRPCClient) updateTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	s.accessToken, s.refreshToken = accessToken, refreshToken
	fn := s.onTokens
	s.mu.Unlock()

	if fn != nil {
		fn(accessToken, refreshToken)
	}
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	accessToken, refreshToken := s.tokens()
	callCtx := withAccessToken(ctx, accessToken)

	err := invoker(callCtx, method, req, reply, cc, opts...)

	if err != nil {

		st, ok := status.FromError(err)
		if !ok {
			return err
		}

		if st.Code() != codes.Unauthenticated {
			return err
		}
		if st.Message() != common.ErrTokenExpired.Error() {
			return err
		}

		if refreshToken == "" {
			return err
		}

		refreshTokenResponse, err := s.client.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: refreshToken})
		if err != nil {
			return err
		}

		s.updateTokens(refreshTokenResponse.AccessToken, refreshTokenResponse.RefreshToken)

		// tokens refreshed, retry once with the new access token
		callCtx = withAccessToken(ctx, refreshTokenResponse.AccessToken)
		return invoker(callCtx, method, req, reply, cc, opts...)

	}

	return err
}

func NewStoreItClientService(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
		grpc.WithDefaultCallOptions(grpc.MaxCallSendMsgSize(maxMessageSize), grpc.MaxCallRecvMsgSize(maxMessageSize)),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewStoreItClient(conn)
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, email, fullName, password string) error {

	req := &api.RegisterRequest{Email: email, FullName: fullName, Password: password}

	if _, err := s.client.Register(ctx, req); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) error {

	req := &api.LoginRequest{Email: email, Password: password}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return s.mapError(err)
	}

	s.updateTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// Logout revokes the refresh token on the server and forgets both tokens.
func (s *GRPCClient) Logout(ctx context.Context) error {
	_, refreshToken := s.tokens()
	if refreshToken != "" {
		if _, err := s.client.Logout(ctx, &api.LogoutRequest{RefreshToken: refreshToken}); err != nil {
			return s.mapError(err)
		}
	}
	s.updateTokens("", "")
	return nil
}

func (s *GRPCClient) Upload(ctx context.Context, name string, content []byte, path string) (*api.File, error) {
	resp, err := s.client.UploadFile(ctx, &api.UploadFileRequest{Name: name, Content: content, Path: path})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.File, nil
}

func (s *GRPCClient) List(ctx context.Context) ([]*api.File, error) {
	resp, err := s.client.ListFiles(ctx, &api.ListFilesRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Files, nil
}

func (s *GRPCClient) Rename(ctx context.Context, fileID, name, extension, path string) (*api.File, error) {
	req := &api.RenameFileRequest{FileID: fileID, Name: name, Extension: extension, Path: path}
	resp, err := s.client.RenameFile(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.File, nil
}

func (s *GRPCClient) Share(ctx context.Context, fileID string, emails []string, path string) (*api.File, error) {
	req := &api.UpdateFileUsersRequest{FileID: fileID, Emails: emails, Path: path}
	resp, err := s.client.UpdateFileUsers(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.File, nil
}

func (s *GRPCClient) Delete(ctx context.Context, fileID, bucketFileID, path string) error {
	req := &api.DeleteFileRequest{FileID: fileID, BucketFileID: bucketFileID, Path: path}
	if _, err := s.client.DeleteFile(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.DataLoss:
		return fmt.Errorf("%w: %s", ErrDataLoss, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
