package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "storeit.v1.StoreIt"

// Full method names, as seen by interceptors.
const (
	MethodRegister        = "/" + ServiceName + "/Register"
	MethodLogin           = "/" + ServiceName + "/Login"
	MethodRefreshToken    = "/" + ServiceName + "/RefreshToken"
	MethodLogout          = "/" + ServiceName + "/Logout"
	MethodUploadFile      = "/" + ServiceName + "/UploadFile"
	MethodListFiles       = "/" + ServiceName + "/ListFiles"
	MethodRenameFile      = "/" + ServiceName + "/RenameFile"
	MethodUpdateFileUsers = "/" + ServiceName + "/UpdateFileUsers"
	MethodDeleteFile      = "/" + ServiceName + "/DeleteFile"
)

// StoreItServer is implemented by the gRPC server.
type StoreItServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	UploadFile(context.Context, *UploadFileRequest) (*UploadFileResponse, error)
	ListFiles(context.Context, *ListFilesRequest) (*ListFilesResponse, error)
	RenameFile(context.Context, *RenameFileRequest) (*RenameFileResponse, error)
	UpdateFileUsers(context.Context, *UpdateFileUsersRequest) (*UpdateFileUsersResponse, error)
	DeleteFile(context.Context, *DeleteFileRequest) (*DeleteFileResponse, error)
}

// RegisterStoreItServer attaches srv to the gRPC server s.
func RegisterStoreItServer(s grpc.ServiceRegistrar, srv StoreItServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unaryHandler[Req, Resp any](fullMethod string, call func(StoreItServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(StoreItServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(StoreItServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the StoreIt service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StoreItServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(MethodRegister, StoreItServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(MethodLogin, StoreItServer.Login)},
		{MethodName: "RefreshToken", Handler: unaryHandler(MethodRefreshToken, StoreItServer.RefreshToken)},
		{MethodName: "Logout", Handler: unaryHandler(MethodLogout, StoreItServer.Logout)},
		{MethodName: "UploadFile", Handler: unaryHandler(MethodUploadFile, StoreItServer.UploadFile)},
		{MethodName: "ListFiles", Handler: unaryHandler(MethodListFiles, StoreItServer.ListFiles)},
		{MethodName: "RenameFile", Handler: unaryHandler(MethodRenameFile, StoreItServer.RenameFile)},
		{MethodName: "UpdateFileUsers", Handler: unaryHandler(MethodUpdateFileUsers, StoreItServer.UpdateFileUsers)},
		{MethodName: "DeleteFile", Handler: unaryHandler(MethodDeleteFile, StoreItServer.DeleteFile)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storeit/v1",
}

// StoreItClient is the client API for the StoreIt service.
type StoreItClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error)
	UploadFile(ctx context.Context, in *UploadFileRequest, opts ...grpc.CallOption) (*UploadFileResponse, error)
	ListFiles(ctx context.Context, in *ListFilesRequest, opts ...grpc.CallOption) (*ListFilesResponse, error)
	RenameFile(ctx context.Context, in *RenameFileRequest, opts ...grpc.CallOption) (*RenameFileResponse, error)
	UpdateFileUsers(ctx context.Context, in *UpdateFileUsersRequest, opts ...grpc.CallOption) (*UpdateFileUsersResponse, error)
	DeleteFile(ctx context.Context, in *DeleteFileRequest, opts ...grpc.CallOption) (*DeleteFileResponse, error)
}

type storeItClient struct {
	cc grpc.ClientConnInterface
}

// NewStoreItClient returns a client speaking the JSON codec over cc.
func NewStoreItClient(cc grpc.ClientConnInterface) StoreItClient {
	return &storeItClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *storeItClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *storeItClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *storeItClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *storeItClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, MethodLogout, in, opts)
}

func (c *storeItClient) UploadFile(ctx context.Context, in *UploadFileRequest, opts ...grpc.CallOption) (*UploadFileResponse, error) {
	return invoke[UploadFileResponse](ctx, c.cc, MethodUploadFile, in, opts)
}

func (c *storeItClient) ListFiles(ctx context.Context, in *ListFilesRequest, opts ...grpc.CallOption) (*ListFilesResponse, error) {
	return invoke[ListFilesResponse](ctx, c.cc, MethodListFiles, in, opts)
}

func (c *storeItClient) RenameFile(ctx context.Context, in *RenameFileRequest, opts ...grpc.CallOption) (*RenameFileResponse, error) {
	return invoke[RenameFileResponse](ctx, c.cc, MethodRenameFile, in, opts)
}

func (c *storeItClient) UpdateFileUsers(ctx context.Context, in *UpdateFileUsersRequest, opts ...grpc.CallOption) (*UpdateFileUsersResponse, error) {
	return invoke[UpdateFileUsersResponse](ctx, c.cc, MethodUpdateFileUsers, in, opts)
}

func (c *storeItClient) DeleteFile(ctx context.Context, in *DeleteFileRequest, opts ...grpc.CallOption) (*DeleteFileResponse, error) {
	return invoke[DeleteFileResponse](ctx, c.cc, MethodDeleteFile, in, opts)
}
