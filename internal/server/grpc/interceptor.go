package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/storeit/internal/api"
	"github.com/dmitrijs2005/storeit/internal/common"
	"github.com/dmitrijs2005/storeit/internal/server/auth"
	"github.com/dmitrijs2005/storeit/internal/server/metrics"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// publicMethods run without an access token.
var publicMethods = map[string]bool{
	api.MethodRegister:     true,
	api.MethodLogin:        true,
	api.MethodRefreshToken: true,
	api.MethodLogout:       true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if !publicMethods[info.FullMethod] {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
		if err != nil {
			// the client refreshes its tokens when it sees this exact message
			if errors.Is(err, common.ErrTokenExpired) {
				return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
			}
			return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
		}

		ctx = auth.WithUserID(ctx, userID)
	}

	return handler(ctx, req)
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	metrics.RecordGRPCRequest(info.FullMethod, status.Code(err).String(), time.Since(start))
	return resp, err
}
