package grpc

import (
	"context"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const claimsKey ctxKey = "claims"

var protectedMethods = map[string]bool{
	GetUserMethod:   true,
	ListUsersMethod: true,
	MeMethod:        true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if protectedMethods[info.FullMethod] {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, common.MsgAuthenticationMissing)
		}

		claims := s.accounts.CheckToken(accessToken)
		if !claims.Valid() {
			return nil, status.Error(codes.Unauthenticated, claims.Message)
		}

		ctx = context.WithValue(ctx, claimsKey, claims)

	}

	return handler(ctx, req)
}

func claimsFromContext(ctx context.Context) (auth.TokenClaims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.TokenClaims)
	return c, ok
}
