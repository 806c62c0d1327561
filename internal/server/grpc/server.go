// Package grpc exposes the account workflow as the accounts.AccountService
// gRPC service. Messages are google.protobuf.Struct values.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/services"
	"google.golang.org/grpc"
)

// AccountService is the part of services.AccountService the gRPC server uses.
type AccountService interface {
	CreateNewUser(ctx context.Context, r services.Registration) (*services.Result, error)
	LoginUser(ctx context.Context, login, password string) (*services.Result, error)
	GetUserData(ctx context.Context, id int64) (*models.Profile, error)
	DisplayAllUsers(ctx context.Context) ([]models.Profile, error)
	CheckToken(token string) auth.TokenClaims
}

var _ AccountService = (*services.AccountService)(nil)

type GRPCServer struct {
	address  string
	accounts AccountService
	logger   logging.Logger
}

var _ AccountServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, svc AccountService) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		accounts: svc,
	}
}

// newServer builds the grpc.Server with the service and interceptors registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	RegisterAccountServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
