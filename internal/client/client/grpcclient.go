package client

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/accounts/internal/client/models"
	"github.com/dmitrijs2005/accounts/internal/common"
	accountsgrpc "github.com/dmitrijs2005/accounts/internal/server/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	httpURL     string
	conn        *grpc.ClientConn
	dialOpts    []grpc.DialOption

	mu          sync.RWMutex
	accessToken string
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

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewAccountsClient connects to the gRPC endpoint; httpURL is the base URL
// of the HTTP API used for avatar uploads. Extra dial options are appended
// after the defaults.
func NewAccountsClient(endpointURL, httpURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, httpURL: httpURL, dialOpts: opts}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, s.dialOpts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(t string) {
	s.mu.Lock()
	s.accessToken = t
	s.mu.Unlock()
}

func (s *GRPCClient) IsLoggedIn() bool { return s.token() != "" }

// Logout forgets the token. The server keeps no session to end.
func (s *GRPCClient) Logout() { s.setToken("") }

func (s *GRPCClient) invoke(ctx context.Context, method string, in map[string]interface{}) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	resp := new(structpb.Struct)
	if err := s.conn.Invoke(ctx, method, req, resp); err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

// Register creates an account and returns the server's confirmation message.
func (s *GRPCClient) Register(ctx context.Context, r models.Registration) (string, error) {
	resp, err := s.invoke(ctx, accountsgrpc.RegisterMethod, map[string]interface{}{
		"username":    r.Username,
		"email":       r.Email,
		"password":    r.Password,
		"repassword":  r.RePassword,
		"accountType": r.AccountType,
	})
	if err != nil {
		return "", err
	}
	return resp.GetFields()["message"].GetStringValue(), nil
}

// Login accepts a username or an email and keeps the issued token for
// later calls.
func (s *GRPCClient) Login(ctx context.Context, login, password string) error {
	resp, err := s.invoke(ctx, accountsgrpc.LoginMethod, map[string]interface{}{
		"login":    login,
		"password": password,
	})
	if err != nil {
		return err
	}
	s.setToken(resp.GetFields()["authToken"].GetStringValue())
	return nil
}

func (s *GRPCClient) Me(ctx context.Context) (*models.Profile, error) {
	if !s.IsLoggedIn() {
		return nil, ErrNotLoggedIn
	}
	resp, err := s.invoke(ctx, accountsgrpc.MeMethod, nil)
	if err != nil {
		return nil, err
	}
	p := &models.Profile{}
	if err := decodeMessage(resp, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *GRPCClient) GetUser(ctx context.Context, id int64) (*models.Profile, error) {
	if !s.IsLoggedIn() {
		return nil, ErrNotLoggedIn
	}
	resp, err := s.invoke(ctx, accountsgrpc.GetUserMethod, map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	p := &models.Profile{}
	if err := decodeMessage(resp, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *GRPCClient) ListUsers(ctx context.Context) ([]models.Profile, error) {
	if !s.IsLoggedIn() {
		return nil, ErrNotLoggedIn
	}
	resp, err := s.invoke(ctx, accountsgrpc.ListUsersMethod, nil)
	if err != nil {
		return nil, err
	}
	var out []models.Profile
	if err := decodeMessage(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeMessage unpacks the "message" field of a fetch response into dst.
func decodeMessage(resp *structpb.Struct, dst any) error {
	b, err := protojson.Marshal(resp.GetFields()["message"])
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
