package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "accounts.AccountService"

// Full method names.
const (
	RegisterMethod  = "/" + ServiceName + "/Register"
	LoginMethod     = "/" + ServiceName + "/Login"
	GetUserMethod   = "/" + ServiceName + "/GetUser"
	ListUsersMethod = "/" + ServiceName + "/ListUsers"
	MeMethod        = "/" + ServiceName + "/Me"
)

// AccountServiceServer is the server API of accounts.AccountService.
// Requests and responses are google.protobuf.Struct values carrying the same
// field names as the HTTP bodies.
type AccountServiceServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Me(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&AccountServiceDesc, srv)
}

var AccountServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(RegisterMethod, AccountServiceServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(LoginMethod, AccountServiceServer.Login)},
		{MethodName: "GetUser", Handler: unaryHandler(GetUserMethod, AccountServiceServer.GetUser)},
		{MethodName: "ListUsers", Handler: unaryHandler(ListUsersMethod, AccountServiceServer.ListUsers)},
		{MethodName: "Me", Handler: unaryHandler(MeMethod, AccountServiceServer.Me)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "accounts.proto",
}

type structMethod func(AccountServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call structMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccountServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(AccountServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
