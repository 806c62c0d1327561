package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const fetchType = "success"

// maxSafeInteger is the largest integer a float64 holds exactly.
const maxSafeInteger = 1<<53 - 1

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	s.logger.Info(ctx, "Registration request")

	f := req.GetFields()
	accountType, ok := intField(f["accountType"], math.MinInt32, math.MaxInt32)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "accountType: "+common.MsgAccountTypeIncorrect)
	}

	res, err := s.accounts.CreateNewUser(ctx, services.Registration{
		Username:    f["username"].GetStringValue(),
		Email:       f["email"].GetStringValue(),
		Password:    f["password"].GetStringValue(),
		RePassword:  f["repassword"].GetStringValue(),
		AccountType: int(accountType),
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "username", f["username"].GetStringValue())
	return resultStruct(res)
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	f := req.GetFields()
	res, err := s.accounts.LoginUser(ctx, f["login"].GetStringValue(), f["password"].GetStringValue())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return resultStruct(res)
}

func (s *GRPCServer) GetUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	id, ok := intField(req.GetFields()["id"], 0, maxSafeInteger)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "id: "+common.MsgMalformedRequest)
	}
	profile, err := s.accounts.GetUserData(ctx, id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return fetchStruct(profile)
}

func (s *GRPCServer) ListUsers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	profiles, err := s.accounts.DisplayAllUsers(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return fetchStruct(profiles)
}

func (s *GRPCServer) Me(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, common.MsgAuthenticationMissing)
	}

	profile, err := s.accounts.GetUserData(ctx, claims.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return fetchStruct(profile)
}

// intField reads a whole number in [lo, hi] from v. An absent or null
// value reads as zero.
func intField(v *structpb.Value, lo, hi int64) (int64, bool) {
	switch k := v.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return 0, true
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n != math.Trunc(n) || n < float64(lo) || n > float64(hi) {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

// toStatus maps a workflow error onto a gRPC status. Validation and auth
// rejections carry "field: message".
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	var fe *common.FieldError
	if !errors.As(err, &fe) {
		s.logger.Error(ctx, "unclassified error", "error", err)
		return status.Error(codes.Internal, common.MsgServerUnableContinue)
	}

	switch fe.Kind {
	case common.KindValidation, common.KindAuth:
		return status.Error(codes.InvalidArgument, fe.Field+": "+fe.Message)
	case common.KindNotFound:
		return status.Error(codes.NotFound, fe.Message)
	}
	return status.Error(codes.Internal, fe.Message)
}

func resultStruct(res *services.Result) (*structpb.Struct, error) {
	m := map[string]interface{}{
		"statusCode": res.StatusCode,
		"success":    res.Status,
		"message":    res.Message,
	}
	if res.AuthToken != "" {
		m["authToken"] = res.AuthToken
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, common.MsgServerUnableContinue)
	}
	return out, nil
}

// fetchStruct wraps payload as {statusCode, type, message}. payload goes
// through its JSON form so struct tags decide the field names.
func fetchStruct(payload any) (*structpb.Struct, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, status.Error(codes.Internal, common.MsgServerUnableContinue)
	}
	var message interface{}
	if err := json.Unmarshal(b, &message); err != nil {
		return nil, status.Error(codes.Internal, common.MsgServerUnableContinue)
	}

	out, err := structpb.NewStruct(map[string]interface{}{
		"statusCode": http.StatusOK,
		"type":       fetchType,
		"message":    message,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, common.MsgServerUnableContinue)
	}
	return out, nil
}
