package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/accounts/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotLoggedIn  = errors.New("not logged in")
)

// mapError turns a gRPC status into a sentinel or a *common.FieldError.
// InvalidArgument messages have the form "field: message".
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.InvalidArgument:
		if field, msg, ok := strings.Cut(st.Message(), ": "); ok {
			return common.NewValidationError(field, msg)
		}
		return common.NewValidationError(common.FieldNone, st.Message())
	case codes.NotFound:
		return common.NewNotFoundError(st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
