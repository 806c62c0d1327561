// Package httpapi exposes the account workflow over HTTP/JSON using
// gorilla/mux. Profile writes take multipart forms carrying an optional
// "avatar" file part.
package httpapi

import (
	"context"

	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/avatars"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/services"
)

// AccountService is the part of services.AccountService the handlers use.
type AccountService interface {
	CreateNewUser(ctx context.Context, r services.Registration) (*services.Result, error)
	LoginUser(ctx context.Context, login, password string) (*services.Result, error)
	GetUserData(ctx context.Context, id int64) (*models.Profile, error)
	DisplayAllUsers(ctx context.Context) ([]models.Profile, error)
	AddNewUser(ctx context.Context, f services.AccountFields, file *avatars.Upload) (*services.Result, error)
	EditUserData(ctx context.Context, id int64, f services.AccountFields, file *avatars.Upload) (*services.Result, error)
	CheckToken(token string) auth.TokenClaims
}

var _ AccountService = (*services.AccountService)(nil)
