package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/accounts/internal/client/models"
)

// Client is the CLI's view of the accounts server.
type Client interface {
	Close() error
	Register(ctx context.Context, r models.Registration) (string, error)
	Login(ctx context.Context, login, password string) error
	Logout()
	IsLoggedIn() bool
	Me(ctx context.Context) (*models.Profile, error)
	GetUser(ctx context.Context, id int64) (*models.Profile, error)
	ListUsers(ctx context.Context) ([]models.Profile, error)
	UploadAvatar(ctx context.Context, p models.Profile, filename string, body io.Reader) (string, error)
}
