// Package accounts is the record store of user accounts.
package accounts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/models"
)

// Unique-constraint violations, reported by Create and Update. Both match
// common.ErrorAlreadyExists with errors.Is.
var (
	ErrUsernameTaken = fmt.Errorf("username %w", common.ErrorAlreadyExists)
	ErrEmailTaken    = fmt.Errorf("email %w", common.ErrorAlreadyExists)
)

// Repository persists accounts. Lookups of missing rows return
// common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
}
