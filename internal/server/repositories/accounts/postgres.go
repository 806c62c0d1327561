package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation = "23505"

	usernameConstraint = "accounts_username_key"
	emailConstraint    = "accounts_email_key"
)

const selectColumns = `id, username, email, password_hash, account_type, first_name, last_name,
		        description, phone_number, website, avatar_url, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (username, email, password_hash, account_type, first_name, last_name,
		                       description, phone_number, website, avatar_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		a.Username, a.Email, a.PasswordHash, a.AccountType, a.FirstName, a.LastName,
		a.Description, a.PhoneNumber, a.Website, a.AvatarURL,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return nil, mapWriteError(err)
	}

	return a, nil
}

func (r *PostgresRepository) Update(ctx context.Context, a *models.Account) (*models.Account, error) {
	query :=
		`UPDATE accounts
		 SET username = $2, email = $3, password_hash = $4, account_type = $5, first_name = $6,
		     last_name = $7, description = $8, phone_number = $9, website = $10, avatar_url = $11,
		     updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.Username, a.Email, a.PasswordHash, a.AccountType, a.FirstName,
		a.LastName, a.Description, a.PhoneNumber, a.Website, a.AvatarURL,
	).Scan(&a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, mapWriteError(err)
	}

	return a, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	return r.findOne(ctx, `SELECT `+selectColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.findOne(ctx, `SELECT `+selectColumns+` FROM accounts WHERE username = $1`, username)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, `SELECT `+selectColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*models.Account, error) {
	a := &models.Account{}
	err := s.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.AccountType, &a.FirstName, &a.LastName,
		&a.Description, &a.PhoneNumber, &a.Website, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// mapWriteError translates unique violations into ErrUsernameTaken /
// ErrEmailTaken and wraps everything else.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case usernameConstraint:
			return ErrUsernameTaken
		case emailConstraint:
			return ErrEmailTaken
		}
		return fmt.Errorf("db error: %w: %w", common.ErrorAlreadyExists, err)
	}
	return fmt.Errorf("db error: %w", err)
}
