// Package services contains server-side business logic. This file implements
// AccountService: registration, login, profile fetch and listing, account
// creation and editing with an optional avatar, and token issuance/checks.
package services

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/cryptox"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/avatars"
	"github.com/dmitrijs2005/accounts/internal/server/config"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accounts/internal/server/validation"
)

// Request field names used in rejections.
const (
	FieldUsername   = "username"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldRePassword = "repassword"
	FieldLogin      = "login"
)

// Result is the success outcome of a mutating operation. AuthToken is set
// only by LoginUser.
type Result struct {
	StatusCode int
	Status     string
	Message    string
	AuthToken  string
}

// Registration is the input of CreateNewUser.
type Registration struct {
	Username    string
	Email       string
	Password    string
	RePassword  string
	AccountType int
}

// AccountFields is the editable field bundle of AddNewUser and EditUserData.
// An empty Password on edit keeps the stored hash.
type AccountFields struct {
	Username    string
	Email       string
	Password    string
	AccountType int
	FirstName   string
	LastName    string
	Description string
	PhoneNumber string
	Website     string
}

// Options are the static settings injected into AccountService.
type Options struct {
	SecretKey     []byte
	TokenValidity time.Duration
	Rules         validation.Rules
	AvatarBaseURL string
	DefaultAvatar string
}

// OptionsFromConfig extracts the service options from the server config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SecretKey:     []byte(cfg.SecretKey),
		TokenValidity: cfg.TokenValidityDuration,
		Rules: validation.Rules{
			Username: validation.NewCharacterRule(cfg.UsernameDisallowed),
			Password: validation.NewCharacterRule(cfg.PasswordDisallowed),
		},
		AvatarBaseURL: cfg.AvatarBaseURL,
		DefaultAvatar: cfg.DefaultAvatar,
	}
}

// AccountService implements the account workflow. Every operation either
// succeeds or returns a *common.FieldError.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      cryptox.PasswordHasher
	avatars     avatars.Store
	log         logging.Logger
	opts        Options
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher cryptox.PasswordHasher,
	store avatars.Store, log logging.Logger, opts Options) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		avatars:     store,
		log:         log.With("module", "services"),
		opts:        opts,
	}
}

// CreateNewUser registers an account. Checks run in a fixed order and the
// first failing one is returned.
func (s *AccountService) CreateNewUser(ctx context.Context, r Registration) (*Result, error) {
	repo := s.repomanager.Accounts(s.db)

	if err := s.validateIdentity(ctx, repo, r.Username, r.Email, 0); err != nil {
		return nil, err
	}
	if s.opts.Rules.Password.ContainsDisallowed(r.Password) || s.opts.Rules.Password.ContainsDisallowed(r.RePassword) {
		return nil, common.NewValidationError(FieldPassword, common.MsgPasswordIncorrect)
	}
	if !validation.PasswordsMatch(r.Password, r.RePassword) {
		return nil, common.NewValidationError(FieldRePassword, common.MsgPasswordsAreNotSame)
	}

	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		return nil, s.serverError(ctx, "hash password", err)
	}

	account := &models.Account{
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: hash,
		AccountType:  r.AccountType,
		AvatarURL:    s.opts.AvatarBaseURL + s.opts.DefaultAvatar,
	}
	created, err := repo.Create(ctx, account)
	if err != nil {
		return nil, s.writeError(ctx, "create account", err)
	}

	s.log.Info(ctx, "account registered", "id", created.ID, "username", created.Username)
	return &Result{StatusCode: http.StatusCreated, Status: common.StatusCreated, Message: common.MsgUserCreated}, nil
}

// LoginUser resolves login as a username first and, only when no such
// username exists, as an email, then verifies the password and issues a token.
func (s *AccountService) LoginUser(ctx context.Context, login, password string) (*Result, error) {
	if login == "" || validation.ContainsWhitespace(login) {
		return nil, common.NewValidationError(FieldLogin, common.MsgLoginIncorrect)
	}

	repo := s.repomanager.Accounts(s.db)

	account, err := repo.FindByUsername(ctx, login)
	if errors.Is(err, common.ErrorNotFound) {
		account, err = repo.FindByEmail(ctx, login)
	}
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewValidationError(FieldLogin, common.MsgLoginDoesNotExist)
		}
		return nil, s.serverError(ctx, "find account", err)
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return nil, s.serverError(ctx, "verify password", err)
	}
	if !ok {
		return nil, common.NewAuthError(FieldPassword, common.MsgPasswordWrong)
	}

	token, err := s.IssueToken(account.ID, account.Username)
	if err != nil {
		return nil, s.serverError(ctx, "issue token", err)
	}

	return &Result{
		StatusCode: http.StatusOK,
		Status:     common.StatusLogged,
		Message:    common.MsgUserLogged,
		AuthToken:  token,
	}, nil
}

// GetUserData returns the profile of the account with the given id.
func (s *AccountService) GetUserData(ctx context.Context, id int64) (*models.Profile, error) {
	account, err := s.repomanager.Accounts(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError(common.MsgUserNotFound)
		}
		return nil, s.serverError(ctx, "find account", err)
	}
	p := account.Profile()
	return &p, nil
}

// DisplayAllUsers returns the profiles of every account ordered by id.
func (s *AccountService) DisplayAllUsers(ctx context.Context) ([]models.Profile, error) {
	list, err := s.repomanager.Accounts(s.db).List(ctx)
	if err != nil {
		return nil, s.serverError(ctx, "list accounts", err)
	}
	profiles := make([]models.Profile, 0, len(list))
	for _, a := range list {
		profiles = append(profiles, a.Profile())
	}
	return profiles, nil
}

// AddNewUser creates an account from a full field bundle. Without a file the
// account gets the default avatar.
func (s *AccountService) AddNewUser(ctx context.Context, f AccountFields, file *avatars.Upload) (*Result, error) {
	repo := s.repomanager.Accounts(s.db)

	if err := s.validateIdentity(ctx, repo, f.Username, f.Email, 0); err != nil {
		return nil, err
	}
	if s.opts.Rules.Password.ContainsDisallowed(f.Password) {
		return nil, common.NewValidationError(FieldPassword, common.MsgPasswordIncorrect)
	}

	hash, err := s.hasher.Hash(f.Password)
	if err != nil {
		return nil, s.serverError(ctx, "hash password", err)
	}

	account := &models.Account{PasswordHash: hash, AvatarURL: s.opts.AvatarBaseURL + s.opts.DefaultAvatar}
	f.apply(account)

	stored, err := s.storeAvatar(ctx, file)
	if err != nil {
		return nil, err
	}
	if stored != "" {
		account.AvatarURL = s.opts.AvatarBaseURL + stored
	}

	created, err := repo.Create(ctx, account)
	if err != nil {
		s.discardAvatar(ctx, stored)
		return nil, s.writeError(ctx, "create account", err)
	}

	s.log.Info(ctx, "account created", "id", created.ID, "username", created.Username)
	return &Result{StatusCode: http.StatusCreated, Status: common.StatusCreated, Message: common.MsgUserCreated}, nil
}

// EditUserData overwrites the account with the given id inside a single
// transaction. Uniqueness checks ignore the edited account itself. An empty
// username, email or password keeps the stored value.
func (s *AccountService) EditUserData(ctx context.Context, id int64, f AccountFields, file *avatars.Upload) (*Result, error) {
	var stored, previousAvatar string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		account, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.NewNotFoundError(common.MsgUserNotFound)
			}
			return s.serverError(ctx, "find account", err)
		}

		if f.Username == "" {
			f.Username = account.Username
		}
		if f.Email == "" {
			f.Email = account.Email
		}
		if err := s.validateIdentity(ctx, repo, f.Username, f.Email, id); err != nil {
			return err
		}
		if f.Password != "" {
			if s.opts.Rules.Password.ContainsDisallowed(f.Password) {
				return common.NewValidationError(FieldPassword, common.MsgPasswordIncorrect)
			}
			hash, err := s.hasher.Hash(f.Password)
			if err != nil {
				return s.serverError(ctx, "hash password", err)
			}
			account.PasswordHash = hash
		}
		f.apply(account)

		stored, err = s.storeAvatar(ctx, file)
		if err != nil {
			return err
		}
		if stored != "" {
			previousAvatar = account.AvatarURL
			account.AvatarURL = s.opts.AvatarBaseURL + stored
		}

		if _, err := repo.Update(ctx, account); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.NewNotFoundError(common.MsgUserNotFound)
			}
			return s.writeError(ctx, "update account", err)
		}
		return nil
	})
	if err != nil {
		s.discardAvatar(ctx, stored)
		var fe *common.FieldError
		if errors.As(err, &fe) {
			return nil, fe
		}
		return nil, s.serverError(ctx, "edit account", err)
	}

	if previousAvatar != "" {
		s.discardAvatar(ctx, s.avatarName(previousAvatar))
	}

	s.log.Info(ctx, "account updated", "id", id)
	return &Result{StatusCode: http.StatusCreated, Status: common.StatusUpdated, Message: common.MsgUserUpdated}, nil
}

// CheckToken verifies token; failures yield auth.InvalidTokenClaims.
func (s *AccountService) CheckToken(token string) auth.TokenClaims {
	return auth.CheckToken(token, s.opts.SecretKey)
}

// IssueToken signs a token for the account with the configured validity.
func (s *AccountService) IssueToken(userID int64, username string) (string, error) {
	return auth.GenerateToken(userID, username, s.opts.SecretKey, s.opts.TokenValidity)
}

// --- helpers below ---

func (f AccountFields) apply(a *models.Account) {
	a.Username = f.Username
	a.Email = f.Email
	a.AccountType = f.AccountType
	a.FirstName = f.FirstName
	a.LastName = f.LastName
	a.Description = f.Description
	a.PhoneNumber = f.PhoneNumber
	a.Website = f.Website
}

// validateIdentity runs the username and email checks shared by every
// write: username taken, username characters, email taken. selfID is the
// account being edited, 0 for new accounts.
func (s *AccountService) validateIdentity(ctx context.Context, repo accounts.Repository, username, email string, selfID int64) error {
	taken, err := s.exists(ctx, repo.FindByUsername, username, selfID)
	if err != nil {
		return err
	}
	if taken {
		return common.NewValidationError(FieldUsername, common.MsgUsernameAlreadyExist)
	}
	if username == "" || s.opts.Rules.Username.ContainsDisallowed(username) {
		return common.NewValidationError(FieldUsername, common.MsgUsernameIncorrect)
	}

	taken, err = s.exists(ctx, repo.FindByEmail, email, selfID)
	if err != nil {
		return err
	}
	if taken {
		return common.NewValidationError(FieldEmail, common.MsgEmailAlreadyExist)
	}
	return nil
}

func (s *AccountService) exists(ctx context.Context, find func(context.Context, string) (*models.Account, error),
	value string, selfID int64) (bool, error) {
	a, err := find(ctx, value)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, s.serverError(ctx, "uniqueness check", err)
	}
	return a.ID != selfID, nil
}

// writeError maps store write failures; unique violations become the same
// rejections the pre-checks produce.
func (s *AccountService) writeError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, accounts.ErrUsernameTaken):
		return common.NewValidationError(FieldUsername, common.MsgUsernameAlreadyExist)
	case errors.Is(err, accounts.ErrEmailTaken):
		return common.NewValidationError(FieldEmail, common.MsgEmailAlreadyExist)
	}
	return s.serverError(ctx, op, err)
}

func (s *AccountService) serverError(ctx context.Context, op string, err error) *common.FieldError {
	s.log.Error(ctx, "account workflow failed", "op", op, "error", err)
	return common.NewServerError(err)
}

func (s *AccountService) storeAvatar(ctx context.Context, file *avatars.Upload) (string, error) {
	if file == nil {
		return "", nil
	}
	name, err := s.avatars.Put(ctx, *file)
	if err != nil {
		return "", s.serverError(ctx, "store avatar", err)
	}
	return name, nil
}

// discardAvatar removes a stored avatar; failures are only logged.
func (s *AccountService) discardAvatar(ctx context.Context, name string) {
	if name == "" || name == s.opts.DefaultAvatar {
		return
	}
	if err := s.avatars.Delete(ctx, name); err != nil {
		s.log.Warn(ctx, "avatar cleanup failed", "name", name, "error", err)
	}
}

// avatarName returns the stored object name behind an avatar URL, or ""
// when the URL does not point into the avatar store.
func (s *AccountService) avatarName(url string) string {
	if s.opts.AvatarBaseURL == "" || !strings.HasPrefix(url, s.opts.AvatarBaseURL) {
		return ""
	}
	return strings.TrimPrefix(url, s.opts.AvatarBaseURL)
}
