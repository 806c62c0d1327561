package services

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/avatars"
	"github.com/dmitrijs2005/accounts/internal/server/config"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/accounts/internal/server/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireFieldError(t *testing.T, err error, kind common.Kind, field, message string) *common.FieldError {
	t.Helper()
	var fe *common.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, kind, fe.Kind)
	assert.Equal(t, field, fe.Field)
	assert.Equal(t, message, fe.Message)
	return fe
}

func register(t *testing.T, f *fixture, username, email, password string) {
	t.Helper()
	_, err := f.svc.CreateNewUser(context.Background(), Registration{
		Username: username, Email: email, Password: password, RePassword: password,
	})
	require.NoError(t, err)
}

func TestCreateNewUser_Success(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CreateNewUser(context.Background(), Registration{
		Username: "alice", Email: "alice@x.com", Password: "Secret1", RePassword: "Secret1", AccountType: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, common.StatusCreated, res.Status)
	assert.Equal(t, common.MsgUserCreated, res.Message)
	assert.Empty(t, res.AuthToken)

	stored := f.repo.get(t, "alice")
	assert.Len(t, f.repo.rows, 1)
	assert.Equal(t, "alice@x.com", stored.Email)
	assert.Equal(t, 2, stored.AccountType)
	assert.NotEqual(t, "Secret1", stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, "Secret1")
	assert.Equal(t, testBaseURL+testDefault, stored.AvatarURL)

	ok, err := f.svc.hasher.Verify("Secret1", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateNewUser_DuplicateUsernameWinsOverEverything(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@x.com", "Secret1")

	_, err := f.svc.CreateNewUser(context.Background(), Registration{
		Username: "alice", Email: "alice@x.com", Password: "bad pass!", RePassword: "different",
	})
	requireFieldError(t, err, common.KindValidation, FieldUsername, common.MsgUsernameAlreadyExist)

	_, err = f.svc.CreateNewUser(context.Background(), Registration{
		Username: "alice", Email: "bob@x.com", Password: "Other2", RePassword: "Other2",
	})
	fe := requireFieldError(t, err, common.KindValidation, FieldUsername, common.MsgUsernameAlreadyExist)
	assert.Equal(t, http.StatusBadRequest, fe.StatusCode())
	assert.Len(t, f.repo.rows, 1)
}

func TestCreateNewUser_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		reg     Registration
		field   string
		message string
	}{
		{
			name:    "username with space",
			reg:     Registration{Username: "al ice", Email: "taken@x.com", Password: "p!", RePassword: "q"},
			field:   FieldUsername,
			message: common.MsgUsernameIncorrect,
		},
		{
			name:    "empty username",
			reg:     Registration{Username: "", Email: "new@x.com", Password: "Secret1", RePassword: "Secret1"},
			field:   FieldUsername,
			message: common.MsgUsernameIncorrect,
		},
		{
			name:    "username with symbol",
			reg:     Registration{Username: "al.ice", Email: "new@x.com", Password: "Secret1", RePassword: "Secret1"},
			field:   FieldUsername,
			message: common.MsgUsernameIncorrect,
		},
		{
			name:    "email taken before password checks",
			reg:     Registration{Username: "carol", Email: "taken@x.com", Password: "p!", RePassword: "q"},
			field:   FieldEmail,
			message: common.MsgEmailAlreadyExist,
		},
		{
			name:    "password with symbol",
			reg:     Registration{Username: "carol", Email: "carol@x.com", Password: "Secret#1", RePassword: "Secret#1"},
			field:   FieldPassword,
			message: common.MsgPasswordIncorrect,
		},
		{
			name:    "confirmation with symbol",
			reg:     Registration{Username: "carol", Email: "carol@x.com", Password: "Secret1", RePassword: "Secret 1"},
			field:   FieldPassword,
			message: common.MsgPasswordIncorrect,
		},
		{
			name:    "passwords differ",
			reg:     Registration{Username: "carol", Email: "carol@x.com", Password: "Secret1", RePassword: "Secret2"},
			field:   FieldRePassword,
			message: common.MsgPasswordsAreNotSame,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			register(t, f, "dave", "taken@x.com", "Secret1")

			_, err := f.svc.CreateNewUser(context.Background(), tt.reg)
			requireFieldError(t, err, common.KindValidation, tt.field, tt.message)
			assert.Len(t, f.repo.rows, 1)
		})
	}
}

func TestCreateNewUser_StoreConstraintIsAuthoritative(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@x.com", "Secret1")
	f.repo.hidden = true

	_, err := f.svc.CreateNewUser(context.Background(), Registration{
		Username: "alice", Email: "other@x.com", Password: "Secret1", RePassword: "Secret1",
	})
	requireFieldError(t, err, common.KindValidation, FieldUsername, common.MsgUsernameAlreadyExist)

	_, err = f.svc.CreateNewUser(context.Background(), Registration{
		Username: "bob", Email: "alice@x.com", Password: "Secret1", RePassword: "Secret1",
	})
	requireFieldError(t, err, common.KindValidation, FieldEmail, common.MsgEmailAlreadyExist)
}

func TestCreateNewUser_ServerErrors(t *testing.T) {
	t.Run("lookup", func(t *testing.T) {
		f := newFixture(t)
		f.repo.errs["FindByUsername"] = errBoom

		_, err := f.svc.CreateNewUser(context.Background(), Registration{Username: "a", Email: "a@x", Password: "p", RePassword: "p"})
		fe := requireFieldError(t, err, common.KindServer, common.FieldNone, common.MsgServerUnableContinue)
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, http.StatusInternalServerError, fe.StatusCode())
	})

	t.Run("create", func(t *testing.T) {
		f := newFixture(t)
		f.repo.errs["Create"] = errBoom

		_, err := f.svc.CreateNewUser(context.Background(), Registration{Username: "a", Email: "a@x", Password: "p", RePassword: "p"})
		requireFieldError(t, err, common.KindServer, common.FieldNone, common.MsgServerUnableContinue)
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("hash", func(t *testing.T) {
		f := newFixture(t)
		f.svc.hasher = failingHasher{hashErr: errBoom}

		_, err := f.svc.CreateNewUser(context.Background(), Registration{Username: "a", Email: "a@x", Password: "p", RePassword: "p"})
		requireFieldError(t, err, common.KindServer, common.FieldNone, common.MsgServerUnableContinue)
		assert.Empty(t, f.repo.rows)
	})
}

func TestLoginUser_ByUsernameAndEmail(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@x.com", "Secret1")
	alice := f.repo.get(t, "alice")

	for _, login := range []string{"alice", "alice@x.com"} {
		res, err := f.svc.LoginUser(context.Background(), login, "Secret1")
		require.NoError(t, err, login)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, common.StatusLogged, res.Status)
		require.NotEmpty(t, res.AuthToken)

		claims := f.svc.CheckToken(res.AuthToken)
		require.True(t, claims.Valid())
		assert.Equal(t, alice.ID, claims.UserID)
		assert.Equal(t, "alice", *claims.Username)
	}
}

func TestLoginUser_UsernameTakesPrecedenceOverEmail(t *testing.T) {
	f := newFixture(t)
	f.svc.opts.Rules.Username = validation.NewCharacterRule(" ")
	register(t, f, "alice", "alice@x.com", "Secret1")
	register(t, f, "alice@x.org", "other@x.com", "Secret2")
	register(t, f, "carol", "alice@x.org", "Secret3")

	res, err := f.svc.LoginUser(context.Background(), "alice@x.org", "Secret2")
	require.NoError(t, err)
	claims := f.svc.CheckToken(res.AuthToken)
	assert.Equal(t, "alice@x.org", *claims.Username)

	_, err = f.svc.LoginUser(context.Background(), "alice@x.org", "Secret3")
	requireFieldError(t, err, common.KindAuth, FieldPassword, common.MsgPasswordWrong)
}

func TestLoginUser_Rejections(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@x.com", "Secret1")

	_, err := f.svc.LoginUser(context.Background(), "alice", "wrongpass")
	requireFieldError(t, err, common.KindAuth, FieldPassword, common.MsgPasswordWrong)

	_, err = f.svc.LoginUser(context.Background(), "nouser", "anything")
	requireFieldError(t, err, common.KindValidation, FieldLogin, common.MsgLoginDoesNotExist)

	_, err = f.svc.LoginUser(context.Background(), "ali ce", "Secret1")
	requireFieldError(t, err, common.KindValidation, FieldLogin, common.MsgLoginIncorrect)

	_, err = f.svc.LoginUser(context.Background(), "alice\t", "Secret1")
	requireFieldError(t, err, common.KindValidation, FieldLogin, common.MsgLoginIncorrect)

	_, err = f.svc.LoginUser(context.Background(), "", "Secret1")
	requireFieldError(t, err, common.KindValidation, FieldLogin, common.MsgLoginIncorrect)
}

func TestLoginUser_ServerErrors(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@x.com", "Secret1")

	f.repo.errs["FindByEmail"] = errBoom
	_, err := f.svc.LoginUser(context.Background(), "nouser", "x")
	requireFieldError(t, err, common.KindServer, common.FieldNone, common.MsgServerUnableContinue)

	f.svc.hasher = failingHasher{verifyErr: errBoom}
	_, err = f.svc.LoginUser(context.Background(), "alice", "Secret1")
	requireFieldError(t, err, common.KindServer, common.FieldNone, common.MsgServerUnableContinue)
	assert.ErrorIs(t, err, errBoom)
}

func TestGetUserData(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@x.com", "Secret1")
	alice := f.repo.get(t, "alice")

	p, err := f.svc.GetUserData(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, p.ID)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "alice@x.com", p.Email)

	_, err = f.svc.GetUserData(context.Background(), 999)
	fe := requireFieldError(t, err, common.KindNotFound, common.FieldNone, common.MsgUserNotFound)
	assert.Equal(t, http.StatusBadRequest, fe.StatusCode())

	f.repo.errs["FindByID"] = errBoom
	_, err = f.svc.GetUserData(context.Background(), alice.ID)
	requireFieldError(t, err, common.KindServer, common.FieldNone, common.MsgServerUnableContinue)
}

func TestDisplayAllUsers(t *testing.T) {
	f := newFixture(t)

	list, err := f.svc.DisplayAllUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	register(t, f, "alice", "alice@x.com", "Secret1")
	register(t, f, "bob", "bob@x.com", "Secret2")

	list, err = f.svc.DisplayAllUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].Username)
	assert.Equal(t, "bob", list[1].Username)

	f.repo.errs["List"] = errBoom
	_, err = f.svc.DisplayAllUsers(context.Background())
	requireFieldError(t, err, common.KindServer, common.FieldNone, common.MsgServerUnableContinue)
}

func fields(username, email, password string) AccountFields {
	return AccountFields{
		Username:    username,
		Email:       email,
		Password:    password,
		AccountType: 1,
		FirstName:   "First",
		LastName:    "Last",
		Description: "about me",
		PhoneNumber: "+100",
		Website:     "https://example.com",
	}
}

func upload(content string) *avatars.Upload {
	return &avatars.Upload{Filename: "me.png", ContentType: "image/png", Body: strings.NewReader(content), Size: int64(len(content))}
}

func TestAddNewUser_WithAndWithoutAvatar(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.AddNewUser(context.Background(), fields("alice", "alice@x.com", "Secret1"), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	alice := f.repo.get(t, "alice")
	assert.Equal(t, testBaseURL+testDefault, alice.AvatarURL)
	assert.Equal(t, "First", alice.FirstName)
	assert.Equal(t, "https://example.com", alice.Website)

	_, err = f.svc.AddNewUser(context.Background(), fields("bob", "bob@x.com", "Secret2"), upload("png"))
	require.NoError(t, err)
	bob := f.repo.get(t, "bob")
	assert.Equal(t, testBaseURL+"obj-1.png", bob.AvatarURL)
	assert.Equal(t, "png", f.store.objects["obj-1.png"])
}

func TestAddNewUser_Validation(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@x.com", "Secret1")

	_, err := f.svc.AddNewUser(context.Background(), fields("alice", "new@x.com", "Secret1"), upload("x"))
	requireFieldError(t, err, common.KindValidation, FieldUsername, common.MsgUsernameAlreadyExist)

	_, err = f.svc.AddNewUser(context.Background(), fields("bo b", "new@x.com", "Secret1"), nil)
	requireFieldError(t, err, common.KindValidation, FieldUsername, common.MsgUsernameIncorrect)

	_, err = f.svc.AddNewUser(context.Background(), fields("bob", "alice@x.com", "Secret1"), nil)
	requireFieldError(t, err, common.KindValidation, FieldEmail, common.MsgEmailAlreadyExist)

	_, err = f.svc.AddNewUser(context.Background(), fields("bob", "bob@x.com", "Sec/ret"), nil)
	requireFieldError(t, err, common.KindValidation, FieldPassword, common.MsgPasswordIncorrect)

	assert.Empty(t, f.store.objects, "rejected requests must not store avatars")
}

func TestAddNewUser_CreateFailureDiscardsAvatar(t *testing.T) {
	f := newFixture(t)
	f.repo.errs["Create"] = errBoom

	_, err := f.svc.AddNewUser(context.Background(), fields("bob", "bob@x.com", "Secret1"), upload("png"))
	requireFieldError(t, err, common.KindServer, common.FieldNone, common.MsgServerUnableContinue)
	assert.Empty(t, f.store.objects)
	assert.Equal(t, []string{"obj-1.png"}, f.store.deleted)
}

func TestAddNewUser_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.putErr = errBoom

	_, err := f.svc.AddNewUser(context.Background(), fields("bob", "bob@x.com", "Secret1"), upload("png"))
	requireFieldError(t, err, common.KindServer, common.FieldNone, common.MsgServerUnableContinue)
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, f.repo.rows)
}

func TestEditUserData_Success(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@x.com", "Secret1")
	alice := f.repo.get(t, "alice")
	oldHash := alice.PasswordHash

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	res, err := f.svc.EditUserData(context.Background(), alice.ID, fields("alice", "alice@y.com", ""), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, common.StatusUpdated, res.Status)
	assert.Equal(t, common.MsgUserUpdated, res.Message)

	updated := f.repo.get(t, "alice")
	assert.Equal(t, "alice@y.com", updated.Email)
	assert.Equal(t, "about me", updated.Description)
	assert.Equal(t, oldHash, updated.PasswordHash, "empty password keeps the hash")
	assert.Equal(t, testBaseURL+testDefault, updated.AvatarURL, "no file keeps the avatar")
	assert.Empty(t, f.store.deleted, "default avatar is never deleted")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestEditUserData_EmptyIdentityKeepsStoredValues(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@x.com", "Secret1")
	alice := f.repo.get(t, "alice")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	_, err := f.svc.EditUserData(context.Background(), alice.ID, AccountFields{FirstName: "Alice"}, nil)
	require.NoError(t, err)

	updated := f.repo.get(t, "alice")
	assert.Equal(t, alice.ID, updated.ID)
	assert.Equal(t, "alice@x.com", updated.Email)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, alice.PasswordHash, updated.PasswordHash)
	assert.NoError(t, f.mock.ExpectationsWereMet())

	_, err = f.svc.LoginUser(context.Background(), "alice", "Secret1")
	require.NoError(t, err)
	_, err = f.svc.LoginUser(context.Background(), "", "Secret1")
	requireFieldError(t, err, common.KindValidation, FieldLogin, common.MsgLoginIncorrect)
}

func TestEditUserData_NewPasswordAndAvatar(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AddNewUser(context.Background(), fields("alice", "alice@x.com", "Secret1"), upload("old"))
	require.NoError(t, err)
	alice := f.repo.get(t, "alice")
	require.Equal(t, testBaseURL+"obj-1.png", alice.AvatarURL)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	_, err = f.svc.EditUserData(context.Background(), alice.ID, fields("alice2", "alice@x.com", "NewSecret"), upload("new"))
	require.NoError(t, err)

	updated := f.repo.get(t, "alice2")
	assert.Equal(t, testBaseURL+"obj-2.png", updated.AvatarURL)
	assert.Equal(t, []string{"obj-1.png"}, f.store.deleted, "replaced avatar is removed")

	ok, err := f.svc.hasher.Verify("NewSecret", updated.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.svc.LoginUser(context.Background(), "alice2", "NewSecret")
	assert.NoError(t, err)
}

func TestEditUserData_Rejections(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@x.com", "Secret1")
	register(t, f, "bob", "bob@x.com", "Secret2")
	alice := f.repo.get(t, "alice")

	cases := []struct {
		name    string
		id      int64
		fields  AccountFields
		kind    common.Kind
		field   string
		message string
	}{
		{"missing account", 999, fields("x", "x@x.com", ""), common.KindNotFound, common.FieldNone, common.MsgUserNotFound},
		{"username of another account", alice.ID, fields("bob", "alice@x.com", ""), common.KindValidation, FieldUsername, common.MsgUsernameAlreadyExist},
		{"bad username", alice.ID, fields("ali ce", "alice@x.com", ""), common.KindValidation, FieldUsername, common.MsgUsernameIncorrect},
		{"email of another account", alice.ID, fields("alice", "bob@x.com", ""), common.KindValidation, FieldEmail, common.MsgEmailAlreadyExist},
		{"bad password", alice.ID, fields("alice", "alice@x.com", "pa ss"), common.KindValidation, FieldPassword, common.MsgPasswordIncorrect},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f.mock.ExpectBegin()
			f.mock.ExpectRollback()

			_, err := f.svc.EditUserData(context.Background(), tc.id, tc.fields, upload("img"))
			requireFieldError(t, err, tc.kind, tc.field, tc.message)
			assert.NoError(t, f.mock.ExpectationsWereMet())
		})
	}

	assert.Empty(t, f.store.objects)
	assert.Equal(t, "alice@x.com", f.repo.get(t, "alice").Email)
}

func TestEditUserData_UpdateFailureDiscardsAvatar(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@x.com", "Secret1")
	alice := f.repo.get(t, "alice")
	f.repo.errs["Update"] = errBoom

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.EditUserData(context.Background(), alice.ID, fields("alice", "alice@x.com", ""), upload("img"))
	requireFieldError(t, err, common.KindServer, common.FieldNone, common.MsgServerUnableContinue)
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, f.store.objects)
	assert.Equal(t, []string{"obj-1.png"}, f.store.deleted)
}

func TestEditUserData_StoreConstraint(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@x.com", "Secret1")
	register(t, f, "bob", "bob@x.com", "Secret2")
	alice := f.repo.get(t, "alice")
	f.repo.hidden = true

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.EditUserData(context.Background(), alice.ID, fields("alice", "bob@x.com", ""), nil)
	requireFieldError(t, err, common.KindValidation, FieldEmail, common.MsgEmailAlreadyExist)
}

func TestEditUserData_TransactionErrors(t *testing.T) {
	f := newFixture(t)
	register(t, f, "alice", "alice@x.com", "Secret1")
	alice := f.repo.get(t, "alice")

	f.mock.ExpectBegin().WillReturnError(errors.New("no conn"))
	_, err := f.svc.EditUserData(context.Background(), alice.ID, fields("alice", "alice@x.com", ""), nil)
	requireFieldError(t, err, common.KindServer, common.FieldNone, common.MsgServerUnableContinue)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit().WillReturnError(sql.ErrConnDone)
	_, err = f.svc.EditUserData(context.Background(), alice.ID, fields("alice", "alice@x.com", ""), upload("img"))
	requireFieldError(t, err, common.KindServer, common.FieldNone, common.MsgServerUnableContinue)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Empty(t, f.store.objects, "avatar of a failed commit is discarded")
}

func TestCheckToken(t *testing.T) {
	f := newFixture(t)

	token, err := f.svc.IssueToken(42, "alice")
	require.NoError(t, err)

	claims := f.svc.CheckToken(token)
	assert.Equal(t, int64(42), claims.UserID)
	require.NotNil(t, claims.Username)
	assert.Equal(t, "alice", *claims.Username)

	tampered := token[:len(token)-2] + "xx"
	assert.Equal(t, auth.InvalidTokenClaims, f.svc.CheckToken(tampered))
	assert.Equal(t, auth.InvalidTokenClaims, f.svc.CheckToken("garbage"))

	other, err := auth.GenerateToken(42, "alice", []byte("other-secret"), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, auth.InvalidTokenClaims, f.svc.CheckToken(other))

	f.svc.opts.TokenValidity = -time.Minute
	expired, err := f.svc.IssueToken(42, "alice")
	require.NoError(t, err)
	assert.Equal(t, auth.InvalidTokenClaims, f.svc.CheckToken(expired))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.UsernameDisallowed = "#"
	cfg.PasswordDisallowed = "$"

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, []byte(cfg.SecretKey), opts.SecretKey)
	assert.Equal(t, 24*time.Hour, opts.TokenValidity)
	assert.Equal(t, cfg.AvatarBaseURL, opts.AvatarBaseURL)
	assert.Equal(t, cfg.DefaultAvatar, opts.DefaultAvatar)
	assert.True(t, opts.Rules.Username.ContainsDisallowed("a#b"))
	assert.False(t, opts.Rules.Username.ContainsDisallowed("a$b"))
	assert.True(t, opts.Rules.Password.ContainsDisallowed("a$b"))
}

func TestNewAccountService_WiresRepositories(t *testing.T) {
	svc := NewAccountService(nil, &fakeRepoManager{repo: newMemRepo()}, failingHasher{}, newFakeStore(), logging.NewNopLogger(), testOptions())
	assert.NotNil(t, svc.log)
	var _ accounts.Repository = svc.repomanager.Accounts(nil)
}
