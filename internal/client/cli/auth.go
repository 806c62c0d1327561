package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/accounts/internal/client/models"
	"github.com/dmitrijs2005/accounts/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and creates the account. The
// passwords are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	accountType, err := a.readAccountType()
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	rePassword, err := getPassword(a.out, "Repeat password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(rePassword)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	msg, err := a.client.Register(ctx, models.Registration{
		Username:    username,
		Email:       email,
		Password:    string(password),
		RePassword:  string(rePassword),
		AccountType: accountType,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) readAccountType() (int, error) {
	s, err := getSimpleText(a.reader, "Enter account type (number, empty for 0)", a.out)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, common.NewValidationError("accountType", common.MsgAccountTypeIncorrect)
	}
	return n, nil
}

// Login prompts for a username or email and a password. On success the
// client keeps the token for the following commands.
func (a *App) Login(ctx context.Context) error {
	login, err := getSimpleText(a.reader, "Enter username or email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.Login(ctx, login, string(password)); err != nil {
		return err
	}

	a.userName = login
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout drops the token. Tokens are stateless, so nothing is sent.
func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
