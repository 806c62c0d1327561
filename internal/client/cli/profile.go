package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/accounts/internal/client/models"
)

// openFile is a test seam for os.Open.
var openFile = func(name string) (io.ReadCloser, error) { return os.Open(name) }

func (a *App) Me(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	p, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	a.printProfile(p)
	return nil
}

func (a *App) User(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: user <id>")
		return nil
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: user <id>")
		return nil
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	p, err := a.client.GetUser(ctx, id)
	if err != nil {
		return err
	}
	a.printProfile(p)
	return nil
}

func (a *App) Users(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	list, err := a.client.ListUsers(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tNAME")
	for _, p := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Username, p.Email, p.DisplayName())
	}
	return tw.Flush()
}

// Avatar uploads the file at args[0] as the new avatar of the logged in
// account. The current profile is fetched first so that the edit keeps
// every other field.
func (a *App) Avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: avatar <file>")
		return nil
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	me, err := a.client.Me(ctx)
	if err != nil {
		return err
	}

	f, err := openFile(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	msg, err := a.client.UploadAvatar(ctx, *me, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) printProfile(p *models.Profile) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", p.ID)
	fmt.Fprintf(tw, "Username:\t%s\n", p.Username)
	fmt.Fprintf(tw, "Email:\t%s\n", p.Email)
	fmt.Fprintf(tw, "Name:\t%s\n", p.DisplayName())
	fmt.Fprintf(tw, "Account type:\t%d\n", p.AccountType)
	if p.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", p.Description)
	}
	if p.PhoneNumber != "" {
		fmt.Fprintf(tw, "Phone:\t%s\n", p.PhoneNumber)
	}
	if p.Website != "" {
		fmt.Fprintf(tw, "Website:\t%s\n", p.Website)
	}
	fmt.Fprintf(tw, "Avatar:\t%s\n", p.AvatarURL)
	_ = tw.Flush()
}
