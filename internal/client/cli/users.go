package cli

import (
	"bytes"
	"context"
	"flag"
	"fmt"

	"github.com/ttakano/climblog/internal/flagx"
)

func (a *App) usersCmd(ctx context.Context, words []string) error {
	if len(words) == 0 || words[0] != "list" {
		return fmt.Errorf("%w: usage: users list", errUsage)
	}

	creds, err := a.promptCredentials()
	if err != nil {
		return err
	}

	users, err := a.api.ListUsers(ctx, creds)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "--- Users ---")
	for _, u := range users {
		fmt.Fprintf(a.out, "- ID: %d, Username: %s, Email: %s\n", u.ID, u.Username, u.Email)
	}
	return nil
}

func (a *App) registerCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-username", "-email"})); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("%w: -username is required", errUsage)
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	confirmation, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	if !bytes.Equal(password, confirmation) {
		return fmt.Errorf("%w: passwords do not match", errUsage)
	}

	u, err := a.api.Register(ctx, *username, *email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created user %q.\n", u.Username)
	return nil
}
