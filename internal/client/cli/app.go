// Package cli implements the climblog command-line client. Commands are
// stateless: reads go out anonymously and every mutating command prompts
// for credentials, which are sent as HTTP Basic auth on that one request.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/ttakano/climblog/internal/client/api"
	"github.com/ttakano/climblog/internal/client/config"
)

type App struct {
	config *config.Config
	api    *api.Client
	reader *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func NewApp(cfg *config.Config) *App {
	return &App{
		config: cfg,
		api:    api.New(cfg.ServerBaseURL, cfg.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// Run dispatches one command and reports whether it succeeded, so main
// can set the exit code.
func (a *App) Run(ctx context.Context, args []string) error {
	return a.Root(ctx, args)
}

func (a *App) promptCredentials() (*api.Credentials, error) {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return nil, err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return nil, err
	}
	return &api.Credentials{Username: username, Password: string(password)}, nil
}
