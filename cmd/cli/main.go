package main

import (
	"context"
	"os"

	"github.com/ttakano/climblog/internal/client/cli"
	"github.com/ttakano/climblog/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig(os.Args[1:])

	app := cli.NewApp(cfg)
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
