package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/Freeeeeet/tutoring_scheduler/internal/app"
	"github.com/Freeeeeet/tutoring_scheduler/internal/cli"
	"github.com/Freeeeeet/tutoring_scheduler/internal/config"
)

var CLI struct {
	Migrate cli.MigrateCmd `cmd:"" help:"Apply database migrations."`
	Seed    cli.SeedCmd    `cmd:"" help:"Create the default weekly grid (lunes-sábado, 07:00-20:00)."`
	Admin   struct {
		Create cli.AdminCreateCmd `cmd:"" help:"Create an admin or change its password."`
	} `cmd:"" help:"Manage admin accounts."`
	Reset     cli.ResetCmd     `cmd:"" help:"Close every slot for a new week."`
	Grid      cli.GridCmd      `cmd:"" help:"Print the current grid."`
	WeekImage cli.WeekImageCmd `cmd:"" help:"Render the current grid to a PNG file."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("schedctl"),
		kong.Description("Operator tool for the tutoring scheduler"),
		kong.UsageOnError(),
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogFile)
	defer logger.Sync()

	appCtx := &cli.Context{
		Ctx:    context.Background(),
		Config: cfg,
		Logger: logger,
		Out:    os.Stdout,
	}
	defer appCtx.Close()

	if err := kctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		appCtx.Close()
		os.Exit(1)
	}
}
