package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/tutoring_scheduler/internal/app"
	"github.com/Freeeeeet/tutoring_scheduler/internal/controller/common"
)

type MigrateCmd struct {
	Down bool `help:"Roll back the latest migration instead of applying pending ones."`
}

func (c *MigrateCmd) Run(ctx *Context) error {
	pool, err := ctx.Pool()
	if err != nil {
		return err
	}

	migrator, err := app.NewMigrator(pool, ctx.Logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if c.Down {
		if err := migrator.Down(ctx.Ctx); err != nil {
			return err
		}
	} else if err := migrator.Run(ctx.Ctx); err != nil {
		return err
	}

	version, err := migrator.Version(ctx.Ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Schema version: %d\n", version)
	return nil
}

type SeedCmd struct{}

func (c *SeedCmd) Run(ctx *Context) error {
	services, err := ctx.Services()
	if err != nil {
		return err
	}

	created, err := services.Schedule.SeedDefaultGrid(ctx.Ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "Created %d slots\n", created)
	return nil
}

type AdminCreateCmd struct {
	Username string `help:"Admin login." required:""`
	Password string `help:"Admin password. Falls back to ADMIN_PASSWORD." env:"ADMIN_PASSWORD"`
}

func (c *AdminCreateCmd) Run(ctx *Context) error {
	if c.Password == "" {
		return fmt.Errorf("password is required")
	}

	services, err := ctx.Services()
	if err != nil {
		return err
	}

	if err := services.Auth.SetPassword(ctx.Ctx, c.Username, c.Password); err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "Admin %q saved\n", c.Username)
	return nil
}

type ResetCmd struct {
	Yes bool `help:"Confirm closing every slot." short:"y"`
}

func (c *ResetCmd) Run(ctx *Context) error {
	if !c.Yes {
		return fmt.Errorf("refusing to close all slots without --yes")
	}

	services, err := ctx.Services()
	if err != nil {
		return err
	}

	changed, err := services.Schedule.CloseAll(ctx.Ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "Closed %d slots\n", changed)
	return nil
}

type GridCmd struct{}

func (c *GridCmd) Run(ctx *Context) error {
	services, err := ctx.Services()
	if err != nil {
		return err
	}

	grid, err := services.Schedule.Grid(ctx.Ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.Out, RenderGrid(grid))
	fmt.Fprintln(ctx.Out, common.FormatStats(grid.Stats()))
	if len(grid.Orphaned) > 0 {
		fmt.Fprintln(ctx.Out, RenderOrphaned(grid.Orphaned))
	}
	return nil
}

type WeekImageCmd struct {
	Output string `help:"PNG file to write." short:"o" type:"path" default:"semana.png"`
}

func (c *WeekImageCmd) Run(ctx *Context) error {
	services, err := ctx.Services()
	if err != nil {
		return err
	}

	grid, err := services.Schedule.Grid(ctx.Ctx)
	if err != nil {
		return err
	}

	image, err := common.GenerateWeekImage(grid, time.Now())
	if err != nil {
		return fmt.Errorf("render week image: %w", err)
	}

	if err := os.WriteFile(c.Output, image, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.Output, err)
	}

	fmt.Fprintf(ctx.Out, "Saved %s (%d bytes)\n", c.Output, len(image))
	return nil
}
