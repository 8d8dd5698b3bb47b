package cli

import (
	"fmt"

	"timesheet_tui/internal/export"
	"timesheet_tui/internal/timesheet"
)

type ExportCmd struct {
	Week   string `help:"Any date in the week to export (YYYY-MM-DD). Defaults to this week."`
	Output string `short:"o" help:"Output file. Defaults to timesheet-<monday>.xlsx."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	userID, err := ctx.User()
	if err != nil {
		return err
	}
	t, err := day(c.Week)
	if err != nil {
		return err
	}

	days := timesheet.WeekDays(t, ctx.Weekend)
	snap, err := timesheet.LoadSnapshot(repo, userID, days)
	if err != nil {
		return err
	}

	out := c.Output
	if out == "" {
		out = fmt.Sprintf("timesheet-%s.xlsx", days[0])
	}
	if err := export.SaveWeek(out, snap, snap.Rows()); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	ctx.printf("Exported week of %s to %s\n", days[0], out)
	return nil
}
