package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"timesheet_tui/internal"
	"timesheet_tui/internal/logger"
	"timesheet_tui/internal/poller"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	userID, err := ctx.User()
	if err != nil {
		return err
	}

	m, err := internal.NewModel(repo, internal.Options{UserID: userID, Weekend: ctx.Weekend})
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Approvals decided elsewhere show up on the next tick.
	poll := poller.New(ctx.Refresh)
	poll.Start(func() { p.Send(internal.MsgTick{}) })
	defer poll.Stop()

	logger.Info("starting tui", "user", userID, "refresh", ctx.Refresh)
	_, err = p.Run()
	logger.Debug("tui stopped", "reloads", poll.Ticks())
	return err
}
