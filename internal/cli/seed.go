package cli

import (
	"timesheet_tui/internal/seed"
)

type SeedCmd struct {
	Weeks int `help:"Weeks of entries to generate, ending this week." default:"12"`
}

func (c *SeedCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	userID := ctx.UserID
	if userID == "" {
		userID = "user_1"
	}
	res, err := seed.Run(repo, seed.Options{UserID: userID, Weeks: c.Weeks})
	if err != nil {
		return err
	}
	ctx.printf("Seeded %d clients, %d roles, %d projects, %d assignments and %d entries for %s\n",
		res.Clients, res.Roles, res.Projects, res.Assignments, res.Entries, res.UserID)
	return nil
}
