package cli

import (
	"fmt"

	"timesheet_tui/internal/project"
)

type AssignAddCmd struct {
	Client  string `help:"Client ID." required:""`
	Project string `help:"Project ID." required:""`
	Role    string `help:"Role ID." required:""`
}

func (c *AssignAddCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	userID, err := ctx.User()
	if err != nil {
		return err
	}
	a := &project.Assignment{UserID: userID, ClientID: c.Client, ProjectID: c.Project, RoleID: c.Role}
	if err := repo.CreateAssignment(a); err != nil {
		return fmt.Errorf("failed to assign: %w", err)
	}
	ctx.printf("Assigned %s to %s / %s as %s (%s)\n", userID, c.Client, c.Project, c.Role, a.ID)
	return nil
}

type AssignListCmd struct {
	All bool `help:"List assignments of every user."`
}

func (c *AssignListCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	userID := ""
	if !c.All {
		if userID, err = ctx.User(); err != nil {
			return err
		}
	}
	assignments, err := repo.GetAssignments(userID)
	if err != nil {
		return err
	}
	if len(assignments) == 0 {
		ctx.printf("No assignments found\n")
		return nil
	}
	for _, a := range assignments {
		ctx.printf("  %s  user %s  %s / %s / %s\n", a.ID, a.UserID, a.ClientID, a.ProjectID, a.RoleID)
	}
	return nil
}

type AssignDeleteCmd struct {
	ID string `arg:"" help:"Assignment ID."`
}

func (c *AssignDeleteCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	if err := repo.DeleteAssignment(c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted assignment %s\n", c.ID)
	return nil
}
