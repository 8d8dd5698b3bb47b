package cli

import (
	"fmt"

	"timesheet_tui/internal/leave"
)

type LeaveRequestCmd struct {
	Type  string  `arg:"" help:"Leave type (annual|sick|personal|unpaid)." enum:"annual,sick,personal,unpaid"`
	Start string  `arg:"" help:"First day (YYYY-MM-DD)."`
	End   string  `help:"Last day (YYYY-MM-DD). Defaults to the first day."`
	Hours float64 `help:"Hours of leave." default:"8"`
	Note  string  `short:"m" help:"Note for the approver."`
}

func (c *LeaveRequestCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	userID, err := ctx.User()
	if err != nil {
		return err
	}
	typ, err := leave.ParseType(c.Type)
	if err != nil {
		return err
	}
	end := c.End
	if end == "" {
		end = c.Start
	}
	req := &leave.Request{UserID: userID, Type: typ, StartDate: c.Start, EndDate: end, Hours: c.Hours, Note: c.Note}
	if err := repo.CreateLeave(req); err != nil {
		return fmt.Errorf("failed to request leave: %w", err)
	}
	ctx.printf("Requested %s leave %s to %s (%s)\n", req.Type, req.StartDate, req.EndDate, req.ID)
	return nil
}

type LeaveListCmd struct {
	All bool `help:"List requests of every user."`
}

func (c *LeaveListCmd) Run(ctx *Context) error {
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
	reqs, err := repo.GetLeave(userID)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		ctx.printf("No leave requests found\n")
		return nil
	}
	for _, r := range reqs {
		ctx.printf("  [%s] %s  %s %s to %s  %.2fh", r.Status, r.ID, r.Type, r.StartDate, r.EndDate, r.Hours)
		if r.Note != "" {
			ctx.printf("  %q", r.Note)
		}
		ctx.printf("\n")
	}
	return nil
}

type LeaveApproveCmd struct {
	ID string `arg:"" help:"Leave request ID."`
}

func (c *LeaveApproveCmd) Run(ctx *Context) error {
	return decideLeave(ctx, c.ID, true)
}

type LeaveRejectCmd struct {
	ID string `arg:"" help:"Leave request ID."`
}

func (c *LeaveRejectCmd) Run(ctx *Context) error {
	return decideLeave(ctx, c.ID, false)
}

func decideLeave(ctx *Context, id string, approve bool) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	req, err := repo.GetLeaveRequest(id)
	if err != nil {
		return err
	}
	if err := req.Decide(approve); err != nil {
		return err
	}
	if err := repo.UpdateLeaveStatus(req.ID, req.Status); err != nil {
		return err
	}
	ctx.printf("Leave request %s %s\n", req.ID, req.Status)
	return nil
}

type LeaveDeleteCmd struct {
	ID string `arg:"" help:"Leave request ID."`
}

func (c *LeaveDeleteCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	if err := repo.DeleteLeave(c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted leave request %s\n", c.ID)
	return nil
}
