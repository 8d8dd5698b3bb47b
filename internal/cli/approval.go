package cli

import (
	"errors"
	"fmt"
	"strings"

	"timesheet_tui/internal/approval"
	"timesheet_tui/internal/constants"
	"timesheet_tui/internal/timesheet"
)

type ApprovalSubmitCmd struct {
	Project string `arg:"" help:"Project ID."`
	Week    string `help:"Any date in the week to submit (YYYY-MM-DD). Defaults to this week."`
}

func (c *ApprovalSubmitCmd) Run(ctx *Context) error {
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

	p, err := repo.GetProject(c.Project)
	if err != nil {
		return err
	}
	client, err := repo.GetClient(p.ClientID)
	if err != nil {
		return err
	}

	a, err := approval.NewService(repo).Submit(approval.SubmitRequest{
		UserID:           userID,
		ProjectID:        p.ID,
		ClientID:         p.ClientID,
		Day:              t.Format(constants.DateFormat),
		ApproverEmail:    p.ApproverFor(client),
		RequiresApproval: p.RequiresApproval,
	})
	if err != nil {
		return err
	}
	ctx.printf("Week %s to %s on %s is %s (%s hours)\n", a.Period.StartDate, a.Period.EndDate, p.Name, a.Status, timesheet.FormatHours(a.TotalHours))
	ctx.printf("  key: %s\n", a.Key)
	return nil
}

type ApprovalApproveCmd struct {
	Key string `arg:"" help:"Approval key (project_start_end_user)."`
}

func (c *ApprovalApproveCmd) Run(ctx *Context) error {
	return decide(ctx, c.Key, func(s *approval.Service, k approval.Key) (approval.Approval, error) {
		return s.Approve(k)
	})
}

type ApprovalRejectCmd struct {
	Key    string `arg:"" help:"Approval key (project_start_end_user)."`
	Reason string `help:"Reason for the rejection. Prompted for when omitted."`
}

func (c *ApprovalRejectCmd) Run(ctx *Context) error {
	reason := strings.TrimSpace(c.Reason)
	if reason == "" && ctx.Prompt != nil {
		var err error
		if reason, err = ctx.Prompt("Reason for rejection"); err != nil {
			return err
		}
	}
	return decide(ctx, c.Key, func(s *approval.Service, k approval.Key) (approval.Approval, error) {
		return s.Reject(k, reason)
	})
}

type ApprovalWithdrawCmd struct {
	Key string `arg:"" help:"Approval key (project_start_end_user)."`
}

func (c *ApprovalWithdrawCmd) Run(ctx *Context) error {
	return decide(ctx, c.Key, func(s *approval.Service, k approval.Key) (approval.Approval, error) {
		return s.Withdraw(k)
	})
}

func decide(ctx *Context, rawKey string, fn func(*approval.Service, approval.Key) (approval.Approval, error)) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	k, err := approval.ParseKey(rawKey)
	if err != nil {
		return err
	}
	a, err := fn(approval.NewService(repo), k)
	if err != nil {
		if errors.Is(err, approval.ErrNotFound) {
			return fmt.Errorf("no approval with key %s", rawKey)
		}
		return err
	}
	ctx.printf("Week %s to %s is now %s\n", a.Period.StartDate, a.Period.EndDate, a.Status)
	return nil
}

type ApprovalListCmd struct {
	From string `help:"First day (YYYY-MM-DD)." default:"0001-01-01"`
	To   string `help:"Last day (YYYY-MM-DD)." default:"9999-12-31"`
}

func (c *ApprovalListCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	userID, err := ctx.User()
	if err != nil {
		return err
	}
	approvals, err := repo.GetApprovals(userID, c.From, c.To)
	if err != nil {
		return err
	}
	if len(approvals) == 0 {
		ctx.printf("No approvals found\n")
		return nil
	}
	for _, a := range approvals {
		ctx.printf("  [%s] %s  %s hours", a.Status, a.Key, timesheet.FormatHours(a.TotalHours))
		if a.RejectionReason != "" {
			ctx.printf("  reason: %s", a.RejectionReason)
		}
		ctx.printf("\n")
	}
	return nil
}
