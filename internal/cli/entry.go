package cli

import (
	"fmt"
	"strings"

	"timesheet_tui/internal/project"
	"timesheet_tui/internal/timeentry"
	"timesheet_tui/internal/timesheet"
)

// cellWriter applies cell changes from a row controller to the repository
// synchronously. Editing and row events have no meaning outside the grid.
type cellWriter struct {
	repo        *project.Repository
	userID      string
	description string
	written     *timeentry.Entry
	err         error
}

func (w *cellWriter) UpdateRow(int, timesheet.RowUpdate) {}
func (w *cellWriter) RemoveRow(int)                      {}
func (w *cellWriter) StartEdit(timesheet.CellKey)        {}
func (w *cellWriter) EndEdit()                           {}

func (w *cellWriter) CellChange(date string, row timesheet.Row, hours *float64) {
	if hours == nil {
		w.err = w.repo.DeleteEntry(w.userID, row.Tuple(), date)
		return
	}
	e := &timeentry.Entry{
		UserID:      w.userID,
		ClientID:    row.ClientID,
		ProjectID:   row.ProjectID,
		RoleID:      row.RoleID,
		Date:        date,
		Hours:       *hours,
		Description: w.description,
	}
	w.err = w.repo.UpsertEntry(e)
	w.written = e
}

type snapshotHolder struct{ snap *timesheet.Snapshot }

func (h snapshotHolder) Snapshot() *timesheet.Snapshot { return h.snap }

// CellFlags selects the row an entry command writes to.
type CellFlags struct {
	Client  string `help:"Client ID." required:""`
	Project string `help:"Project ID." required:""`
	Role    string `help:"Role ID." required:""`
}

func (f CellFlags) row() timesheet.Row {
	return timesheet.Row{ClientID: f.Client, ProjectID: f.Project, RoleID: f.Role}
}

// commitCell runs input through the same row controller the grid uses, so
// lock and hours validation match the TUI.
func commitCell(ctx *Context, row timesheet.Row, date, input, description string) (*cellWriter, error) {
	repo, err := ctx.Repo()
	if err != nil {
		return nil, err
	}
	userID, err := ctx.User()
	if err != nil {
		return nil, err
	}
	t, err := day(date)
	if err != nil {
		return nil, err
	}

	snap, err := timesheet.LoadSnapshot(repo, userID, timesheet.WeekDays(t, true))
	if err != nil {
		return nil, err
	}
	if !timesheet.IsAssigned(snap.Assignments, row) {
		return nil, timesheet.ErrNotAssigned
	}

	w := &cellWriter{repo: repo, userID: userID, description: description}
	c := timesheet.NewController(0, row, snapshotHolder{snap}, w)
	if err := c.Commit(date, input); err != nil {
		return nil, err
	}
	return w, w.err
}

type EntrySetCmd struct {
	Date        string `arg:"" help:"Date (YYYY-MM-DD)."`
	Hours       string `arg:"" help:"Hours, 0 to 24."`
	Description string `short:"m" help:"Description."`
	CellFlags   `embed:""`
}

func (c *EntrySetCmd) Run(ctx *Context) error {
	w, err := commitCell(ctx, c.row(), c.Date, c.Hours, c.Description)
	if err != nil {
		return err
	}
	ctx.printf("Logged %s hours on %s (%s)\n", timesheet.FormatHours(w.written.Hours), c.Date, w.written.ID)
	return nil
}

type EntryClearCmd struct {
	Date      string `arg:"" help:"Date (YYYY-MM-DD)."`
	CellFlags `embed:""`
}

func (c *EntryClearCmd) Run(ctx *Context) error {
	if _, err := commitCell(ctx, c.row(), c.Date, "", ""); err != nil {
		return err
	}
	ctx.printf("Cleared %s\n", c.Date)
	return nil
}

type EntryListCmd struct {
	Week string `help:"Any date in the week (YYYY-MM-DD). Defaults to this week."`
}

func (c *EntryListCmd) Run(ctx *Context) error {
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
	snap, err := timesheet.LoadSnapshot(repo, userID, timesheet.WeekDays(t, ctx.Weekend))
	if err != nil {
		return err
	}

	rows := snap.Rows()
	if len(rows) == 0 {
		ctx.printf("No entries for the week of %s\n", snap.Days[0])
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-40s", "Client / Project / Role")
	for _, d := range snap.Days {
		fmt.Fprintf(&sb, " %10s", d)
	}
	fmt.Fprintf(&sb, " %8s\n", "Total")

	var grand int64
	for i, row := range rows {
		ctrl := timesheet.NewController(i, row, snapshotHolder{snap}, nil)
		label := fmt.Sprintf("%s / %s / %s", snap.ClientName(row.ClientID), snap.ProjectName(row.ProjectID), snap.RoleName(row.RoleID))
		if ctrl.Locked() {
			label = "* " + label
		}
		fmt.Fprintf(&sb, "%-40s", truncate(label, 40))
		for _, cell := range ctrl.Cells(nil) {
			fmt.Fprintf(&sb, " %10s", cell.Text)
		}
		grand += ctrl.Total()
		fmt.Fprintf(&sb, " %8s\n", ctrl.TotalText())
	}
	fmt.Fprintf(&sb, "%-40s %*s\n", "Total", 11*len(snap.Days)+8, timesheet.FormatCents(grand))
	ctx.printf("%s", sb.String())
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
