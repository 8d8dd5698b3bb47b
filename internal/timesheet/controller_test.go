package timesheet

import (
	"errors"
	"testing"

	"timesheet_tui/internal/approval"
	"timesheet_tui/internal/project"
	"timesheet_tui/internal/timeentry"
)

type recorder struct {
	updates []RowUpdate
	removed []int
	changes []change
	started []CellKey
	ended   int
}

type change struct {
	date  string
	row   Row
	hours *float64
}

func (r *recorder) UpdateRow(_ int, u RowUpdate) { r.updates = append(r.updates, u) }
func (r *recorder) RemoveRow(i int)              { r.removed = append(r.removed, i) }
func (r *recorder) CellChange(date string, row Row, hours *float64) {
	r.changes = append(r.changes, change{date: date, row: row, hours: hours})
}
func (r *recorder) StartEdit(k CellKey) { r.started = append(r.started, k) }
func (r *recorder) EndEdit()            { r.ended++ }

func (r *recorder) silent() bool {
	return len(r.updates) == 0 && len(r.removed) == 0 && len(r.changes) == 0 && len(r.started) == 0 && r.ended == 0
}

type staticSource struct{ snap *Snapshot }

func (s *staticSource) Snapshot() *Snapshot { return s.snap }

func catalog() Data {
	return Data{
		UserID: testUser,
		Days:   week,
		Assignments: []project.Assignment{
			{UserID: testUser, ClientID: "c1", ProjectID: "p1", RoleID: "r1"},
			{UserID: testUser, ClientID: "c1", ProjectID: "p1", RoleID: "r2"},
			{UserID: testUser, ClientID: "c1", ProjectID: "p2", RoleID: "r1"},
			{UserID: testUser, ClientID: "c2", ProjectID: "p3", RoleID: "r1"},
		},
		Clients:  []project.Client{{ID: "c1", Name: "Acme"}, {ID: "c2", Name: "Globex"}},
		Projects: []project.Project{{ID: "p1", Name: "Portal", ClientID: "c1"}, {ID: "p2", Name: "API", ClientID: "c1"}},
		Roles:    []project.Role{{ID: "r1", Name: "Developer"}, {ID: "r2", Name: "Lead"}},
	}
}

func newController(d Data, row Row) (*Controller, *recorder, *staticSource) {
	rec := &recorder{}
	src := &staticSource{snap: NewSnapshot(d)}
	return NewController(0, row, src, rec), rec, src
}

func TestSelectCascade(t *testing.T) {
	row := Row{ClientID: "c1", ProjectID: "p1", RoleID: "r1"}
	c, rec, _ := newController(catalog(), row)

	if err := c.SelectClient("c2"); err != nil {
		t.Fatalf("SelectClient: %v", err)
	}
	got := rec.updates[0].Apply(row)
	if got != (Row{ClientID: "c2"}) {
		t.Errorf("selecting a client must clear project and role, got %+v", got)
	}
	if got.State() != RowClientSelected {
		t.Errorf("state = %s, want client-selected", got.State())
	}

	if err := c.SelectProject("p2"); err != nil {
		t.Fatalf("SelectProject: %v", err)
	}
	got = rec.updates[1].Apply(row)
	if got != (Row{ClientID: "c1", ProjectID: "p2"}) {
		t.Errorf("selecting a project must clear the role, got %+v", got)
	}

	if err := c.SelectRole("r2"); err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	if got := rec.updates[2].Apply(row); got != (Row{ClientID: "c1", ProjectID: "p1", RoleID: "r2"}) {
		t.Errorf("SelectRole update = %+v", got)
	}
}

func TestSelectRequiresAssignmentAndOrder(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		act  func(c *Controller) error
		want error
	}{
		{"unassigned client", Row{}, func(c *Controller) error { return c.SelectClient("c9") }, ErrNotAssigned},
		{"project before client", Row{}, func(c *Controller) error { return c.SelectProject("p1") }, ErrRowIncomplete},
		{"project of other client", Row{ClientID: "c2"}, func(c *Controller) error { return c.SelectProject("p1") }, ErrNotAssigned},
		{"role before project", Row{ClientID: "c1"}, func(c *Controller) error { return c.SelectRole("r1") }, ErrRowIncomplete},
		{"unassigned role", Row{ClientID: "c1", ProjectID: "p2"}, func(c *Controller) error { return c.SelectRole("r2") }, ErrNotAssigned},
		{"missing project record", Row{ClientID: "c2"}, func(c *Controller) error { return c.SelectProject("p3") }, ErrMissingReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec, _ := newController(catalog(), tt.row)
			if err := tt.act(c); !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if !rec.silent() {
				t.Errorf("rejected selection produced events: %+v", rec)
			}
		})
	}
}

func TestLockedRowRejectsMutations(t *testing.T) {
	row := Row{ClientID: "c1", ProjectID: "p1", RoleID: "r1"}
	d := catalog()
	d.Entries = []timeentry.Entry{entry("c1", "p1", "r1", "2024-01-02", 8)}
	d.Approvals = []approval.Approval{approvalFor(t, "p1", "2024-01-02", approval.StatusPending)}
	c, rec, _ := newController(d, row)

	if !c.Locked() || !c.ClientDisabled() || !c.ProjectDisabled() || !c.RoleDisabled() || !c.RemoveDisabled() {
		t.Fatal("locked row must disable selectors and removal")
	}
	for name, err := range map[string]error{
		"client":  c.SelectClient("c2"),
		"project": c.SelectProject("p2"),
		"role":    c.SelectRole("r2"),
		"remove":  c.Remove(),
	} {
		if !errors.Is(err, ErrRowLocked) {
			t.Errorf("%s: error = %v, want ErrRowLocked", name, err)
		}
	}
	if err := c.Commit("2024-01-03", "4"); !errors.Is(err, ErrCellLocked) {
		t.Errorf("Commit error = %v, want ErrCellLocked", err)
	}
	if err := c.StartEdit("2024-01-03"); !errors.Is(err, ErrCellLocked) {
		t.Errorf("StartEdit error = %v, want ErrCellLocked", err)
	}
	if !rec.silent() {
		t.Errorf("locked row produced events: %+v", rec)
	}
}

func TestLockIsRecheckedAtMutation(t *testing.T) {
	row := Row{ClientID: "c1", ProjectID: "p1", RoleID: "r1"}
	d := catalog()
	d.Entries = []timeentry.Entry{entry("c1", "p1", "r1", "2024-01-02", 8)}
	c, rec, src := newController(d, row)

	if c.Locked() {
		t.Fatal("row should start unlocked")
	}
	// An approval lands after the row was rendered.
	d.Approvals = []approval.Approval{approvalFor(t, "p1", "2024-01-02", approval.StatusApproved)}
	src.snap = NewSnapshot(d)

	if err := c.Remove(); !errors.Is(err, ErrRowLocked) {
		t.Errorf("Remove error = %v, want ErrRowLocked", err)
	}
	if err := c.Commit("2024-01-02", "1"); !errors.Is(err, ErrCellLocked) {
		t.Errorf("Commit error = %v, want ErrCellLocked", err)
	}
	if !rec.silent() {
		t.Errorf("stale render produced events: %+v", rec)
	}
}

func TestRejectedApprovalUnlocks(t *testing.T) {
	row := Row{ClientID: "c1", ProjectID: "p1", RoleID: "r1"}
	d := catalog()
	d.Entries = []timeentry.Entry{entry("c1", "p1", "r1", "2024-01-02", 8)}
	d.Approvals = []approval.Approval{approvalFor(t, "p1", "2024-01-02", approval.StatusRejected)}
	c, rec, _ := newController(d, row)

	if c.Locked() {
		t.Fatal("rejected approval must not lock")
	}
	if err := c.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(rec.removed) != 1 || rec.removed[0] != 0 {
		t.Errorf("removed = %v, want [0]", rec.removed)
	}
}

func TestCommit(t *testing.T) {
	row := Row{ClientID: "c1", ProjectID: "p1", RoleID: "r1"}

	t.Run("valid", func(t *testing.T) {
		c, rec, _ := newController(catalog(), row)
		if err := c.Commit("2024-01-03", "7.5"); err != nil {
			t.Fatalf("Commit: %v", err)
		}
		if len(rec.changes) != 1 {
			t.Fatalf("changes = %d, want 1", len(rec.changes))
		}
		ch := rec.changes[0]
		if ch.date != "2024-01-03" || ch.row != row || ch.hours == nil || *ch.hours != 7.5 {
			t.Errorf("change = %+v", ch)
		}
		if rec.ended != 1 {
			t.Errorf("EndEdit calls = %d, want 1", rec.ended)
		}
	})

	t.Run("clear", func(t *testing.T) {
		c, rec, _ := newController(catalog(), row)
		if err := c.Commit("2024-01-03", ""); err != nil {
			t.Fatalf("Commit: %v", err)
		}
		if len(rec.changes) != 1 || rec.changes[0].hours != nil {
			t.Errorf("blank commit must report nil hours, got %+v", rec.changes)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		c, rec, _ := newController(catalog(), row)
		if err := c.Commit("2024-01-03", "lots"); !errors.Is(err, ErrInvalidHours) {
			t.Fatalf("error = %v, want ErrInvalidHours", err)
		}
		if !rec.silent() {
			t.Errorf("invalid input produced events: %+v", rec)
		}
	})

	t.Run("incomplete row", func(t *testing.T) {
		c, rec, _ := newController(catalog(), Row{ClientID: "c1", ProjectID: "p1"})
		if err := c.Commit("2024-01-03", "1"); !errors.Is(err, ErrRowIncomplete) {
			t.Fatalf("error = %v, want ErrRowIncomplete", err)
		}
		if !rec.silent() {
			t.Errorf("incomplete row produced events: %+v", rec)
		}
	})
}

func TestStartEdit(t *testing.T) {
	row := Row{ClientID: "c1", ProjectID: "p1", RoleID: "r1"}
	c, rec, _ := newController(catalog(), row)

	if err := c.StartEdit("2024-01-04"); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	want := CellKey{Date: "2024-01-04", ProjectID: "p1", RoleID: "r1"}
	if len(rec.started) != 1 || rec.started[0] != want {
		t.Fatalf("started = %v, want %v", rec.started, want)
	}
	if want.String() != "2024-01-04-p1-r1" {
		t.Errorf("CellKey.String() = %q", want.String())
	}

	cells := c.Cells(&want)
	editing := 0
	for _, cell := range cells {
		if cell.Editing {
			editing++
			if cell.Key != want {
				t.Errorf("wrong cell editing: %v", cell.Key)
			}
		}
	}
	if editing != 1 {
		t.Errorf("editing cells = %d, want 1", editing)
	}

	c.CancelEdit()
	if rec.ended != 1 {
		t.Errorf("EndEdit calls = %d, want 1", rec.ended)
	}
}

func TestCellsAndTotal(t *testing.T) {
	row := Row{ClientID: "c1", ProjectID: "p1", RoleID: "r1"}
	d := catalog()
	d.Entries = []timeentry.Entry{
		entry("c1", "p1", "r1", "2024-01-01", 0.125),
		entry("c1", "p1", "r1", "2024-01-02", 0.125),
		entry("c1", "p1", "r2", "2024-01-02", 5), // other role
	}
	c, _, _ := newController(d, row)

	cells := c.Cells(nil)
	if len(cells) != len(week) {
		t.Fatalf("cells = %d, want %d", len(cells), len(week))
	}
	if cells[0].Text != "0.13" || cells[1].Text != "0.13" || cells[2].Text != "" {
		t.Errorf("cell texts = %q %q %q", cells[0].Text, cells[1].Text, cells[2].Text)
	}
	for _, cell := range cells {
		if !cell.Editable || cell.Locked || cell.Editing {
			t.Errorf("cell %s state = %+v", cell.Key, cell)
		}
	}
	// Displayed cells and the total round the same way.
	if c.Total() != 26 || c.TotalText() != "0.26" {
		t.Errorf("Total = %d (%s), want 26 (0.26)", c.Total(), c.TotalText())
	}

	empty, _, _ := newController(d, Row{ClientID: "c1"})
	if empty.Total() != 0 {
		t.Errorf("incomplete row total = %d, want 0", empty.Total())
	}
	for _, cell := range empty.Cells(nil) {
		if cell.Editable {
			t.Fatalf("incomplete row cell %s is editable", cell.Key)
		}
	}
}

func TestCellLockWithoutEntry(t *testing.T) {
	row := Row{ClientID: "c1", ProjectID: "p1", RoleID: "r2"}
	d := catalog()
	d.Approvals = []approval.Approval{approvalFor(t, "p1", "2024-01-01", approval.StatusApproved)}
	c, _, _ := newController(d, row)

	if c.Locked() {
		t.Error("row without entries must not be row-locked")
	}
	for _, cell := range c.Cells(nil) {
		if !cell.Locked || cell.Editable {
			t.Errorf("cell %s should be locked by the project approval", cell.Key)
		}
	}
}

func TestOptions(t *testing.T) {
	c, _, _ := newController(catalog(), Row{ClientID: "c2", ProjectID: "p3", RoleID: "r9"})

	clients := c.ClientOptions()
	if len(clients) != 2 || clients[0].Label != "Acme" || clients[1].Label != "Globex" {
		t.Errorf("client options = %+v", clients)
	}

	projects := c.ProjectOptions()
	if len(projects) != 1 || projects[0].Selectable || projects[0].Label != "(missing p3)" {
		t.Errorf("missing project must render a placeholder, got %+v", projects)
	}

	roles := c.RoleOptions()
	if len(roles) != 2 {
		t.Fatalf("role options = %+v", roles)
	}
	last := roles[len(roles)-1]
	if last.ID != "r9" || last.Selectable {
		t.Errorf("selected but unassigned role must render and be unselectable, got %+v", last)
	}
}

// gridRecorder also answers duplicate-row checks, like the grid does.
type gridRecorder struct {
	recorder
	rows []Row
}

func (g *gridRecorder) HasRow(row Row, except int) bool {
	for i, r := range g.rows {
		if i != except && r == row {
			return true
		}
	}
	return false
}

func TestSelectRoleRefusesDuplicateRow(t *testing.T) {
	rec := &gridRecorder{rows: []Row{
		{ClientID: "c1", ProjectID: "p1", RoleID: "r1"},
		{ClientID: "c1", ProjectID: "p1"},
	}}
	c := NewController(1, rec.rows[1], &staticSource{snap: NewSnapshot(catalog())}, rec)

	if err := c.SelectRole("r1"); !errors.Is(err, ErrDuplicateRow) {
		t.Errorf("SelectRole(r1) = %v, want ErrDuplicateRow", err)
	}
	if !rec.silent() {
		t.Error("a refused role must not produce events")
	}
	if err := c.SelectRole("r2"); err != nil {
		t.Fatalf("SelectRole(r2): %v", err)
	}
	if len(rec.updates) != 1 {
		t.Errorf("updates = %d, want 1", len(rec.updates))
	}

	// The row itself does not count as a duplicate.
	self := NewController(0, rec.rows[0], &staticSource{snap: NewSnapshot(catalog())}, rec)
	if err := self.SelectRole("r1"); err != nil {
		t.Errorf("reselecting the row's own role: %v", err)
	}
}

func TestSnapshotNames(t *testing.T) {
	snap := NewSnapshot(catalog())

	tests := []struct {
		got, want string
	}{
		{snap.ClientName("c1"), "Acme"},
		{snap.ClientName("c9"), "(missing c9)"},
		{snap.ProjectName("p2"), "API"},
		{snap.ProjectName("p3"), "(missing p3)"},
		{snap.RoleName("r2"), "Lead"},
		{snap.RoleName("r9"), "(missing r9)"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
