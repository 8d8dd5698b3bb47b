package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"timesheet_tui/internal/approval"
	"timesheet_tui/internal/project"
	"timesheet_tui/internal/seed"
	"timesheet_tui/internal/timesheet"
)

var monday = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func newTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	ctx := NewContext(filepath.Join(t.TempDir(), "cli.db"), "user_1")
	out := &bytes.Buffer{}
	ctx.Out = out
	ctx.Prompt = func(string) (string, error) { return "", errors.New("no prompt in tests") }
	t.Cleanup(func() { ctx.Close() })

	repo, err := ctx.Repo()
	if err != nil {
		t.Fatalf("Repo: %v", err)
	}
	if _, err := seed.Run(repo, seed.Options{Weeks: 1, Now: monday}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return ctx, out
}

func proj1() CellFlags {
	return CellFlags{Client: "client_1", Project: "proj_1", Role: "role_1"}
}

func TestEntrySetAndClear(t *testing.T) {
	ctx, out := newTestContext(t)

	set := &EntrySetCmd{Date: "2024-03-06", Hours: "7.25", Description: "design review", CellFlags: proj1()}
	if err := set.Run(ctx); err != nil {
		t.Fatalf("entry set: %v", err)
	}
	if !strings.Contains(out.String(), "Logged 7.25 hours on 2024-03-06") {
		t.Errorf("output = %q", out.String())
	}

	repo, _ := ctx.Repo()
	entries, err := repo.GetEntries("user_1", "2024-03-06", "2024-03-06")
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, e := range entries {
		if e.ProjectID == "proj_1" {
			found = e.Hours == 7.25 && e.Description == "design review"
		}
	}
	if !found {
		t.Fatalf("entry not written: %+v", entries)
	}

	clear := &EntryClearCmd{Date: "2024-03-06", CellFlags: proj1()}
	if err := clear.Run(ctx); err != nil {
		t.Fatalf("entry clear: %v", err)
	}
	entries, _ = repo.GetEntries("user_1", "2024-03-06", "2024-03-06")
	for _, e := range entries {
		if e.ProjectID == "proj_1" {
			t.Errorf("entry still present after clear: %+v", e)
		}
	}
}

func TestEntrySetRejects(t *testing.T) {
	ctx, _ := newTestContext(t)

	tests := []struct {
		name string
		cmd  *EntrySetCmd
		want error
	}{
		{"invalid hours", &EntrySetCmd{Date: "2024-03-06", Hours: "25", CellFlags: proj1()}, timesheet.ErrInvalidHours},
		{"not assigned", &EntrySetCmd{Date: "2024-03-06", Hours: "1", CellFlags: CellFlags{Client: "client_1", Project: "proj_1", Role: "role_2"}}, timesheet.ErrNotAssigned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestApprovalLifecycle(t *testing.T) {
	ctx, out := newTestContext(t)

	submit := &ApprovalSubmitCmd{Project: "proj_1", Week: "2024-03-04"}
	if err := submit.Run(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}
	key, _ := approval.KeyFor("proj_1", "2024-03-04", "user_1")
	if !strings.Contains(out.String(), "is pending") || !strings.Contains(out.String(), key.String()) {
		t.Errorf("submit output = %q", out.String())
	}

	// The week is locked now.
	set := &EntrySetCmd{Date: "2024-03-05", Hours: "1", CellFlags: proj1()}
	if err := set.Run(ctx); !errors.Is(err, timesheet.ErrCellLocked) {
		t.Errorf("entry on a pending week: error = %v, want ErrCellLocked", err)
	}

	// Rejecting needs a reason; the prompt fails in tests.
	if err := (&ApprovalRejectCmd{Key: key.String()}).Run(ctx); err == nil {
		t.Error("reject without a reason should fail")
	}
	if err := (&ApprovalRejectCmd{Key: key.String(), Reason: "missing hours"}).Run(ctx); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := set.Run(ctx); err != nil {
		t.Errorf("rejected week should be editable: %v", err)
	}

	if err := submit.Run(ctx); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if err := (&ApprovalApproveCmd{Key: key.String()}).Run(ctx); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := (&ApprovalWithdrawCmd{Key: key.String()}).Run(ctx); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	out.Reset()
	if err := (&ApprovalListCmd{From: "2024-03-01", To: "2024-03-31"}).Run(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "[withdrawn] "+key.String()) {
		t.Errorf("list output = %q", out.String())
	}

	if err := (&ApprovalApproveCmd{Key: "proj_9_2024-03-04_2024-03-10_user_1"}).Run(ctx); err == nil {
		t.Error("approving an unknown key should fail")
	}
}

func TestEntryList(t *testing.T) {
	ctx, out := newTestContext(t)

	if err := (&EntryListCmd{Week: "2024-03-06"}).Run(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Acme Corporation / Website Redesign", "32.00", "62.00"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestLeaveCommands(t *testing.T) {
	ctx, out := newTestContext(t)

	if err := (&LeaveRequestCmd{Type: "annual", Start: "2024-04-01", End: "2024-04-02", Hours: 16}).Run(ctx); err != nil {
		t.Fatalf("request: %v", err)
	}
	repo, _ := ctx.Repo()
	reqs, err := repo.GetLeave("user_1")
	if err != nil || len(reqs) != 1 {
		t.Fatalf("GetLeave = %v, %v", reqs, err)
	}
	id := reqs[0].ID

	if err := (&LeaveApproveCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := (&LeaveRejectCmd{ID: id}).Run(ctx); err == nil {
		t.Error("rejecting an approved request should fail")
	}

	out.Reset()
	if err := (&LeaveListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "[approved] "+id) {
		t.Errorf("list output = %q", out.String())
	}

	if err := (&LeaveDeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestParseProjectRole(t *testing.T) {
	tests := []struct {
		spec    string
		cost    float64
		sell    float64
		wantErr bool
	}{
		{"role_1", 0, 0, false},
		{"role_1:75:150", 75, 150, false},
		{"role_1:75", 0, 0, true},
		{":1:2", 0, 0, true},
		{"role_1:x:150", 0, 0, true},
	}
	for _, tt := range tests {
		pr, err := parseProjectRole(tt.spec)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseProjectRole(%q) error = %v", tt.spec, err)
			continue
		}
		if !tt.wantErr && (pr.CostRate != tt.cost || pr.SellRate != tt.sell) {
			t.Errorf("parseProjectRole(%q) = %+v", tt.spec, pr)
		}
	}
}

func TestUserRequired(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.UserID = ""
	if err := (&EntryListCmd{}).Run(ctx); !errors.Is(err, ErrNoUser) {
		t.Errorf("error = %v, want ErrNoUser", err)
	}
}

func TestCatalogUpdate(t *testing.T) {
	ctx, _ := newTestContext(t)
	repo, _ := ctx.Repo()

	if err := (&ClientUpdateCmd{ID: "client_1", Name: "Acme Ltd"}).Run(ctx); err != nil {
		t.Fatalf("client update: %v", err)
	}
	c, err := repo.GetClient("client_1")
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Acme Ltd" || c.Email != "contact@acme.com" {
		t.Errorf("client = %+v, want new name and unchanged email", c)
	}

	if err := (&RoleUpdateCmd{ID: "role_5", Activate: true}).Run(ctx); err != nil {
		t.Fatalf("role update: %v", err)
	}
	if r, err := repo.GetRole("role_5"); err != nil || !r.IsActive || r.Name != "QA Engineer" {
		t.Errorf("role = %+v, %v", r, err)
	}

	up := &ProjectUpdateCmd{ID: "proj_2", Budget: "80000", RequireApproval: true, Role: []string{"role_1:80:160"}}
	if err := up.Run(ctx); err != nil {
		t.Fatalf("project update: %v", err)
	}
	p, err := repo.GetProject("proj_2")
	if err != nil {
		t.Fatal(err)
	}
	if p.Budget != 80000 || !p.RequiresApproval || len(p.Roles) != 1 || p.Roles[0].SellRate != 160 {
		t.Errorf("project = %+v", p)
	}
	if p.Name != "Mobile App Development" {
		t.Errorf("name changed to %q", p.Name)
	}

	if err := (&UserUpdateCmd{ID: "user_1", Name: "Jane Doe", Admin: true}).Run(ctx); err != nil {
		t.Fatalf("user update: %v", err)
	}
	u, err := repo.GetUser("user_1")
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "Jane Doe" || u.Role != project.UserRoleAdmin || u.Email != "user_1@example.com" {
		t.Errorf("user = %+v", u)
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"client without flags", (&ClientUpdateCmd{ID: "client_1"}).Run(ctx), errNothingToUpdate},
		{"role without flags", (&RoleUpdateCmd{ID: "role_1"}).Run(ctx), errNothingToUpdate},
		{"project without flags", (&ProjectUpdateCmd{ID: "proj_1"}).Run(ctx), errNothingToUpdate},
		{"user without flags", (&UserUpdateCmd{ID: "user_1"}).Run(ctx), errNothingToUpdate},
		{"unknown client", (&ClientUpdateCmd{ID: "client_9", Name: "x"}).Run(ctx), project.ErrNotFound},
		{"unknown role", (&RoleUpdateCmd{ID: "role_9", Name: "x"}).Run(ctx), project.ErrNotFound},
		{"move to unknown client", (&ProjectUpdateCmd{ID: "proj_1", Client: "client_9"}).Run(ctx), project.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("error = %v, want %v", tt.err, tt.want)
			}
		})
	}

	if err := (&ProjectUpdateCmd{ID: "proj_1", Budget: "lots"}).Run(ctx); err == nil {
		t.Error("invalid budget accepted")
	}
}

func TestCatalogDelete(t *testing.T) {
	ctx, out := newTestContext(t)
	repo, _ := ctx.Repo()

	if err := (&RoleDeleteCmd{ID: "role_3"}).Run(ctx); err != nil {
		t.Fatalf("role delete: %v", err)
	}
	if _, err := repo.GetRole("role_3"); !errors.Is(err, project.ErrNotFound) {
		t.Errorf("GetRole after delete = %v, want ErrNotFound", err)
	}

	if err := (&ProjectDeleteCmd{ID: "proj_3"}).Run(ctx); err != nil {
		t.Fatalf("project delete: %v", err)
	}
	if _, err := repo.GetProject("proj_3"); !errors.Is(err, project.ErrNotFound) {
		t.Errorf("GetProject after delete = %v, want ErrNotFound", err)
	}

	// Entries of a deleted client still list, under a placeholder name.
	if err := (&ClientDeleteCmd{ID: "client_1"}).Run(ctx); err != nil {
		t.Fatalf("client delete: %v", err)
	}
	out.Reset()
	if err := (&EntryListCmd{Week: "2024-03-06"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "(missing client_1) / Website Redesign") {
		t.Errorf("entry list = %q", out.String())
	}

	if err := (&UserDeleteCmd{ID: "user_1"}).Run(ctx); err != nil {
		t.Fatalf("user delete: %v", err)
	}
	if _, err := repo.GetUser("user_1"); !errors.Is(err, project.ErrNotFound) {
		t.Errorf("GetUser after delete = %v, want ErrNotFound", err)
	}
	assignments, err := repo.GetAssignments("user_1")
	if err != nil {
		t.Fatal(err)
	}
	if len(assignments) != 0 {
		t.Errorf("assignments after user delete = %+v", assignments)
	}
	if err := (&UserDeleteCmd{ID: "user_1"}).Run(ctx); !errors.Is(err, project.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}
