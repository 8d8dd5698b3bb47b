package timesheet

import (
	"reflect"
	"testing"
	"time"

	"timesheet_tui/internal/approval"
	"timesheet_tui/internal/project"
	"timesheet_tui/internal/timeentry"
)

const testUser = "user_1"

var week = []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06", "2024-01-07"}

func entry(client, proj, role, date string, hours float64) timeentry.Entry {
	return timeentry.Entry{
		ID:        client + proj + role + date,
		UserID:    testUser,
		ClientID:  client,
		ProjectID: proj,
		RoleID:    role,
		Date:      date,
		Hours:     hours,
	}
}

func approvalFor(t *testing.T, proj, date string, status approval.Status) approval.Approval {
	t.Helper()
	key, err := approval.KeyFor(proj, date, testUser)
	if err != nil {
		t.Fatalf("KeyFor: %v", err)
	}
	return approval.Approval{ID: "a_" + proj, Key: key, Status: status, ProjectID: proj, UserID: testUser, Period: key.Period()}
}

func TestAvailableSelections(t *testing.T) {
	assignments := []project.Assignment{
		{ClientID: "c1", ProjectID: "p1", RoleID: "r1"},
		{ClientID: "c1", ProjectID: "p1", RoleID: "r2"},
		{ClientID: "c1", ProjectID: "p2", RoleID: "r1"},
		{ClientID: "c2", ProjectID: "p3", RoleID: "r3"},
	}

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"clients", AvailableClients(assignments), []string{"c1", "c2"}},
		{"projects of c1", AvailableProjects(assignments, "c1"), []string{"p1", "p2"}},
		{"projects of c2", AvailableProjects(assignments, "c2"), []string{"p3"}},
		{"no client", AvailableProjects(assignments, ""), nil},
		{"unknown client", AvailableProjects(assignments, "c9"), nil},
		{"roles of p1", AvailableRoles(assignments, "p1"), []string{"r1", "r2"}},
		{"no project", AvailableRoles(assignments, ""), nil},
		{"no assignments", AvailableClients(nil), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestIsAssigned(t *testing.T) {
	assignments := []project.Assignment{{ClientID: "c1", ProjectID: "p1", RoleID: "r1"}}
	if !IsAssigned(assignments, Row{ClientID: "c1", ProjectID: "p1", RoleID: "r1"}) {
		t.Error("assigned row reported unassigned")
	}
	if IsAssigned(assignments, Row{ClientID: "c1", ProjectID: "p1", RoleID: "r2"}) {
		t.Error("role r2 is not assigned")
	}
}

func TestFindEntry(t *testing.T) {
	entries := []timeentry.Entry{
		entry("c1", "p1", "r1", "2024-01-01", 4),
		entry("c1", "p1", "r2", "2024-01-01", 2),
		entry("c1", "p1", "r1", "2024-01-01", 9), // duplicate, ignored
		entry("c1", "p1", "r1", "2024-01-03", 1),
	}
	snap := NewSnapshot(Data{UserID: testUser, Days: week, Entries: entries})

	tests := []struct {
		name  string
		row   Row
		date  string
		hours float64 // 0 means no entry
		count int
	}{
		{"first duplicate wins", Row{ClientID: "c1", ProjectID: "p1", RoleID: "r1"}, "2024-01-01", 4, 3},
		{"role must match", Row{ClientID: "c1", ProjectID: "p1", RoleID: "r2"}, "2024-01-01", 2, 1},
		{"other day", Row{ClientID: "c1", ProjectID: "p1", RoleID: "r1"}, "2024-01-02", 0, 3},
		{"client must match", Row{ClientID: "c2", ProjectID: "p1", RoleID: "r1"}, "2024-01-01", 0, 0},
		{"incomplete row", Row{ClientID: "c1", ProjectID: "p1"}, "2024-01-01", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for name, got := range map[string]*timeentry.Entry{
				"FindEntry":      FindEntry(entries, tt.row, tt.date),
				"Snapshot.Entry": snap.Entry(tt.row, tt.date),
			} {
				switch {
				case tt.hours == 0 && got != nil:
					t.Errorf("%s = %+v, want nil", name, got)
				case tt.hours != 0 && (got == nil || got.Hours != tt.hours):
					t.Errorf("%s = %+v, want %v hours", name, got, tt.hours)
				}
			}
			if n := len(RowEntries(entries, tt.row)); n != tt.count {
				t.Errorf("RowEntries = %d entries, want %d", n, tt.count)
			}
			if n := len(snap.RowEntries(tt.row)); n != tt.count {
				t.Errorf("Snapshot.RowEntries = %d entries, want %d", n, tt.count)
			}
		})
	}
}

func TestFindApproval(t *testing.T) {
	approvals := []approval.Approval{
		approvalFor(t, "p1", "2024-01-03", approval.StatusApproved),
		approvalFor(t, "p1", "2024-01-10", approval.StatusPending),
	}

	tests := []struct {
		name   string
		entry  timeentry.Entry
		status approval.Status
	}{
		{"same week", entry("c1", "p1", "r1", "2024-01-07", 1), approval.StatusApproved},
		{"next week", entry("c1", "p1", "r1", "2024-01-08", 1), approval.StatusPending},
		{"other project", entry("c1", "p2", "r1", "2024-01-01", 1), ""},
		{"other week", entry("c1", "p1", "r1", "2024-01-20", 1), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := FindApproval(approvals, tt.entry)
			snapA := NewSnapshot(Data{UserID: testUser, Approvals: approvals}).ApprovalFor(tt.entry)
			if tt.status == "" {
				if a != nil || snapA != nil {
					t.Fatalf("expected no approval, got %+v / %+v", a, snapA)
				}
				return
			}
			if a == nil || a.Status != tt.status {
				t.Fatalf("FindApproval = %+v, want status %s", a, tt.status)
			}
			if snapA == nil || snapA.Status != tt.status {
				t.Fatalf("Snapshot.ApprovalFor = %+v, want status %s", snapA, tt.status)
			}
		})
	}

	other := entry("c1", "p1", "r1", "2024-01-03", 1)
	other.UserID = "user_2"
	if a := FindApproval(approvals, other); a != nil {
		t.Errorf("approval of another user matched: %+v", a)
	}
}

func TestIsRowLocked(t *testing.T) {
	row := Row{ClientID: "c1", ProjectID: "p1", RoleID: "r1"}
	entries := []timeentry.Entry{entry("c1", "p1", "r1", "2024-01-02", 8)}

	tests := []struct {
		status approval.Status
		locked bool
	}{
		{approval.StatusPending, true},
		{approval.StatusApproved, true},
		{approval.StatusRejected, false},
		{approval.StatusWithdrawn, false},
		{approval.StatusUnsubmitted, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			approvals := []approval.Approval{approvalFor(t, "p1", "2024-01-02", tt.status)}
			if got := IsRowLocked(RowEntries(entries, row), approvals); got != tt.locked {
				t.Errorf("IsRowLocked = %v, want %v", got, tt.locked)
			}
			snap := NewSnapshot(Data{UserID: testUser, Days: week, Entries: entries, Approvals: approvals})
			if got := snap.RowLocked(row); got != tt.locked {
				t.Errorf("Snapshot.RowLocked = %v, want %v", got, tt.locked)
			}
			if got := IsCellLocked(approvals, "p1", "2024-01-05", testUser); got != tt.locked {
				t.Errorf("IsCellLocked = %v, want %v", got, tt.locked)
			}
			if got := snap.CellLocked(row, "2024-01-05"); got != tt.locked {
				t.Errorf("Snapshot.CellLocked = %v, want %v", got, tt.locked)
			}
		})
	}

	if IsRowLocked(nil, []approval.Approval{approvalFor(t, "p1", "2024-01-02", approval.StatusApproved)}) {
		t.Error("row without entries must not be locked")
	}
}

func TestRowsFromEntries(t *testing.T) {
	entries := []timeentry.Entry{
		entry("c1", "p1", "r1", "2024-01-01", 1),
		entry("c1", "p1", "r2", "2024-01-01", 1),
		entry("c1", "p1", "r1", "2024-01-02", 1),
	}
	want := []Row{
		{ClientID: "c1", ProjectID: "p1", RoleID: "r1"},
		{ClientID: "c1", ProjectID: "p1", RoleID: "r2"},
	}
	if got := RowsFromEntries(entries); !reflect.DeepEqual(got, want) {
		t.Errorf("RowsFromEntries = %v, want %v", got, want)
	}
}

func TestParseHours(t *testing.T) {
	tests := []struct {
		input   string
		want    *float64
		wantErr bool
	}{
		{"", nil, false},
		{"   ", nil, false},
		{"8", ptr(8), false},
		{" 7.5 ", ptr(7.5), false},
		{"0", ptr(0), false},
		{"0.125", ptr(0.13), false},
		{"24", ptr(24), false},
		{"24.01", nil, true},
		{"-1", nil, true},
		{"abc", nil, true},
		{"NaN", nil, true},
		{"Inf", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHours(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHours(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.want == nil {
				if got != nil {
					t.Errorf("ParseHours(%q) = %v, want nil", tt.input, *got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Errorf("ParseHours(%q) = %v, want %v", tt.input, got, *tt.want)
			}
		})
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0.00"},
		{8, "8.00"},
		{7.5, "7.50"},
		{0.125, "0.13"},
		{0.375, "0.38"},
		{0.001, "0.00"},
	}
	for _, tt := range tests {
		if got := FormatHours(tt.hours); got != tt.want {
			t.Errorf("FormatHours(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

func ptr(f float64) *float64 { return &f }

func TestWeekDays(t *testing.T) {
	wed := time.Date(2024, 1, 3, 15, 0, 0, 0, time.UTC)
	if got := WeekDays(wed, true); !reflect.DeepEqual(got, week) {
		t.Errorf("WeekDays(weekend) = %v, want %v", got, week)
	}
	sun := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	if got := WeekDays(sun, false); !reflect.DeepEqual(got, week[:5]) {
		t.Errorf("WeekDays(sunday) = %v, want %v", got, week[:5])
	}
}
