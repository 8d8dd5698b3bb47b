package timesheet

import (
	"fmt"

	"timesheet_tui/internal/timeentry"
)

// Row is one line of the grid: a client, project and role chosen in that
// order. Later fields are only meaningful when the earlier ones are set.
type Row struct {
	ClientID  string
	ProjectID string
	RoleID    string
}

type RowState int

const (
	RowEmpty RowState = iota
	RowClientSelected
	RowProjectSelected
	RowComplete
)

func (s RowState) String() string {
	switch s {
	case RowEmpty:
		return "empty"
	case RowClientSelected:
		return "client-selected"
	case RowProjectSelected:
		return "project-selected"
	case RowComplete:
		return "complete"
	}
	return fmt.Sprintf("RowState(%d)", int(s))
}

func (r Row) State() RowState {
	switch {
	case r.ClientID == "":
		return RowEmpty
	case r.ProjectID == "":
		return RowClientSelected
	case r.RoleID == "":
		return RowProjectSelected
	}
	return RowComplete
}

func (r Row) Complete() bool {
	return r.State() == RowComplete
}

func (r Row) Tuple() timeentry.Tuple {
	return timeentry.Tuple{ClientID: r.ClientID, ProjectID: r.ProjectID, RoleID: r.RoleID}
}

// RowUpdate is a partial row change. Nil fields are left alone.
type RowUpdate struct {
	ClientID  *string
	ProjectID *string
	RoleID    *string
}

func (u RowUpdate) Apply(r Row) Row {
	if u.ClientID != nil {
		r.ClientID = *u.ClientID
	}
	if u.ProjectID != nil {
		r.ProjectID = *u.ProjectID
	}
	if u.RoleID != nil {
		r.RoleID = *u.RoleID
	}
	return r
}

// CellKey identifies a grid cell across re-renders. Rows are keyed by their
// project and role so the key survives row reordering.
type CellKey struct {
	Date      string
	ProjectID string
	RoleID    string
}

func (k CellKey) String() string {
	return k.Date + "-" + k.ProjectID + "-" + k.RoleID
}

// RowsFromEntries derives one row per distinct (client, project, role) in
// entries, in order of first appearance.
func RowsFromEntries(entries []timeentry.Entry) []Row {
	seen := make(map[timeentry.Tuple]bool)
	var rows []Row
	for _, e := range entries {
		t := e.Tuple()
		if seen[t] {
			continue
		}
		seen[t] = true
		rows = append(rows, Row{ClientID: t.ClientID, ProjectID: t.ProjectID, RoleID: t.RoleID})
	}
	return rows
}
