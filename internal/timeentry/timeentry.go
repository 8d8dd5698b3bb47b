package timeentry

import (
	"errors"
	"fmt"
	"math"
	"time"

	"timesheet_tui/internal/constants"
)

// Entry is the hours one user recorded against a (client, project, role) on one day.
type Entry struct {
	ID          string
	UserID      string
	ClientID    string
	ProjectID   string
	RoleID      string
	Date        string // DateFormat
	Hours       float64
	Description string
}

// Tuple is the (client, project, role) combination an entry is logged against.
type Tuple struct {
	ClientID  string
	ProjectID string
	RoleID    string
}

func (e Entry) Tuple() Tuple {
	return Tuple{ClientID: e.ClientID, ProjectID: e.ProjectID, RoleID: e.RoleID}
}

func (e Entry) Validate() error {
	if e.UserID == "" || e.ClientID == "" || e.ProjectID == "" || e.RoleID == "" {
		return errors.New("entry requires user, client, project and role")
	}
	if _, err := time.Parse(constants.DateFormat, e.Date); err != nil {
		return fmt.Errorf("invalid entry date %q: %w", e.Date, err)
	}
	if math.IsNaN(e.Hours) || e.Hours < 0 || e.Hours > constants.MaxCellHours {
		return fmt.Errorf("invalid hours %v", e.Hours)
	}
	return nil
}
