package project

import (
	"github.com/google/uuid"

	"timesheet_tui/internal/approval"
	"timesheet_tui/internal/timeentry"
)

// GetEntries lists a user's entries dated within [from, to].
func (r *Repository) GetEntries(userID, from, to string) ([]timeentry.Entry, error) {
	rows, err := r.query(
		`SELECT id, user_id, client_id, project_id, role_id, date, hours, description
		 FROM time_entries WHERE user_id = ? AND date >= ? AND date <= ?
		 ORDER BY date, client_id, project_id, role_id`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []timeentry.Entry
	for rows.Next() {
		var e timeentry.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ClientID, &e.ProjectID, &e.RoleID, &e.Date, &e.Hours, &e.Description); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpsertEntry writes the single entry for the entry's (user, client, project,
// role, date), keeping the stored id when one already exists.
func (r *Repository) UpsertEntry(e *timeentry.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	id := e.ID
	if id == "" {
		id = uuid.New().String()
	}
	err := r.queryRow(
		`INSERT INTO time_entries (id, user_id, client_id, project_id, role_id, date, hours, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, client_id, project_id, role_id, date)
		 DO UPDATE SET hours = excluded.hours, description = excluded.description
		 RETURNING id`,
		id, e.UserID, e.ClientID, e.ProjectID, e.RoleID, e.Date, e.Hours, e.Description,
	).Scan(&e.ID)
	return err
}

// DeleteEntry removes the entry for a cell. Clearing an empty cell is not an error.
func (r *Repository) DeleteEntry(userID string, t timeentry.Tuple, date string) error {
	_, err := r.exec(r.db,
		`DELETE FROM time_entries
		 WHERE user_id = ? AND client_id = ? AND project_id = ? AND role_id = ? AND date = ?`,
		userID, t.ClientID, t.ProjectID, t.RoleID, date,
	)
	return err
}

// SumHours totals a user's hours on a project within the period.
func (r *Repository) SumHours(userID, projectID string, period approval.Period) (float64, error) {
	var total float64
	err := r.queryRow(
		`SELECT COALESCE(SUM(hours), 0) FROM time_entries
		 WHERE user_id = ? AND project_id = ? AND date >= ? AND date <= ?`,
		userID, projectID, period.StartDate, period.EndDate,
	).Scan(&total)
	return total, err
}
