package project

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"timesheet_tui/internal/leave"
)

const leaveColumns = "id, user_id, type, start_date, end_date, hours, note, status, created_at"

func scanLeave(scan func(dest ...any) error) (leave.Request, error) {
	var l leave.Request
	var typ, status, createdAt string
	if err := scan(&l.ID, &l.UserID, &typ, &l.StartDate, &l.EndDate, &l.Hours, &l.Note, &status, &createdAt); err != nil {
		return leave.Request{}, err
	}
	l.Type = leave.Type(typ)
	l.Status = leave.Status(status)
	l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return l, nil
}

func (r *Repository) CreateLeave(l *leave.Request) error {
	if l.Status == "" {
		l.Status = leave.StatusPending
	}
	if err := l.Validate(); err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	l.CreatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := r.exec(r.db,
		"INSERT INTO leave_requests ("+leaveColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		l.ID, l.UserID, string(l.Type), l.StartDate, l.EndDate, l.Hours, l.Note, string(l.Status), formatTime(l.CreatedAt),
	)
	return err
}

// GetLeave lists leave requests, newest first; an empty userID lists all.
func (r *Repository) GetLeave(userID string) ([]leave.Request, error) {
	query := "SELECT " + leaveColumns + " FROM leave_requests"
	var args []any
	if userID != "" {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY start_date DESC"

	rows, err := r.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		l, err := scanLeave(rows.Scan)
		if err != nil {
			return nil, err
		}
		requests = append(requests, l)
	}
	return requests, rows.Err()
}

func (r *Repository) GetLeaveRequest(id string) (*leave.Request, error) {
	l, err := scanLeave(r.queryRow("SELECT "+leaveColumns+" FROM leave_requests WHERE id = ?", id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("leave request %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repository) UpdateLeaveStatus(id string, status leave.Status) error {
	res, err := r.exec(r.db, "UPDATE leave_requests SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return err
	}
	return mustAffect(res, "leave request", id)
}

func (r *Repository) DeleteLeave(id string) error {
	res, err := r.exec(r.db, "DELETE FROM leave_requests WHERE id = ?", id)
	if err != nil {
		return err
	}
	return mustAffect(res, "leave request", id)
}
