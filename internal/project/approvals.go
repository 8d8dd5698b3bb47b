package project

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"timesheet_tui/internal/approval"
)

const approvalColumns = `id, composite_key, status, submitted_at, approved_at, rejected_at, withdrawn_at,
	rejection_reason, project_id, client_id, start_date, end_date, total_hours, user_id, approver_email`

func scanApproval(scan func(dest ...any) error) (approval.Approval, error) {
	var a approval.Approval
	var key, status, submittedAt string
	var approvedAt, rejectedAt, withdrawnAt sql.NullString
	err := scan(
		&a.ID, &key, &status, &submittedAt, &approvedAt, &rejectedAt, &withdrawnAt,
		&a.RejectionReason, &a.ProjectID, &a.ClientID, &a.Period.StartDate, &a.Period.EndDate,
		&a.TotalHours, &a.UserID, &a.ApproverEmail,
	)
	if err != nil {
		return approval.Approval{}, err
	}
	a.Key, err = approval.ParseKey(key)
	if err != nil {
		return approval.Approval{}, err
	}
	a.Status = approval.Status(status)
	if !a.Status.Valid() {
		return approval.Approval{}, fmt.Errorf("approval %s: unknown status %q", a.ID, status)
	}
	a.SubmittedAt, _ = time.Parse(time.RFC3339, submittedAt)
	a.ApprovedAt = parseOptionalTime(approvedAt)
	a.RejectedAt = parseOptionalTime(rejectedAt)
	a.WithdrawnAt = parseOptionalTime(withdrawnAt)
	return a, nil
}

// FindApproval returns nil when no approval exists for the key.
func (r *Repository) FindApproval(key approval.Key) (*approval.Approval, error) {
	a, err := scanApproval(r.queryRow("SELECT "+approvalColumns+" FROM approvals WHERE composite_key = ?", key.String()).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetApprovals lists approvals whose period overlaps [from, to]. An empty
// userID lists every user's approvals.
func (r *Repository) GetApprovals(userID, from, to string) ([]approval.Approval, error) {
	query := "SELECT " + approvalColumns + " FROM approvals WHERE start_date <= ? AND end_date >= ?"
	args := []any{to, from}
	if userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY start_date, project_id"

	rows, err := r.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var approvals []approval.Approval
	for rows.Next() {
		a, err := scanApproval(rows.Scan)
		if err != nil {
			return nil, err
		}
		approvals = append(approvals, a)
	}
	return approvals, rows.Err()
}

func (r *Repository) SaveApproval(a approval.Approval) error {
	_, err := r.exec(r.db,
		`INSERT INTO approvals (`+approvalColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (composite_key) DO UPDATE SET
			status = excluded.status,
			submitted_at = excluded.submitted_at,
			approved_at = excluded.approved_at,
			rejected_at = excluded.rejected_at,
			withdrawn_at = excluded.withdrawn_at,
			rejection_reason = excluded.rejection_reason,
			client_id = excluded.client_id,
			total_hours = excluded.total_hours,
			approver_email = excluded.approver_email`,
		a.ID, a.Key.String(), string(a.Status), formatTime(a.SubmittedAt),
		formatOptionalTime(a.ApprovedAt), formatOptionalTime(a.RejectedAt), formatOptionalTime(a.WithdrawnAt),
		a.RejectionReason, a.ProjectID, a.ClientID, a.Period.StartDate, a.Period.EndDate,
		a.TotalHours, a.UserID, a.ApproverEmail,
	)
	return err
}
