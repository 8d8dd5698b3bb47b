package project

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrInvalidAssignment = errors.New("invalid assignment")

// GetAssignments lists a user's assignments; an empty userID lists all.
func (r *Repository) GetAssignments(userID string) ([]Assignment, error) {
	query := "SELECT id, user_id, client_id, project_id, role_id FROM project_assignments"
	var args []any
	if userID != "" {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY user_id, client_id, project_id, role_id"

	rows, err := r.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.UserID, &a.ClientID, &a.ProjectID, &a.RoleID); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// CreateAssignment checks that the project belongs to the client and offers the role.
func (r *Repository) CreateAssignment(a *Assignment) error {
	if a.UserID == "" {
		return fmt.Errorf("%w: user is required", ErrInvalidAssignment)
	}
	if _, err := r.GetUser(a.UserID); err != nil {
		return err
	}
	p, err := r.GetProject(a.ProjectID)
	if err != nil {
		return err
	}
	if p.ClientID != a.ClientID {
		return fmt.Errorf("%w: project %s does not belong to client %s", ErrInvalidAssignment, p.ID, a.ClientID)
	}
	if !p.OffersRole(a.RoleID) {
		return fmt.Errorf("%w: project %s does not offer role %s", ErrInvalidAssignment, p.ID, a.RoleID)
	}

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	_, err = r.exec(r.db,
		"INSERT INTO project_assignments (id, user_id, client_id, project_id, role_id) VALUES (?, ?, ?, ?, ?)",
		a.ID, a.UserID, a.ClientID, a.ProjectID, a.RoleID,
	)
	return err
}

func (r *Repository) DeleteAssignment(id string) error {
	res, err := r.exec(r.db, "DELETE FROM project_assignments WHERE id = ?", id)
	if err != nil {
		return err
	}
	return mustAffect(res, "assignment", id)
}
