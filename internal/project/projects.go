package project

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const projectColumns = "id, name, client_id, budget, start_date, end_date, approver_email, requires_approval"

func scanProject(scan func(dest ...any) error) (Project, error) {
	var p Project
	var requires int
	err := scan(&p.ID, &p.Name, &p.ClientID, &p.Budget, &p.StartDate, &p.EndDate, &p.ApproverEmail, &requires)
	p.RequiresApproval = requires == 1
	return p, err
}

func (r *Repository) GetProjects() ([]Project, error) {
	rows, err := r.query("SELECT " + projectColumns + " FROM projects ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	roles, err := r.getProjectRoles()
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].Roles = roles[projects[i].ID]
	}
	return projects, nil
}

func (r *Repository) GetProject(id string) (*Project, error) {
	p, err := scanProject(r.queryRow("SELECT "+projectColumns+" FROM projects WHERE id = ?", id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	roles, err := r.getProjectRoles()
	if err != nil {
		return nil, err
	}
	p.Roles = roles[p.ID]
	return &p, nil
}

func (r *Repository) getProjectRoles() (map[string][]ProjectRole, error) {
	rows, err := r.query("SELECT project_id, role_id, cost_rate, sell_rate FROM project_roles ORDER BY project_id, role_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byProject := make(map[string][]ProjectRole)
	for rows.Next() {
		var pr ProjectRole
		if err := rows.Scan(&pr.ProjectID, &pr.RoleID, &pr.CostRate, &pr.SellRate); err != nil {
			return nil, err
		}
		byProject[pr.ProjectID] = append(byProject[pr.ProjectID], pr)
	}
	return byProject, rows.Err()
}

func (r *Repository) CreateProject(p *Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = r.exec(tx,
		"INSERT INTO projects ("+projectColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.Name, p.ClientID, p.Budget, p.StartDate, p.EndDate, p.ApproverEmail, boolInt(p.RequiresApproval),
	)
	if err != nil {
		return err
	}
	if err := r.writeProjectRoles(tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateProject rewrites the project row and replaces its role set.
func (r *Repository) UpdateProject(p *Project) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := r.exec(tx,
		`UPDATE projects SET name = ?, client_id = ?, budget = ?, start_date = ?, end_date = ?,
		 approver_email = ?, requires_approval = ? WHERE id = ?`,
		p.Name, p.ClientID, p.Budget, p.StartDate, p.EndDate, p.ApproverEmail, boolInt(p.RequiresApproval), p.ID,
	)
	if err != nil {
		return err
	}
	if err := mustAffect(res, "project", p.ID); err != nil {
		return err
	}
	if _, err := r.exec(tx, "DELETE FROM project_roles WHERE project_id = ?", p.ID); err != nil {
		return err
	}
	if err := r.writeProjectRoles(tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) writeProjectRoles(tx *sql.Tx, p *Project) error {
	for i := range p.Roles {
		p.Roles[i].ProjectID = p.ID
		pr := p.Roles[i]
		if _, err := r.exec(tx,
			"INSERT INTO project_roles (project_id, role_id, cost_rate, sell_rate) VALUES (?, ?, ?, ?)",
			pr.ProjectID, pr.RoleID, pr.CostRate, pr.SellRate,
		); err != nil {
			return fmt.Errorf("adding role %s: %w", pr.RoleID, err)
		}
	}
	return nil
}

func (r *Repository) DeleteProject(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := r.exec(tx, "DELETE FROM project_roles WHERE project_id = ?", id); err != nil {
		return err
	}
	if _, err := r.exec(tx, "DELETE FROM project_assignments WHERE project_id = ?", id); err != nil {
		return err
	}
	res, err := r.exec(tx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}
	if err := mustAffect(res, "project", id); err != nil {
		return err
	}
	return tx.Commit()
}
