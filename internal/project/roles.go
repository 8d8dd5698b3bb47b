package project

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

func (r *Repository) GetRoles() ([]Role, error) {
	rows, err := r.query("SELECT id, name, is_active FROM roles ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var role Role
		var active int
		if err := rows.Scan(&role.ID, &role.Name, &active); err != nil {
			return nil, err
		}
		role.IsActive = active == 1
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *Repository) GetRole(id string) (*Role, error) {
	var role Role
	var active int
	err := r.queryRow("SELECT id, name, is_active FROM roles WHERE id = ?", id).
		Scan(&role.ID, &role.Name, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("role %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	role.IsActive = active == 1
	return &role, nil
}

func (r *Repository) CreateRole(role *Role) error {
	if role.ID == "" {
		role.ID = uuid.New().String()
	}
	_, err := r.exec(r.db,
		"INSERT INTO roles (id, name, is_active) VALUES (?, ?, ?)",
		role.ID, role.Name, boolInt(role.IsActive),
	)
	return err
}

func (r *Repository) UpdateRole(role *Role) error {
	res, err := r.exec(r.db,
		"UPDATE roles SET name = ?, is_active = ? WHERE id = ?",
		role.Name, boolInt(role.IsActive), role.ID,
	)
	if err != nil {
		return err
	}
	return mustAffect(res, "role", role.ID)
}

func (r *Repository) DeleteRole(id string) error {
	res, err := r.exec(r.db, "DELETE FROM roles WHERE id = ?", id)
	if err != nil {
		return err
	}
	return mustAffect(res, "role", id)
}
