package project

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (r *Repository) GetUsers() ([]User, error) {
	rows, err := r.query("SELECT id, email, name, role, is_active, created_at, updated_at FROM users ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *Repository) GetUser(id string) (*User, error) {
	u, err := scanUser(r.queryRow(
		"SELECT id, email, name, role, is_active, created_at, updated_at FROM users WHERE id = ?", id,
	).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanUser(scan func(dest ...any) error) (User, error) {
	var u User
	var role, createdAt, updatedAt string
	var active int
	if err := scan(&u.ID, &u.Email, &u.Name, &role, &active, &createdAt, &updatedAt); err != nil {
		return User{}, err
	}
	u.Role = UserRole(role)
	u.IsActive = active == 1
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	u.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return u, nil
}

func (r *Repository) CreateUser(u *User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = UserRoleUser
	}
	now := time.Now().UTC().Truncate(time.Second)
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := r.exec(r.db,
		"INSERT INTO users (id, email, name, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		u.ID, u.Email, u.Name, string(u.Role), boolInt(u.IsActive), formatTime(now), formatTime(now),
	)
	return err
}

func (r *Repository) UpdateUser(u *User) error {
	u.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	res, err := r.exec(r.db,
		"UPDATE users SET email = ?, name = ?, role = ?, is_active = ?, updated_at = ? WHERE id = ?",
		u.Email, u.Name, string(u.Role), boolInt(u.IsActive), formatTime(u.UpdatedAt), u.ID,
	)
	if err != nil {
		return err
	}
	return mustAffect(res, "user", u.ID)
}

// DeleteUser removes the user and their assignments. Entries, approvals and
// leave requests are kept for reporting.
func (r *Repository) DeleteUser(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := r.exec(tx, "DELETE FROM project_assignments WHERE user_id = ?", id); err != nil {
		return err
	}
	res, err := r.exec(tx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	if err := mustAffect(res, "user", id); err != nil {
		return err
	}
	return tx.Commit()
}
