package project

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

func (r *Repository) GetClients() ([]Client, error) {
	rows, err := r.query("SELECT id, name, email, approver_email FROM clients ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.ApproverEmail); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *Repository) GetClient(id string) (*Client, error) {
	var c Client
	err := r.queryRow("SELECT id, name, email, approver_email FROM clients WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &c.Email, &c.ApproverEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) CreateClient(c *Client) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := r.exec(r.db,
		"INSERT INTO clients (id, name, email, approver_email) VALUES (?, ?, ?, ?)",
		c.ID, c.Name, c.Email, c.ApproverEmail,
	)
	return err
}

func (r *Repository) UpdateClient(c *Client) error {
	res, err := r.exec(r.db,
		"UPDATE clients SET name = ?, email = ?, approver_email = ? WHERE id = ?",
		c.Name, c.Email, c.ApproverEmail, c.ID,
	)
	if err != nil {
		return err
	}
	return mustAffect(res, "client", c.ID)
}

func (r *Repository) DeleteClient(id string) error {
	res, err := r.exec(r.db, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return err
	}
	return mustAffect(res, "client", id)
}
