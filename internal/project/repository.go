package project

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Repository persists reference data, time entries, approvals and leave
// requests in SQLite or PostgreSQL.
type Repository struct {
	db     *sql.DB
	driver string
}

// DriverFor picks the database driver from the connection string.
func DriverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

func NewRepository(dsn string) (*Repository, error) {
	driver := DriverFor(dsn)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if driver == DriverSQLite {
		// one writer; avoids SQLITE_BUSY between the TUI and background saves
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db, driver: driver}
	if err := repo.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return repo, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		approver_email TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS roles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		client_id TEXT NOT NULL,
		budget DOUBLE PRECISION NOT NULL DEFAULT 0,
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		approver_email TEXT NOT NULL DEFAULT '',
		requires_approval INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS project_roles (
		project_id TEXT NOT NULL,
		role_id TEXT NOT NULL,
		cost_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		sell_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (project_id, role_id)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS project_assignments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		role_id TEXT NOT NULL,
		UNIQUE (user_id, client_id, project_id, role_id)
	)`,
	`CREATE TABLE IF NOT EXISTS time_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		role_id TEXT NOT NULL,
		date TEXT NOT NULL,
		hours DOUBLE PRECISION NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		UNIQUE (user_id, client_id, project_id, role_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS approvals (
		id TEXT PRIMARY KEY,
		composite_key TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		submitted_at TEXT NOT NULL,
		approved_at TEXT,
		rejected_at TEXT,
		withdrawn_at TEXT,
		rejection_reason TEXT NOT NULL DEFAULT '',
		project_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		total_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
		user_id TEXT NOT NULL,
		approver_email TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		hours DOUBLE PRECISION NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_user_date ON time_entries (user_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_approvals_user ON approvals (user_id, start_date)`,
}

func (r *Repository) init() error {
	for _, stmt := range schema {
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) Driver() string {
	return r.driver
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (r *Repository) rebind(query string) string {
	if r.driver != DriverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (r *Repository) exec(ex execer, query string, args ...any) (sql.Result, error) {
	return ex.Exec(r.rebind(query), args...)
}

func (r *Repository) query(query string, args ...any) (*sql.Rows, error) {
	return r.db.Query(r.rebind(query), args...)
}

func (r *Repository) queryRow(query string, args ...any) *sql.Row {
	return r.db.QueryRow(r.rebind(query), args...)
}

// mustAffect turns a zero-row update or delete into ErrNotFound.
func mustAffect(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseOptionalTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}
