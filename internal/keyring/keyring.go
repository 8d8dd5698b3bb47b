package keyring

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"

	"timesheet_tui/internal/constants"
)

var (
	ErrNotFound           = errors.New("connection string not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrEmbeddedPassword rejects command-line or env DSNs that carry a password.
	ErrEmbeddedPassword = errors.New("connection string embeds a password; store it with 'timesheet keyring set' instead")
)

func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if !IsPostgres(connStr) {
		return errors.New("connection string must be a postgres:// URL")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	return nil
}

func DeleteConnectionString() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	return nil
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// HasEmbeddedPassword reports whether a postgres URL carries a password.
func HasEmbeddedPassword(dsn string) bool {
	if !IsPostgres(dsn) {
		return false
	}
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return false
	}
	_, ok := u.User.Password()
	return ok
}

// Resolve picks the database to open. An explicit DSN wins but must not embed
// a password; otherwise a stored keyring connection string is used, falling
// back to fallback (the local SQLite file).
func Resolve(dsn, fallback string) (string, error) {
	if dsn != "" {
		if HasEmbeddedPassword(dsn) {
			return "", ErrEmbeddedPassword
		}
		return dsn, nil
	}
	connStr, err := GetConnectionString()
	switch {
	case err == nil:
		return connStr, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrKeyringUnavailable):
		return fallback, nil
	}
	return "", err
}

// Mask hides the password of a postgres URL for display.
func Mask(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); !ok {
		return dsn
	}
	u.User = url.UserPassword(u.User.Username(), "****")
	return u.String()
}
