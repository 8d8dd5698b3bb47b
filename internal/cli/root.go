package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"

	"timesheet_tui/internal/constants"
	"timesheet_tui/internal/logger"
	"timesheet_tui/internal/project"
)

var ErrNoUser = errors.New("no user selected; pass --user or set TIMESHEET_USER")

// Context is shared by every command.
type Context struct {
	DSN     string
	UserID  string
	Weekend bool
	Refresh time.Duration
	Out     io.Writer

	// Prompt asks for a line of input when a required value was not given.
	Prompt func(title string) (string, error)

	repo *project.Repository
}

func NewContext(dsn, userID string) *Context {
	return &Context{
		DSN:     dsn,
		UserID:  userID,
		Refresh: constants.DefaultRefreshInterval,
		Out:     os.Stdout,
		Prompt:  promptLine,
	}
}

// Repo opens the repository on first use. Commands that never touch the
// database do not open it.
func (c *Context) Repo() (*project.Repository, error) {
	if c.repo != nil {
		return c.repo, nil
	}
	repo, err := project.NewRepository(c.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("opened repository", "driver", repo.Driver())
	c.repo = repo
	return repo, nil
}

func (c *Context) User() (string, error) {
	if c.UserID == "" {
		return "", ErrNoUser
	}
	return c.UserID, nil
}

func (c *Context) Close() error {
	if c.repo == nil {
		return nil
	}
	return c.repo.Close()
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func promptLine(title string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		Value(&value).
		Run()
	return value, err
}

// day resolves an optional date flag, defaulting to today.
func day(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
