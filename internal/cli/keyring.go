package cli

import (
	"errors"

	"timesheet_tui/internal/keyring"
)

type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string, password included."`
}

func (c *KeyringSetCmd) Run(ctx *Context) error {
	if err := keyring.SetConnectionString(c.ConnectionString); err != nil {
		return err
	}
	ctx.printf("Stored %s in the OS keyring\n", keyring.Mask(c.ConnectionString))
	return nil
}

type KeyringDeleteCmd struct{}

func (c *KeyringDeleteCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string stored in the keyring")
		}
		return err
	}
	ctx.printf("Deleted the connection string from the OS keyring\n")
	return nil
}
