package constants

import "time"

const (
	AppName = "timesheet"
	Version = "v0.3.0"

	// DateFormat is the calendar-day format used for entries, periods and keys (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	DefaultDBFile          = "timesheet.db"
	DefaultKeyringUser     = "database-connection"
	DefaultRefreshInterval = 15 * time.Second

	// MaxCellHours caps a single day cell
	MaxCellHours = 24.0
)
