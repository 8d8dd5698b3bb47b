package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"timesheet_tui/internal/cli"
	"timesheet_tui/internal/constants"
	"timesheet_tui/internal/errors"
	"timesheet_tui/internal/keyring"
	"timesheet_tui/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	DB      string        `help:"SQLite file or postgres:// URL without a password. Defaults to the keyring, then ${default_db}." env:"TIMESHEET_DB"`
	User    string        `help:"User ID to work as." env:"TIMESHEET_USER"`
	DataDir string        `help:"Directory for the default database and logs." env:"TIMESHEET_DATA_DIR" default:"${default_data_dir}"`
	Debug   bool          `help:"Verbose logging, mirrored to stderr." env:"TIMESHEET_DEBUG"`
	Refresh time.Duration `help:"How often the grid reloads." env:"TIMESHEET_REFRESH" default:"${default_refresh}"`
	Weekend bool          `help:"Show Saturday and Sunday columns." env:"TIMESHEET_WEEKEND"`

	Tui    cli.TuiCmd    `cmd:"" help:"Open the weekly timesheet grid." default:"1"`
	Seed   cli.SeedCmd   `cmd:"" help:"Load demo clients, projects and entries."`
	Export cli.ExportCmd `cmd:"" help:"Export a week to an XLSX workbook."`
	Client struct {
		Add    cli.ClientAddCmd    `cmd:"" help:"Add a client."`
		List   cli.ClientListCmd   `cmd:"" help:"List clients."`
		Update cli.ClientUpdateCmd `cmd:"" help:"Change a client."`
		Delete cli.ClientDeleteCmd `cmd:"" help:"Delete a client."`
	} `cmd:"" help:"Manage clients."`
	Role struct {
		Add    cli.RoleAddCmd    `cmd:"" help:"Add a role."`
		List   cli.RoleListCmd   `cmd:"" help:"List roles."`
		Update cli.RoleUpdateCmd `cmd:"" help:"Rename, activate or deactivate a role."`
		Delete cli.RoleDeleteCmd `cmd:"" help:"Delete a role."`
	} `cmd:"" help:"Manage roles."`
	Project struct {
		Add    cli.ProjectAddCmd    `cmd:"" help:"Add a project."`
		List   cli.ProjectListCmd   `cmd:"" help:"List projects."`
		Update cli.ProjectUpdateCmd `cmd:"" help:"Change a project."`
		Delete cli.ProjectDeleteCmd `cmd:"" help:"Delete a project with its roles and assignments."`
	} `cmd:"" help:"Manage projects."`
	Users struct {
		Add    cli.UserAddCmd    `cmd:"" help:"Add a user."`
		List   cli.UserListCmd   `cmd:"" help:"List users."`
		Update cli.UserUpdateCmd `cmd:"" help:"Change a user's profile, role or status."`
		Delete cli.UserDeleteCmd `cmd:"" help:"Delete a user and their assignments."`
	} `cmd:"" name:"user" help:"Manage users."`
	Assign struct {
		Add    cli.AssignAddCmd    `cmd:"" help:"Assign the user to a client, project and role."`
		List   cli.AssignListCmd   `cmd:"" help:"List assignments."`
		Delete cli.AssignDeleteCmd `cmd:"" help:"Delete an assignment."`
	} `cmd:"" help:"Manage project assignments."`
	Entry struct {
		Set   cli.EntrySetCmd   `cmd:"" help:"Log hours on a day."`
		Clear cli.EntryClearCmd `cmd:"" help:"Clear a day."`
		List  cli.EntryListCmd  `cmd:"" help:"Show a week."`
	} `cmd:"" help:"Manage time entries."`
	Approval struct {
		Submit   cli.ApprovalSubmitCmd   `cmd:"" help:"Submit a project week for approval."`
		Approve  cli.ApprovalApproveCmd  `cmd:"" help:"Approve a pending week."`
		Reject   cli.ApprovalRejectCmd   `cmd:"" help:"Reject a pending week."`
		Withdraw cli.ApprovalWithdrawCmd `cmd:"" help:"Withdraw a pending or approved week."`
		List     cli.ApprovalListCmd     `cmd:"" help:"List approvals."`
	} `cmd:"" help:"Manage weekly approvals."`
	Leave struct {
		Request cli.LeaveRequestCmd `cmd:"" help:"Request leave."`
		List    cli.LeaveListCmd    `cmd:"" help:"List leave requests."`
		Approve cli.LeaveApproveCmd `cmd:"" help:"Approve a leave request."`
		Reject  cli.LeaveRejectCmd  `cmd:"" help:"Reject a leave request."`
		Delete  cli.LeaveDeleteCmd  `cmd:"" help:"Delete a leave request."`
	} `cmd:"" help:"Manage leave requests."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage database credentials."`
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, constants.AppName)
}

func main() {
	// Variables already in the environment win over .env.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Weekly timesheets with project approvals."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":          constants.Version,
			"default_db":       constants.DefaultDBFile,
			"default_data_dir": defaultDataDir(),
			"default_refresh":  constants.DefaultRefreshInterval.String(),
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, DataDir: CLI.DataDir}); err != nil {
		errors.Fatal(err)
	}

	dsn, err := keyring.Resolve(CLI.DB, filepath.Join(CLI.DataDir, constants.DefaultDBFile))
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := cli.NewContext(dsn, CLI.User)
	appCtx.Weekend = CLI.Weekend
	appCtx.Refresh = CLI.Refresh

	err = ctx.Run(appCtx)
	if cerr := appCtx.Close(); cerr != nil {
		logger.Warn("closing repository", "error", cerr)
	}
	errors.Fatal(err)
}
