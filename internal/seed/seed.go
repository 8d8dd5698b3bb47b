package seed

import (
	"errors"
	"fmt"
	"time"

	"timesheet_tui/internal/approval"
	"timesheet_tui/internal/constants"
	"timesheet_tui/internal/logger"
	"timesheet_tui/internal/project"
	"timesheet_tui/internal/timeentry"
)

var ErrAlreadySeeded = errors.New("database already contains demo data")

// Store is the write side the generator needs.
type Store interface {
	GetClient(id string) (*project.Client, error)
	CreateClient(c *project.Client) error
	CreateRole(r *project.Role) error
	CreateProject(p *project.Project) error
	CreateUser(u *project.User) error
	CreateAssignment(a *project.Assignment) error
	UpsertEntry(e *timeentry.Entry) error
}

type Options struct {
	UserID string
	Weeks  int
	Now    time.Time
}

type Result struct {
	UserID      string
	Clients     int
	Roles       int
	Projects    int
	Assignments int
	Entries     int
}

var roles = []project.Role{
	{ID: "role_1", Name: "Senior Developer", IsActive: true},
	{ID: "role_2", Name: "Project Manager", IsActive: true},
	{ID: "role_3", Name: "UI/UX Designer", IsActive: true},
	{ID: "role_4", Name: "Business Analyst", IsActive: true},
	{ID: "role_5", Name: "QA Engineer", IsActive: false},
}

var clients = []project.Client{
	{ID: "client_1", Name: "Acme Corporation", Email: "contact@acme.com", ApproverEmail: "approver@acme.com"},
	{ID: "client_2", Name: "Globex Industries", Email: "contact@globex.com", ApproverEmail: "approver@globex.com"},
	{ID: "client_3", Name: "Initech Solutions", Email: "contact@initech.com", ApproverEmail: "approver@initech.com"},
}

var projects = []project.Project{
	{
		ID: "proj_1", Name: "Website Redesign", ClientID: "client_1", Budget: 50000,
		StartDate: "2024-01-01", EndDate: "2024-06-30",
		ApproverEmail: "websiteapprover@acme.com", RequiresApproval: true,
		Roles: []project.ProjectRole{
			{RoleID: "role_1", CostRate: 75, SellRate: 150},
			{RoleID: "role_2", CostRate: 85, SellRate: 170},
			{RoleID: "role_3", CostRate: 70, SellRate: 140},
		},
	},
	{
		ID: "proj_2", Name: "Mobile App Development", ClientID: "client_2", Budget: 75000,
		StartDate: "2024-02-01", EndDate: "2024-08-31",
		ApproverEmail: "mobileapprover@globex.com", RequiresApproval: false,
		Roles: []project.ProjectRole{
			{RoleID: "role_1", CostRate: 80, SellRate: 160},
			{RoleID: "role_4", CostRate: 90, SellRate: 180},
		},
	},
	{
		ID: "proj_3", Name: "Digital Transformation", ClientID: "client_3", Budget: 120000,
		StartDate: "2024-03-01", EndDate: "2024-12-31",
		ApproverEmail: "dtapprover@initech.com", RequiresApproval: true,
		Roles: []project.ProjectRole{
			{RoleID: "role_2", CostRate: 85, SellRate: 170},
			{RoleID: "role_3", CostRate: 75, SellRate: 150},
			{RoleID: "role_4", CostRate: 95, SellRate: 190},
		},
	},
}

// workload is what the demo user logs on a typical day per assignment.
var workload = []struct {
	project.Assignment
	hours float64
}{
	{project.Assignment{ClientID: "client_1", ProjectID: "proj_1", RoleID: "role_1"}, 8},
	{project.Assignment{ClientID: "client_2", ProjectID: "proj_2", RoleID: "role_1"}, 4},
	{project.Assignment{ClientID: "client_3", ProjectID: "proj_3", RoleID: "role_2"}, 6},
}

// Run writes the demo catalog, one user with assignments, and weekday entries
// for the last opts.Weeks weeks up to the week containing opts.Now. Output is
// the same for the same options.
func Run(store Store, opts Options) (Result, error) {
	if opts.UserID == "" {
		opts.UserID = "user_1"
	}
	if opts.Weeks <= 0 {
		opts.Weeks = 12
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	res := Result{UserID: opts.UserID}

	if _, err := store.GetClient(clients[0].ID); err == nil {
		return res, ErrAlreadySeeded
	} else if !errors.Is(err, project.ErrNotFound) {
		return res, err
	}

	for _, r := range roles {
		r := r
		if err := store.CreateRole(&r); err != nil {
			return res, fmt.Errorf("creating role %s: %w", r.ID, err)
		}
		res.Roles++
	}
	for _, c := range clients {
		c := c
		if err := store.CreateClient(&c); err != nil {
			return res, fmt.Errorf("creating client %s: %w", c.ID, err)
		}
		res.Clients++
	}
	for _, p := range projects {
		p := p
		p.Roles = append([]project.ProjectRole(nil), p.Roles...)
		if err := store.CreateProject(&p); err != nil {
			return res, fmt.Errorf("creating project %s: %w", p.ID, err)
		}
		res.Projects++
	}

	user := &project.User{
		ID:       opts.UserID,
		Email:    opts.UserID + "@example.com",
		Name:     "Demo User",
		Role:     project.UserRoleUser,
		IsActive: true,
	}
	if err := store.CreateUser(user); err != nil {
		return res, fmt.Errorf("creating user: %w", err)
	}
	for _, w := range workload {
		a := w.Assignment
		a.UserID = user.ID
		if err := store.CreateAssignment(&a); err != nil {
			return res, fmt.Errorf("creating assignment: %w", err)
		}
		res.Assignments++
	}

	monday, _ := approval.WeekRange(opts.Now)
	first := monday.AddDate(0, 0, -7*(opts.Weeks-1))
	n := 0
	for week := 0; week < opts.Weeks; week++ {
		for weekday := 0; weekday < 5; weekday++ {
			day := first.AddDate(0, 0, 7*week+weekday)
			for i, w := range workload {
				// two of the three assignments a day, rotating
				if (n+i)%3 == 2 {
					continue
				}
				e := &timeentry.Entry{
					UserID:      user.ID,
					ClientID:    w.ClientID,
					ProjectID:   w.ProjectID,
					RoleID:      w.RoleID,
					Date:        day.Format(constants.DateFormat),
					Hours:       w.hours,
					Description: "Regular work",
				}
				if err := store.UpsertEntry(e); err != nil {
					return res, fmt.Errorf("creating entry: %w", err)
				}
				res.Entries++
			}
			n++
		}
	}

	logger.Info("seeded demo data", "user", res.UserID, "entries", res.Entries)
	return res, nil
}
