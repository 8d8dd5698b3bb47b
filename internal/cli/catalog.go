package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"timesheet_tui/internal/project"
)

type ClientAddCmd struct {
	Name     string `arg:"" help:"Client name."`
	Email    string `help:"Contact email."`
	Approver string `help:"Default approver email for the client's projects."`
}

func (c *ClientAddCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	client := &project.Client{Name: c.Name, Email: c.Email, ApproverEmail: c.Approver}
	if err := repo.CreateClient(client); err != nil {
		return fmt.Errorf("failed to add client: %w", err)
	}
	ctx.printf("Added client %s (%s)\n", client.Name, client.ID)
	return nil
}

type ClientListCmd struct{}

func (c *ClientListCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	clients, err := repo.GetClients()
	if err != nil {
		return err
	}
	if len(clients) == 0 {
		ctx.printf("No clients found\n")
		return nil
	}
	for _, cl := range clients {
		ctx.printf("  %s  %s", cl.ID, cl.Name)
		if cl.ApproverEmail != "" {
			ctx.printf("  approver: %s", cl.ApproverEmail)
		}
		ctx.printf("\n")
	}
	return nil
}

type RoleAddCmd struct {
	Name     string `arg:"" help:"Role name."`
	Inactive bool   `help:"Create the role as inactive."`
}

func (c *RoleAddCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	role := &project.Role{Name: c.Name, IsActive: !c.Inactive}
	if err := repo.CreateRole(role); err != nil {
		return fmt.Errorf("failed to add role: %w", err)
	}
	ctx.printf("Added role %s (%s)\n", role.Name, role.ID)
	return nil
}

type RoleListCmd struct{}

func (c *RoleListCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	roles, err := repo.GetRoles()
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		ctx.printf("No roles found\n")
		return nil
	}
	for _, r := range roles {
		status := "active"
		if !r.IsActive {
			status = "inactive"
		}
		ctx.printf("  [%s] %s  %s\n", status, r.ID, r.Name)
	}
	return nil
}

type ProjectAddCmd struct {
	Name       string   `arg:"" help:"Project name."`
	Client     string   `help:"Client ID." required:""`
	Budget     float64  `help:"Budget."`
	Start      string   `help:"Start date (YYYY-MM-DD)."`
	End        string   `help:"End date (YYYY-MM-DD)."`
	Approver   string   `help:"Approver email, overriding the client's."`
	NoApproval bool     `help:"Submitted weeks are approved immediately." name:"no-approval"`
	Role       []string `help:"Offered role as ROLE_ID[:COST:SELL]. Repeatable."`
}

func (c *ProjectAddCmd) Validate() error {
	if len(c.Role) == 0 {
		return fmt.Errorf("at least one --role is required")
	}
	return nil
}

func (c *ProjectAddCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	if _, err := repo.GetClient(c.Client); err != nil {
		return err
	}

	p := project.NewProject(c.Name, c.Client)
	p.Budget = c.Budget
	p.StartDate = c.Start
	p.EndDate = c.End
	p.ApproverEmail = c.Approver
	p.RequiresApproval = !c.NoApproval
	for _, spec := range c.Role {
		pr, err := parseProjectRole(spec)
		if err != nil {
			return err
		}
		p.Roles = append(p.Roles, pr)
	}

	if err := repo.CreateProject(p); err != nil {
		return fmt.Errorf("failed to add project: %w", err)
	}
	ctx.printf("Added project %s (%s) with %d roles\n", p.Name, p.ID, len(p.Roles))
	return nil
}

func parseProjectRole(spec string) (project.ProjectRole, error) {
	parts := strings.Split(spec, ":")
	pr := project.ProjectRole{RoleID: parts[0]}
	if pr.RoleID == "" {
		return pr, fmt.Errorf("invalid role %q", spec)
	}
	switch len(parts) {
	case 1:
		return pr, nil
	case 3:
		var err error
		if pr.CostRate, err = strconv.ParseFloat(parts[1], 64); err != nil {
			return pr, fmt.Errorf("invalid cost rate in %q", spec)
		}
		if pr.SellRate, err = strconv.ParseFloat(parts[2], 64); err != nil {
			return pr, fmt.Errorf("invalid sell rate in %q", spec)
		}
		return pr, nil
	}
	return pr, fmt.Errorf("invalid role %q, expected ROLE_ID[:COST:SELL]", spec)
}

type ProjectListCmd struct {
	Client string `help:"Only list projects of this client."`
}

func (c *ProjectListCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	projects, err := repo.GetProjects()
	if err != nil {
		return err
	}
	n := 0
	for _, p := range projects {
		if c.Client != "" && p.ClientID != c.Client {
			continue
		}
		n++
		approval := "requires approval"
		if !p.RequiresApproval {
			approval = "auto-approved"
		}
		ctx.printf("  %s  %s  client: %s  (%s)\n", p.ID, p.Name, p.ClientID, approval)
		for _, r := range p.Roles {
			ctx.printf("      role %s  cost %.2f  sell %.2f\n", r.RoleID, r.CostRate, r.SellRate)
		}
	}
	if n == 0 {
		ctx.printf("No projects found\n")
	}
	return nil
}

type UserAddCmd struct {
	Email string `arg:"" help:"User email."`
	Name  string `help:"Display name."`
	Admin bool   `help:"Grant the admin role."`
}

func (c *UserAddCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	u := &project.User{Email: c.Email, Name: c.Name, Role: project.UserRoleUser, IsActive: true}
	if c.Admin {
		u.Role = project.UserRoleAdmin
	}
	if err := repo.CreateUser(u); err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}
	ctx.printf("Added user %s (%s)\n", u.Email, u.ID)
	return nil
}

type UserListCmd struct{}

func (c *UserListCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	users, err := repo.GetUsers()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		ctx.printf("No users found\n")
		return nil
	}
	for _, u := range users {
		ctx.printf("  [%s] %s  %s  %s\n", u.Role, u.ID, u.Email, u.Name)
	}
	return nil
}

var errNothingToUpdate = errors.New("nothing to update; pass at least one flag")

type ClientUpdateCmd struct {
	ID       string `arg:"" help:"Client ID."`
	Name     string `help:"New name."`
	Email    string `help:"New contact email."`
	Approver string `help:"New default approver email."`
}

func (c *ClientUpdateCmd) Run(ctx *Context) error {
	if c.Name == "" && c.Email == "" && c.Approver == "" {
		return errNothingToUpdate
	}
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	client, err := repo.GetClient(c.ID)
	if err != nil {
		return err
	}
	set(&client.Name, c.Name)
	set(&client.Email, c.Email)
	set(&client.ApproverEmail, c.Approver)
	if err := repo.UpdateClient(client); err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	ctx.printf("Updated client %s (%s)\n", client.Name, client.ID)
	return nil
}

type ClientDeleteCmd struct {
	ID string `arg:"" help:"Client ID."`
}

func (c *ClientDeleteCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	if err := repo.DeleteClient(c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted client %s\n", c.ID)
	return nil
}

type RoleUpdateCmd struct {
	ID         string `arg:"" help:"Role ID."`
	Name       string `help:"New name."`
	Activate   bool   `help:"Mark the role active." xor:"active"`
	Deactivate bool   `help:"Mark the role inactive." xor:"active"`
}

func (c *RoleUpdateCmd) Run(ctx *Context) error {
	if c.Name == "" && !c.Activate && !c.Deactivate {
		return errNothingToUpdate
	}
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	role, err := repo.GetRole(c.ID)
	if err != nil {
		return err
	}
	set(&role.Name, c.Name)
	switch {
	case c.Activate:
		role.IsActive = true
	case c.Deactivate:
		role.IsActive = false
	}
	if err := repo.UpdateRole(role); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	ctx.printf("Updated role %s (%s)\n", role.Name, role.ID)
	return nil
}

type RoleDeleteCmd struct {
	ID string `arg:"" help:"Role ID."`
}

func (c *RoleDeleteCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	if err := repo.DeleteRole(c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted role %s\n", c.ID)
	return nil
}

type ProjectUpdateCmd struct {
	ID              string   `arg:"" help:"Project ID."`
	Name            string   `help:"New name."`
	Client          string   `help:"Move the project to this client."`
	Budget          string   `help:"New budget."`
	Start           string   `help:"New start date (YYYY-MM-DD)."`
	End             string   `help:"New end date (YYYY-MM-DD)."`
	Approver        string   `help:"New approver email."`
	RequireApproval bool     `help:"Submitted weeks wait for an approver." xor:"approval"`
	NoApproval      bool     `help:"Submitted weeks are approved immediately." name:"no-approval" xor:"approval"`
	Role            []string `help:"Replace the offered roles, as ROLE_ID[:COST:SELL]. Repeatable."`
}

func (c *ProjectUpdateCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	p, err := repo.GetProject(c.ID)
	if err != nil {
		return err
	}

	changed := c.Name != "" || c.Client != "" || c.Budget != "" || c.Start != "" || c.End != "" ||
		c.Approver != "" || c.RequireApproval || c.NoApproval || len(c.Role) > 0
	if !changed {
		return errNothingToUpdate
	}

	if c.Client != "" {
		if _, err := repo.GetClient(c.Client); err != nil {
			return err
		}
		p.ClientID = c.Client
	}
	if c.Budget != "" {
		if p.Budget, err = strconv.ParseFloat(c.Budget, 64); err != nil {
			return fmt.Errorf("invalid budget %q", c.Budget)
		}
	}
	set(&p.Name, c.Name)
	set(&p.StartDate, c.Start)
	set(&p.EndDate, c.End)
	set(&p.ApproverEmail, c.Approver)
	switch {
	case c.RequireApproval:
		p.RequiresApproval = true
	case c.NoApproval:
		p.RequiresApproval = false
	}
	if len(c.Role) > 0 {
		p.Roles = nil
		for _, spec := range c.Role {
			pr, err := parseProjectRole(spec)
			if err != nil {
				return err
			}
			p.Roles = append(p.Roles, pr)
		}
	}

	if err := repo.UpdateProject(p); err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	ctx.printf("Updated project %s (%s) with %d roles\n", p.Name, p.ID, len(p.Roles))
	return nil
}

type ProjectDeleteCmd struct {
	ID string `arg:"" help:"Project ID."`
}

func (c *ProjectDeleteCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	if err := repo.DeleteProject(c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted project %s\n", c.ID)
	return nil
}

type UserUpdateCmd struct {
	ID         string `arg:"" help:"User ID."`
	Email      string `help:"New email."`
	Name       string `help:"New display name."`
	Admin      bool   `help:"Grant the admin role." xor:"role"`
	NoAdmin    bool   `help:"Revoke the admin role." name:"no-admin" xor:"role"`
	Activate   bool   `help:"Reactivate the user." xor:"active"`
	Deactivate bool   `help:"Deactivate the user." xor:"active"`
}

func (c *UserUpdateCmd) Run(ctx *Context) error {
	if c.Email == "" && c.Name == "" && !c.Admin && !c.NoAdmin && !c.Activate && !c.Deactivate {
		return errNothingToUpdate
	}
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	u, err := repo.GetUser(c.ID)
	if err != nil {
		return err
	}
	set(&u.Email, c.Email)
	set(&u.Name, c.Name)
	switch {
	case c.Admin:
		u.Role = project.UserRoleAdmin
	case c.NoAdmin:
		u.Role = project.UserRoleUser
	}
	switch {
	case c.Activate:
		u.IsActive = true
	case c.Deactivate:
		u.IsActive = false
	}
	if err := repo.UpdateUser(u); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	ctx.printf("Updated user %s (%s)\n", u.Email, u.ID)
	return nil
}

type UserDeleteCmd struct {
	ID string `arg:"" help:"User ID."`
}

func (c *UserDeleteCmd) Run(ctx *Context) error {
	repo, err := ctx.Repo()
	if err != nil {
		return err
	}
	if err := repo.DeleteUser(c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted user %s and their assignments\n", c.ID)
	return nil
}

// set overwrites dst when v is not empty.
func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
