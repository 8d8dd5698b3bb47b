package project

import "time"

type Client struct {
	ID            string
	Name          string
	Email         string
	ApproverEmail string
}

type Role struct {
	ID       string
	Name     string
	IsActive bool
}

// ProjectRole is a role offered on a project with its hourly rates.
type ProjectRole struct {
	ProjectID string
	RoleID    string
	CostRate  float64
	SellRate  float64
}

type Project struct {
	ID               string
	Name             string
	ClientID         string
	Budget           float64
	StartDate        string
	EndDate          string
	ApproverEmail    string
	RequiresApproval bool
	Roles            []ProjectRole
}

func NewProject(name, clientID string) *Project {
	return &Project{
		Name:             name,
		ClientID:         clientID,
		RequiresApproval: true,
	}
}

// OffersRole reports whether roleID is one of the project's roles.
func (p *Project) OffersRole(roleID string) bool {
	for _, r := range p.Roles {
		if r.RoleID == roleID {
			return true
		}
	}
	return false
}

// ApproverFor returns the project approver, falling back to the client's.
func (p *Project) ApproverFor(c *Client) string {
	if p.ApproverEmail != "" {
		return p.ApproverEmail
	}
	if c != nil {
		return c.ApproverEmail
	}
	return ""
}

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

type User struct {
	ID        string
	Email     string
	Name      string
	Role      UserRole
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Assignment scopes which (client, project, role) a user may log time against.
type Assignment struct {
	ID        string
	UserID    string
	ClientID  string
	ProjectID string
	RoleID    string
}
