package timesheet

import (
	"sort"

	"timesheet_tui/internal/approval"
	"timesheet_tui/internal/project"
	"timesheet_tui/internal/timeentry"
)

// Source is the read side the grid is rendered from.
type Source interface {
	GetEntries(userID, from, to string) ([]timeentry.Entry, error)
	GetApprovals(userID, from, to string) ([]approval.Approval, error)
	GetAssignments(userID string) ([]project.Assignment, error)
	GetClients() ([]project.Client, error)
	GetProjects() ([]project.Project, error)
	GetRoles() ([]project.Role, error)
}

// Data is the raw input of a snapshot.
type Data struct {
	UserID      string
	Days        []string
	Entries     []timeentry.Entry
	Approvals   []approval.Approval
	Assignments []project.Assignment
	Clients     []project.Client
	Projects    []project.Project
	Roles       []project.Role
}

type cellRef struct {
	tuple timeentry.Tuple
	date  string
}

// Snapshot is an immutable view of one user's week. Lookup indices are built
// once when the snapshot is created, so per-cell queries do not rescan the
// entry and approval lists.
type Snapshot struct {
	Data

	entries   map[cellRef]int
	rows      map[timeentry.Tuple][]int
	approvals map[approval.Key]int
	clients   map[string]project.Client
	projects  map[string]project.Project
	roles     map[string]project.Role
}

func NewSnapshot(d Data) *Snapshot {
	s := &Snapshot{
		Data:      d,
		entries:   make(map[cellRef]int, len(d.Entries)),
		rows:      make(map[timeentry.Tuple][]int),
		approvals: make(map[approval.Key]int, len(d.Approvals)),
		clients:   make(map[string]project.Client, len(d.Clients)),
		projects:  make(map[string]project.Project, len(d.Projects)),
		roles:     make(map[string]project.Role, len(d.Roles)),
	}
	for i, e := range d.Entries {
		ref := cellRef{tuple: e.Tuple(), date: e.Date}
		if _, dup := s.entries[ref]; !dup {
			s.entries[ref] = i
		}
		s.rows[ref.tuple] = append(s.rows[ref.tuple], i)
	}
	for i, a := range d.Approvals {
		if _, dup := s.approvals[a.Key]; !dup {
			s.approvals[a.Key] = i
		}
	}
	for _, c := range d.Clients {
		s.clients[c.ID] = c
	}
	for _, p := range d.Projects {
		s.projects[p.ID] = p
	}
	for _, r := range d.Roles {
		s.roles[r.ID] = r
	}
	return s
}

// LoadSnapshot reads everything the grid needs for userID over days.
func LoadSnapshot(src Source, userID string, days []string) (*Snapshot, error) {
	d := Data{UserID: userID, Days: days}
	var from, to string
	if len(days) > 0 {
		from, to = days[0], days[len(days)-1]
	}

	var err error
	if d.Entries, err = src.GetEntries(userID, from, to); err != nil {
		return nil, err
	}
	if d.Approvals, err = src.GetApprovals(userID, from, to); err != nil {
		return nil, err
	}
	if d.Assignments, err = src.GetAssignments(userID); err != nil {
		return nil, err
	}
	if d.Clients, err = src.GetClients(); err != nil {
		return nil, err
	}
	if d.Projects, err = src.GetProjects(); err != nil {
		return nil, err
	}
	if d.Roles, err = src.GetRoles(); err != nil {
		return nil, err
	}
	return NewSnapshot(d), nil
}

// Entry is the indexed equivalent of FindEntry.
func (s *Snapshot) Entry(row Row, date string) *timeentry.Entry {
	if !row.Complete() {
		return nil
	}
	i, ok := s.entries[cellRef{tuple: row.Tuple(), date: date}]
	if !ok {
		return nil
	}
	return &s.Entries[i]
}

// RowEntries is the indexed equivalent of the package-level RowEntries.
func (s *Snapshot) RowEntries(row Row) []timeentry.Entry {
	if !row.Complete() {
		return nil
	}
	idx := s.rows[row.Tuple()]
	out := make([]timeentry.Entry, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.Entries[i])
	}
	return out
}

// ApprovalAt returns the approval for projectID's period containing date.
func (s *Snapshot) ApprovalAt(projectID, date string) *approval.Approval {
	return s.approvalFor(projectID, date, s.UserID)
}

// ApprovalFor is the indexed equivalent of FindApproval.
func (s *Snapshot) ApprovalFor(e timeentry.Entry) *approval.Approval {
	return s.approvalFor(e.ProjectID, e.Date, e.UserID)
}

func (s *Snapshot) approvalFor(projectID, date, userID string) *approval.Approval {
	if projectID == "" {
		return nil
	}
	key, err := approval.KeyFor(projectID, date, userID)
	if err != nil {
		return nil
	}
	i, ok := s.approvals[key]
	if !ok {
		return nil
	}
	return &s.Approvals[i]
}

func (s *Snapshot) RowLocked(row Row) bool {
	return IsRowLocked(s.RowEntries(row), s.Approvals)
}

func (s *Snapshot) CellLocked(row Row, date string) bool {
	return IsCellLocked(s.Approvals, row.ProjectID, date, s.UserID)
}

// Total sums the row's entries in hundredths of an hour.
func (s *Snapshot) Total(row Row) int64 {
	var total int64
	for _, e := range s.RowEntries(row) {
		total += Cents(e.Hours)
	}
	return total
}

// Rows derives the grid rows from the snapshot's entries.
func (s *Snapshot) Rows() []Row {
	return RowsFromEntries(s.Entries)
}

func (s *Snapshot) Client(id string) (project.Client, bool) {
	c, ok := s.clients[id]
	return c, ok
}

func (s *Snapshot) Project(id string) (project.Project, bool) {
	p, ok := s.projects[id]
	return p, ok
}

func (s *Snapshot) Role(id string) (project.Role, bool) {
	r, ok := s.roles[id]
	return r, ok
}

// ClientName returns the client's name, or a placeholder when the client no
// longer exists.
func (s *Snapshot) ClientName(id string) string {
	if c, ok := s.clients[id]; ok {
		return c.Name
	}
	return missingLabel(id)
}

func (s *Snapshot) ProjectName(id string) string {
	if p, ok := s.projects[id]; ok {
		return p.Name
	}
	return missingLabel(id)
}

func (s *Snapshot) RoleName(id string) string {
	if r, ok := s.roles[id]; ok {
		return r.Name
	}
	return missingLabel(id)
}

// Option is one choice in a row selector. Options whose reference cannot be
// resolved are shown with a placeholder label and cannot be selected.
type Option struct {
	ID         string
	Label      string
	Selectable bool
}

func missingLabel(id string) string {
	return "(missing " + id + ")"
}

func (s *Snapshot) ClientOptions(selected string) []Option {
	return s.options(AvailableClients(s.Assignments), selected, func(id string) (string, bool) {
		c, ok := s.clients[id]
		return c.Name, ok
	})
}

func (s *Snapshot) ProjectOptions(clientID, selected string) []Option {
	return s.options(AvailableProjects(s.Assignments, clientID), selected, func(id string) (string, bool) {
		p, ok := s.projects[id]
		return p.Name, ok
	})
}

func (s *Snapshot) RoleOptions(projectID, selected string) []Option {
	return s.options(AvailableRoles(s.Assignments, projectID), selected, func(id string) (string, bool) {
		r, ok := s.roles[id]
		return r.Name, ok
	})
}

func (s *Snapshot) options(ids []string, selected string, label func(string) (string, bool)) []Option {
	opts := make([]Option, 0, len(ids)+1)
	for _, id := range ids {
		name, ok := label(id)
		if !ok {
			opts = append(opts, Option{ID: id, Label: missingLabel(id)})
			continue
		}
		opts = append(opts, Option{ID: id, Label: name, Selectable: true})
	}
	sort.SliceStable(opts, func(i, j int) bool { return opts[i].Label < opts[j].Label })

	// A value that is set but no longer assigned still has to render.
	if selected != "" && !contains(ids, selected) {
		name, ok := label(selected)
		if !ok {
			name = missingLabel(selected)
		}
		opts = append(opts, Option{ID: selected, Label: name})
	}
	return opts
}
