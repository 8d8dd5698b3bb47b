package timesheet

import (
	"errors"
)

var (
	ErrRowLocked        = errors.New("row is locked by a pending or approved approval")
	ErrCellLocked       = errors.New("cell is locked by a pending or approved approval")
	ErrRowIncomplete    = errors.New("select a client, project and role first")
	ErrNotAssigned      = errors.New("not assigned to this selection")
	ErrMissingReference = errors.New("referenced record no longer exists")
	ErrDuplicateRow     = errors.New("another row already has this client, project and role")
)

// Events receives the intents a row produces. The grid owns all state; a row
// never mutates anything itself.
type Events interface {
	UpdateRow(index int, update RowUpdate)
	RemoveRow(index int)
	// CellChange reports a committed cell value. A nil hours clears the cell.
	CellChange(date string, row Row, hours *float64)
	StartEdit(key CellKey)
	EndEdit()
}

// SnapshotSource returns the current data snapshot. It is consulted again on
// every mutation. Writers still have to re-check locks against the store: the
// snapshot is only as fresh as the last reload.
type SnapshotSource interface {
	Snapshot() *Snapshot
}

// RowChecker is implemented by event sinks that hold several rows. A role is
// refused when the completed row would duplicate another one.
type RowChecker interface {
	HasRow(row Row, except int) bool
}

// Cell is the render state of one day in a row.
type Cell struct {
	Key      CellKey
	Hours    *float64
	Text     string
	Locked   bool
	Editable bool
	Editing  bool
}

// Controller holds the presentation logic for one grid row.
type Controller struct {
	index  int
	row    Row
	data   SnapshotSource
	events Events
}

func NewController(index int, row Row, data SnapshotSource, events Events) *Controller {
	return &Controller{index: index, row: row, data: data, events: events}
}

func (c *Controller) Index() int { return c.index }
func (c *Controller) Row() Row   { return c.row }

func (c *Controller) State() RowState {
	return c.row.State()
}

func (c *Controller) Locked() bool {
	return c.data.Snapshot().RowLocked(c.row)
}

func (c *Controller) ClientDisabled() bool  { return c.Locked() }
func (c *Controller) ProjectDisabled() bool { return c.Locked() || c.row.ClientID == "" }
func (c *Controller) RoleDisabled() bool    { return c.Locked() || c.row.ProjectID == "" }
func (c *Controller) RemoveDisabled() bool  { return c.Locked() }

func (c *Controller) ClientOptions() []Option {
	return c.data.Snapshot().ClientOptions(c.row.ClientID)
}

func (c *Controller) ProjectOptions() []Option {
	return c.data.Snapshot().ProjectOptions(c.row.ClientID, c.row.ProjectID)
}

func (c *Controller) RoleOptions() []Option {
	return c.data.Snapshot().RoleOptions(c.row.ProjectID, c.row.RoleID)
}

// Cells returns the render state for each day of the snapshot. active is the
// cell currently being edited, if any.
func (c *Controller) Cells(active *CellKey) []Cell {
	snap := c.data.Snapshot()
	cells := make([]Cell, 0, len(snap.Days))
	for _, day := range snap.Days {
		key := CellKey{Date: day, ProjectID: c.row.ProjectID, RoleID: c.row.RoleID}
		cell := Cell{Key: key}
		if e := snap.Entry(c.row, day); e != nil {
			h := e.Hours
			cell.Hours = &h
			cell.Text = FormatHours(h)
		}
		cell.Locked = snap.CellLocked(c.row, day)
		cell.Editable = c.row.Complete() && !cell.Locked
		cell.Editing = active != nil && *active == key && cell.Editable
		cells = append(cells, cell)
	}
	return cells
}

// Total is the row's logged hours in hundredths.
func (c *Controller) Total() int64 {
	return c.data.Snapshot().Total(c.row)
}

func (c *Controller) TotalText() string {
	return FormatCents(c.Total())
}

// SelectClient sets the client and clears the project and role. An empty id
// clears the selection.
func (c *Controller) SelectClient(id string) error {
	snap := c.data.Snapshot()
	if snap.RowLocked(c.row) {
		return ErrRowLocked
	}
	if id != "" {
		if err := checkSelectable(snap.ClientOptions(c.row.ClientID), id); err != nil {
			return err
		}
	}
	empty := ""
	c.events.UpdateRow(c.index, RowUpdate{ClientID: &id, ProjectID: &empty, RoleID: &empty})
	return nil
}

// SelectProject sets the project and clears the role.
func (c *Controller) SelectProject(id string) error {
	snap := c.data.Snapshot()
	if snap.RowLocked(c.row) {
		return ErrRowLocked
	}
	if c.row.ClientID == "" {
		return ErrRowIncomplete
	}
	if id != "" {
		if err := checkSelectable(snap.ProjectOptions(c.row.ClientID, c.row.ProjectID), id); err != nil {
			return err
		}
	}
	empty := ""
	c.events.UpdateRow(c.index, RowUpdate{ProjectID: &id, RoleID: &empty})
	return nil
}

func (c *Controller) SelectRole(id string) error {
	snap := c.data.Snapshot()
	if snap.RowLocked(c.row) {
		return ErrRowLocked
	}
	if c.row.ProjectID == "" {
		return ErrRowIncomplete
	}
	if id != "" {
		if err := checkSelectable(snap.RoleOptions(c.row.ProjectID, c.row.RoleID), id); err != nil {
			return err
		}
		next := c.row
		next.RoleID = id
		if rc, ok := c.events.(RowChecker); ok && rc.HasRow(next, c.index) {
			return ErrDuplicateRow
		}
	}
	c.events.UpdateRow(c.index, RowUpdate{RoleID: &id})
	return nil
}

func (c *Controller) Remove() error {
	if c.data.Snapshot().RowLocked(c.row) {
		return ErrRowLocked
	}
	c.events.RemoveRow(c.index)
	return nil
}

func (c *Controller) editable(snap *Snapshot, date string) error {
	if !c.row.Complete() {
		return ErrRowIncomplete
	}
	if snap.CellLocked(c.row, date) {
		return ErrCellLocked
	}
	return nil
}

// StartEdit asks the grid to make the cell for date active.
func (c *Controller) StartEdit(date string) error {
	if err := c.editable(c.data.Snapshot(), date); err != nil {
		return err
	}
	c.events.StartEdit(CellKey{Date: date, ProjectID: c.row.ProjectID, RoleID: c.row.RoleID})
	return nil
}

// Commit parses input and reports it as the new value of the cell for date.
// Invalid input produces no events.
func (c *Controller) Commit(date, input string) error {
	if err := c.editable(c.data.Snapshot(), date); err != nil {
		return err
	}
	hours, err := ParseHours(input)
	if err != nil {
		return err
	}
	c.events.CellChange(date, c.row, hours)
	c.events.EndEdit()
	return nil
}

func (c *Controller) CancelEdit() {
	c.events.EndEdit()
}

func checkSelectable(opts []Option, id string) error {
	for _, o := range opts {
		if o.ID != id {
			continue
		}
		if !o.Selectable {
			return ErrMissingReference
		}
		return nil
	}
	return ErrNotAssigned
}
