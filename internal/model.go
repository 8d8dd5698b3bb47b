package internal

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"timesheet_tui/internal/approval"
	"timesheet_tui/internal/logger"
	"timesheet_tui/internal/timeentry"
	"timesheet_tui/internal/timesheet"
)

// MsgTick asks the grid to reload its snapshot.
type MsgTick struct{}

type msgLoaded struct {
	snap *timesheet.Snapshot
	err  error
}

type msgSaved struct {
	status string
	err    error
}

// Store is everything the grid reads and writes.
type Store interface {
	timesheet.Source
	approval.Store
	UpsertEntry(e *timeentry.Entry) error
	DeleteEntry(userID string, t timeentry.Tuple, date string) error
}

type Options struct {
	UserID  string
	Weekend bool
	Now     func() time.Time
}

// selector columns come first, day cells after them
const (
	colClient = iota
	colProject
	colRole
	colFirstDay
)

type Model struct {
	store     Store
	approvals *approval.Service
	userID    string
	weekend   bool
	now       func() time.Time

	weekOf time.Time
	snap   *timesheet.Snapshot
	rows   []timesheet.Row

	SelectedRow int
	SelectedCol int

	editing *timesheet.CellKey
	input   textinput.Model

	keys     keyMap
	help     help.Model
	showHelp bool

	Status string
	Err    error
	width  int

	// commands queued by row events during one Update
	pending []tea.Cmd
}

func NewModel(store Store, opts Options) (*Model, error) {
	if opts.UserID == "" {
		return nil, errors.New("no user selected")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	input := textinput.New()
	input.Placeholder = "0.00"
	input.CharLimit = 6
	input.Width = 6
	input.Prompt = ""

	m := &Model{
		store:     store,
		approvals: approval.NewService(store),
		userID:    opts.UserID,
		weekend:   opts.Weekend,
		now:       now,
		weekOf:    now(),
		input:     input,
		keys:      keys,
		help:      help.New(),
	}

	snap, err := timesheet.LoadSnapshot(store, m.userID, m.Days())
	if err != nil {
		return nil, fmt.Errorf("failed to load timesheet: %w", err)
	}
	m.applySnapshot(snap)
	return m, nil
}

// Days returns the displayed days of the current week.
func (m *Model) Days() []string {
	return timesheet.WeekDays(m.weekOf, m.weekend)
}

// Snapshot implements timesheet.SnapshotSource.
func (m *Model) Snapshot() *timesheet.Snapshot {
	return m.snap
}

func (m *Model) Rows() []timesheet.Row {
	return m.rows
}

func (m *Model) Editing() *timesheet.CellKey {
	return m.editing
}

func (m *Model) controller(i int) *timesheet.Controller {
	return timesheet.NewController(i, m.rows[i], m, m)
}

func (m *Model) selected() *timesheet.Controller {
	if m.SelectedRow < 0 || m.SelectedRow >= len(m.rows) {
		return nil
	}
	return m.controller(m.SelectedRow)
}

func (m *Model) selectedDay() (string, bool) {
	days := m.snap.Days
	i := m.SelectedCol - colFirstDay
	if i < 0 || i >= len(days) {
		return "", false
	}
	return days[i], true
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		return m, m.load()
	case msgLoaded:
		if msg.err != nil {
			logger.Error("reload failed", "error", msg.err)
			m.Err = msg.err
			return m, nil
		}
		// A reload started before a week change is stale.
		if !sameDays(msg.snap.Days, m.Days()) {
			return m, nil
		}
		m.applySnapshot(msg.snap)
		return m, nil
	case msgSaved:
		if msg.err != nil {
			logger.Warn("save failed", "error", msg.err)
			m.Err = msg.err
		} else if msg.status != "" {
			m.Status = msg.status
			m.Err = nil
		}
		return m, m.load()
	case tea.KeyMsg:
		_, cmd := m.handleKeyMsg(msg)
		return m, tea.Batch(cmd, m.flush())
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	if m.snap == nil {
		return "Loading..."
	}
	return m.mainView()
}

func (m *Model) load() tea.Cmd {
	store, userID, days := m.store, m.userID, m.Days()
	return func() tea.Msg {
		snap, err := timesheet.LoadSnapshot(store, userID, days)
		return msgLoaded{snap: snap, err: err}
	}
}

func (m *Model) flush() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := m.pending
	m.pending = nil
	return tea.Batch(cmds...)
}

// applySnapshot keeps the current row order, including rows that have no
// entries yet, and appends rows for tuples that only the new data contains.
func (m *Model) applySnapshot(snap *timesheet.Snapshot) {
	m.snap = snap

	seen := make(map[timesheet.Row]bool, len(m.rows))
	for _, r := range m.rows {
		if r.Complete() {
			seen[r] = true
		}
	}
	for _, r := range snap.Rows() {
		if !seen[r] {
			m.rows = append(m.rows, r)
			seen[r] = true
		}
	}

	if m.SelectedRow >= len(m.rows) {
		m.SelectedRow = len(m.rows) - 1
	}
	if m.SelectedRow < 0 {
		m.SelectedRow = 0
	}
	m.clampCol()

	// An approval that arrived while editing closes the editor.
	if m.editing != nil {
		i := m.rowFor(*m.editing)
		if i < 0 || snap.CellLocked(m.rows[i], m.editing.Date) {
			m.EndEdit()
		}
	}
}

// rowFor finds the row a cell key belongs to, or -1.
func (m *Model) rowFor(k timesheet.CellKey) int {
	for i, r := range m.rows {
		if r.ProjectID == k.ProjectID && r.RoleID == k.RoleID {
			return i
		}
	}
	return -1
}

func (m *Model) clampCol() {
	last := colFirstDay + len(m.snap.Days) - 1
	if m.SelectedCol > last {
		m.SelectedCol = last
	}
	if m.SelectedCol < 0 {
		m.SelectedCol = 0
	}
}

// UpdateRow implements timesheet.Events. An update that would duplicate
// another row is dropped.
func (m *Model) UpdateRow(index int, update timesheet.RowUpdate) {
	if index < 0 || index >= len(m.rows) {
		return
	}
	next := update.Apply(m.rows[index])
	if next.Complete() && m.HasRow(next, index) {
		return
	}
	m.rows[index] = next
}

// HasRow implements timesheet.RowChecker.
func (m *Model) HasRow(row timesheet.Row, except int) bool {
	for i, r := range m.rows {
		if i != except && r == row {
			return true
		}
	}
	return false
}

// checkUnlocked fails when the stored approval covering the cell is pending
// or approved, whatever the current snapshot says.
func checkUnlocked(store approval.Store, projectID, date, userID string) error {
	key, err := approval.KeyFor(projectID, date, userID)
	if err != nil {
		return err
	}
	a, err := store.FindApproval(key)
	if err != nil {
		return err
	}
	if a != nil && a.Status.Locks() {
		return timesheet.ErrCellLocked
	}
	return nil
}

// RemoveRow drops the row and deletes its entries for the displayed week.
func (m *Model) RemoveRow(index int) {
	if index < 0 || index >= len(m.rows) {
		return
	}
	row := m.rows[index]
	m.rows = append(m.rows[:index], m.rows[index+1:]...)
	if m.SelectedRow >= len(m.rows) && m.SelectedRow > 0 {
		m.SelectedRow--
	}
	if !row.Complete() {
		return
	}

	store, userID := m.store, m.userID
	entries := m.snap.RowEntries(row)
	m.pending = append(m.pending, func() tea.Msg {
		for _, e := range entries {
			if err := checkUnlocked(store, e.ProjectID, e.Date, userID); err != nil {
				if errors.Is(err, timesheet.ErrCellLocked) {
					err = timesheet.ErrRowLocked
				}
				return msgSaved{err: err}
			}
		}
		for _, e := range entries {
			if err := store.DeleteEntry(userID, e.Tuple(), e.Date); err != nil {
				return msgSaved{err: err}
			}
		}
		return msgSaved{status: "Row removed"}
	})
}

// CellChange implements timesheet.Events. The grid shows the new value only
// after the following reload.
func (m *Model) CellChange(date string, row timesheet.Row, hours *float64) {
	store, userID := m.store, m.userID
	m.pending = append(m.pending, func() tea.Msg {
		if err := checkUnlocked(store, row.ProjectID, date, userID); err != nil {
			return msgSaved{err: err}
		}
		if hours == nil {
			if err := store.DeleteEntry(userID, row.Tuple(), date); err != nil {
				return msgSaved{err: err}
			}
			return msgSaved{status: "Cleared " + date}
		}
		e := &timeentry.Entry{
			UserID:    userID,
			ClientID:  row.ClientID,
			ProjectID: row.ProjectID,
			RoleID:    row.RoleID,
			Date:      date,
			Hours:     *hours,
		}
		if err := store.UpsertEntry(e); err != nil {
			return msgSaved{err: err}
		}
		return msgSaved{status: fmt.Sprintf("Saved %s on %s", timesheet.FormatHours(*hours), date)}
	})
}

// StartEdit implements timesheet.Events. Only one cell is ever active.
func (m *Model) StartEdit(k timesheet.CellKey) {
	m.editing = &k
	m.input.Reset()
	if i := m.rowFor(k); i >= 0 {
		if e := m.snap.Entry(m.rows[i], k.Date); e != nil {
			m.input.SetValue(timesheet.FormatHours(e.Hours))
		}
	}
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) EndEdit() {
	m.editing = nil
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing != nil {
		return m.handleEditInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Up):
		if m.SelectedRow > 0 {
			m.SelectedRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.SelectedRow < len(m.rows)-1 {
			m.SelectedRow++
		}
	case key.Matches(msg, m.keys.Left):
		if m.SelectedCol > 0 {
			m.SelectedCol--
		}
	case key.Matches(msg, m.keys.Right):
		m.SelectedCol++
		m.clampCol()
	case key.Matches(msg, m.keys.Enter):
		m.report(m.activate())
	case key.Matches(msg, m.keys.Clear):
		m.report(m.clear())
	case key.Matches(msg, m.keys.AddRow):
		m.rows = append(m.rows, timesheet.Row{})
		m.SelectedRow = len(m.rows) - 1
		m.SelectedCol = colClient
	case key.Matches(msg, m.keys.Remove):
		if c := m.selected(); c != nil {
			m.report(c.Remove())
		}
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.Withdraw):
		return m, m.withdraw()
	case key.Matches(msg, m.keys.PrevWeek):
		return m, m.shiftWeek(-7)
	case key.Matches(msg, m.keys.NextWeek):
		return m, m.shiftWeek(7)
	case key.Matches(msg, m.keys.Today):
		m.weekOf = m.now()
		m.rows = nil
		return m, m.load()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()
	}
	return m, nil
}

func (m *Model) handleEditInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.EndEdit()
		return m, nil
	case "enter", "tab":
		i := m.rowFor(*m.editing)
		if i < 0 {
			m.EndEdit()
			return m, nil
		}
		c := m.controller(i)
		m.report(c.Commit(m.editing.Date, m.input.Value()))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) report(err error) {
	if err != nil {
		m.Err = err
		return
	}
	m.Err = nil
}

// activate edits the selected day cell or cycles the selected selector.
func (m *Model) activate() error {
	c := m.selected()
	if c == nil {
		return nil
	}
	if day, ok := m.selectedDay(); ok {
		return c.StartEdit(day)
	}

	var opts []timesheet.Option
	var current string
	var selectFn func(string) error
	row := c.Row()
	switch m.SelectedCol {
	case colClient:
		opts, current, selectFn = c.ClientOptions(), row.ClientID, c.SelectClient
	case colProject:
		opts, current, selectFn = c.ProjectOptions(), row.ProjectID, c.SelectProject
	case colRole:
		opts, current, selectFn = m.freeRoles(c), row.RoleID, c.SelectRole
	}
	next, ok := nextOption(opts, current)
	if !ok {
		if c.Locked() {
			return timesheet.ErrRowLocked
		}
		if m.SelectedCol == colRole && len(c.RoleOptions()) > 0 {
			return timesheet.ErrDuplicateRow
		}
		return errors.New("nothing to select")
	}
	return selectFn(next)
}

// freeRoles marks roles already used by another row with the same client
// and project as unselectable.
func (m *Model) freeRoles(c *timesheet.Controller) []timesheet.Option {
	opts := c.RoleOptions()
	for i, o := range opts {
		row := c.Row()
		row.RoleID = o.ID
		if m.HasRow(row, c.Index()) {
			opts[i].Selectable = false
		}
	}
	return opts
}

func (m *Model) clear() error {
	c := m.selected()
	if c == nil {
		return nil
	}
	if day, ok := m.selectedDay(); ok {
		return c.Commit(day, "")
	}
	switch m.SelectedCol {
	case colClient:
		return c.SelectClient("")
	case colProject:
		return c.SelectProject("")
	case colRole:
		return c.SelectRole("")
	}
	return nil
}

// nextOption returns the selectable option after current, wrapping around.
func nextOption(opts []timesheet.Option, current string) (string, bool) {
	start := -1
	for i, o := range opts {
		if o.ID == current {
			start = i
			break
		}
	}
	for n := 1; n <= len(opts); n++ {
		o := opts[(start+n+len(opts))%len(opts)]
		if o.Selectable && o.ID != current {
			return o.ID, true
		}
	}
	return "", false
}

func (m *Model) shiftWeek(days int) tea.Cmd {
	m.weekOf = m.weekOf.AddDate(0, 0, days)
	m.rows = nil
	m.EndEdit()
	return m.load()
}

func (m *Model) submit() tea.Cmd {
	c := m.selected()
	if c == nil {
		return nil
	}
	row := c.Row()
	if row.ProjectID == "" {
		m.Err = timesheet.ErrRowIncomplete
		return nil
	}

	req := approval.SubmitRequest{
		UserID:           m.userID,
		ProjectID:        row.ProjectID,
		ClientID:         row.ClientID,
		Day:              m.snap.Days[0],
		RequiresApproval: true,
	}
	if p, ok := m.snap.Project(row.ProjectID); ok {
		client, _ := m.snap.Client(row.ClientID)
		req.RequiresApproval = p.RequiresApproval
		req.ApproverEmail = p.ApproverFor(&client)
	}

	svc := m.approvals
	return func() tea.Msg {
		a, err := svc.Submit(req)
		if err != nil {
			return msgSaved{err: err}
		}
		logger.Info("week submitted", "key", a.Key.String(), "status", a.Status, "hours", a.TotalHours)
		return msgSaved{status: fmt.Sprintf("Week %s %s", a.Period.StartDate, a.Status)}
	}
}

func (m *Model) withdraw() tea.Cmd {
	c := m.selected()
	if c == nil {
		return nil
	}
	row := c.Row()
	if row.ProjectID == "" {
		m.Err = timesheet.ErrRowIncomplete
		return nil
	}
	k, err := approval.KeyFor(row.ProjectID, m.snap.Days[0], m.userID)
	if err != nil {
		m.Err = err
		return nil
	}

	svc := m.approvals
	return func() tea.Msg {
		a, err := svc.Withdraw(k)
		if err != nil {
			return msgSaved{err: err}
		}
		logger.Info("week withdrawn", "key", a.Key.String())
		return msgSaved{status: fmt.Sprintf("Week %s withdrawn", a.Period.StartDate)}
	}
}

func sameDays(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
