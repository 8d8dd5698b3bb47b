package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"timesheet_tui/internal/approval"
	"timesheet_tui/internal/constants"
	"timesheet_tui/internal/timesheet"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	cellSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Italic(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	totalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("69")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	approvalStyles = map[approval.Status]lipgloss.Style{
		approval.StatusPending:   lockedStyle,
		approval.StatusApproved:  statusStyle,
		approval.StatusRejected:  errorStyle,
		approval.StatusWithdrawn: inactiveStyle,
	}
)

const (
	selectorWidth = 16
	dayWidth      = 8
	totalWidth    = 8
	statusWidth   = 11
)

func fit(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s
}

func (m *Model) mainView() string {
	var sb strings.Builder

	days := m.snap.Days
	title := fmt.Sprintf("Timesheet  %s to %s", days[0], days[len(days)-1])
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	var table strings.Builder
	table.WriteString(m.headerView())
	table.WriteString("\n")
	if len(m.rows) == 0 {
		table.WriteString(inactiveStyle.Render("No rows this week. Press 'a' to add one."))
		table.WriteString("\n")
	}
	for i := range m.rows {
		table.WriteString(m.rowView(i))
		table.WriteString("\n")
	}
	table.WriteString(m.totalsView())
	sb.WriteString(boxStyle.Render(table.String()))
	sb.WriteString("\n")

	if m.Err != nil {
		sb.WriteString(errorStyle.Render("Error: " + m.Err.Error()))
	} else if m.Status != "" {
		sb.WriteString(statusStyle.Render(m.Status))
	}
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))

	return sb.String()
}

func (m *Model) headerView() string {
	cols := []string{
		cellStyle.Width(selectorWidth).Render("Client"),
		cellStyle.Width(selectorWidth).Render("Project"),
		cellStyle.Width(selectorWidth).Render("Role"),
	}
	for _, d := range m.snap.Days {
		label := d
		if t, err := time.Parse(constants.DateFormat, d); err == nil {
			label = t.Format("Mon 02")
		}
		cols = append(cols, cellStyle.Width(dayWidth).Align(lipgloss.Right).Render(label))
	}
	cols = append(cols,
		cellStyle.Width(totalWidth).Align(lipgloss.Right).Render("Total"),
		cellStyle.Width(statusWidth).Render("Status"),
	)
	return headerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
}

func (m *Model) rowView(i int) string {
	c := m.controller(i)
	row := c.Row()
	active := i == m.SelectedRow

	cols := []string{
		m.selectorView(c.ClientOptions(), row.ClientID, "select client", c.ClientDisabled(), active && m.SelectedCol == colClient),
		m.selectorView(c.ProjectOptions(), row.ProjectID, "select project", c.ProjectDisabled(), active && m.SelectedCol == colProject),
		m.selectorView(c.RoleOptions(), row.RoleID, "select role", c.RoleDisabled(), active && m.SelectedCol == colRole),
	}

	for j, cell := range c.Cells(m.editing) {
		selected := active && m.SelectedCol == colFirstDay+j
		cols = append(cols, m.cellView(cell, selected))
	}

	total := cellStyle.Width(totalWidth).Align(lipgloss.Right).Inherit(totalStyle)
	cols = append(cols, total.Render(c.TotalText()))
	cols = append(cols, m.approvalView(row))

	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m *Model) selectorView(opts []timesheet.Option, current, placeholder string, disabled, selected bool) string {
	style := cellStyle
	if selected {
		style = cellSelectedStyle
	}
	style = style.Width(selectorWidth)

	if current == "" {
		return style.Inherit(inactiveStyle).Render(fit("‹"+placeholder+"›", selectorWidth-2))
	}

	label := current
	resolved := false
	for _, o := range opts {
		if o.ID == current {
			label = o.Label
			resolved = o.Selectable
			break
		}
	}
	text := fit(label, selectorWidth-2)
	switch {
	case !resolved:
		return style.Inherit(missingStyle).Render(text)
	case disabled:
		return style.Inherit(inactiveStyle).Render(text)
	}
	return style.Render(text)
}

func (m *Model) cellView(cell timesheet.Cell, selected bool) string {
	style := cellStyle
	if selected {
		style = cellSelectedStyle
	}
	style = style.Width(dayWidth).Align(lipgloss.Right)

	if cell.Editing {
		return style.Inherit(inputStyle).Render(m.input.View())
	}

	text := cell.Text
	if text == "" {
		text = "·"
	}
	switch {
	case cell.Locked:
		return style.Inherit(lockedStyle).Render(text)
	case !cell.Editable:
		return style.Inherit(inactiveStyle).Render(text)
	}
	return style.Render(text)
}

func (m *Model) approvalView(row timesheet.Row) string {
	style := cellStyle.Width(statusWidth)
	if row.ProjectID == "" {
		return style.Render("")
	}
	a := m.snap.ApprovalAt(row.ProjectID, m.snap.Days[0])
	if a == nil {
		return style.Inherit(inactiveStyle).Render(string(approval.StatusUnsubmitted))
	}
	if s, ok := approvalStyles[a.Status]; ok {
		style = style.Inherit(s)
	}
	return style.Render(string(a.Status))
}

// totalsView sums every row per day. Each cell is rounded before summing, the
// same way row totals are.
func (m *Model) totalsView() string {
	cols := []string{
		cellStyle.Width(selectorWidth * 3).Render(totalStyle.Render("Total")),
	}
	var grand int64
	for _, d := range m.snap.Days {
		var day int64
		for _, row := range m.rows {
			if e := m.snap.Entry(row, d); e != nil {
				day += timesheet.Cents(e.Hours)
			}
		}
		grand += day
		cols = append(cols, cellStyle.Width(dayWidth).Align(lipgloss.Right).Render(timesheet.FormatCents(day)))
	}
	cols = append(cols, cellStyle.Width(totalWidth).Align(lipgloss.Right).Inherit(totalStyle).Render(timesheet.FormatCents(grand)))
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}
