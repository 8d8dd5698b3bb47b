package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"timesheet_tui/internal/timesheet"
)

var header = []string{"Client", "Project", "Role"}

// Week builds a workbook with one sheet for the snapshot's week: one line per
// row, per-day hours, the row total and a lock marker, then a totals line.
// Hours are rounded to hundredths the same way the grid rounds them.
func Week(snap *timesheet.Snapshot, rows []timesheet.Row) (*excelize.File, error) {
	if len(snap.Days) == 0 {
		return nil, fmt.Errorf("no days to export")
	}
	f := excelize.NewFile()
	sheet := "Week " + snap.Days[0]
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	head := make([]interface{}, 0, len(header)+len(snap.Days)+2)
	for _, h := range header {
		head = append(head, h)
	}
	for _, d := range snap.Days {
		head = append(head, d)
	}
	head = append(head, "Total", "Locked")
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		f.Close()
		return nil, err
	}

	dayTotals := make([]int64, len(snap.Days))
	var grand int64
	line := 2
	for _, row := range rows {
		if !row.Complete() {
			continue
		}
		values := []interface{}{snap.ClientName(row.ClientID), snap.ProjectName(row.ProjectID), snap.RoleName(row.RoleID)}
		for i, d := range snap.Days {
			e := snap.Entry(row, d)
			if e == nil {
				values = append(values, nil)
				continue
			}
			c := timesheet.Cents(e.Hours)
			dayTotals[i] += c
			values = append(values, hours(c))
		}
		total := snap.Total(row)
		grand += total
		locked := ""
		if snap.RowLocked(row) {
			locked = "yes"
		}
		values = append(values, hours(total), locked)

		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			f.Close()
			return nil, err
		}
		line++
	}

	totals := []interface{}{"Total", "", ""}
	for _, c := range dayTotals {
		totals = append(totals, hours(c))
	}
	totals = append(totals, hours(grand))
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(sheet, cell, &totals); err != nil {
		f.Close()
		return nil, err
	}

	if err := format(f, sheet, len(head), line); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func format(f *excelize.File, sheet string, cols, lastLine int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	// built-in number format 2 is "0.00"
	number, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", lastLine), fmt.Sprintf("%s%d", lastCol, lastLine), bold); err != nil {
		return err
	}
	hoursEnd, err := excelize.ColumnNumberToName(cols - 1)
	if err != nil {
		return err
	}
	if lastLine > 2 {
		if err := f.SetCellStyle(sheet, "D2", fmt.Sprintf("%s%d", hoursEnd, lastLine-1), number); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "C", 24)
}

// WriteWeek streams the workbook for the week to w.
func WriteWeek(w io.Writer, snap *timesheet.Snapshot, rows []timesheet.Row) error {
	f, err := Week(snap, rows)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// SaveWeek writes the workbook for the week to path.
func SaveWeek(path string, snap *timesheet.Snapshot, rows []timesheet.Row) error {
	f, err := Week(snap, rows)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func hours(cents int64) float64 {
	return float64(cents) / 100
}
