package timesheet

import (
	"timesheet_tui/internal/approval"
	"timesheet_tui/internal/timeentry"
)

// FindEntry returns the entry recorded for the row on date. All three ids must
// match: another role under the same client and project is another row.
// Duplicates are an upstream integrity problem; the first one wins.
func FindEntry(entries []timeentry.Entry, row Row, date string) *timeentry.Entry {
	for i := range entries {
		e := &entries[i]
		if e.Date == date && e.Tuple() == row.Tuple() {
			return e
		}
	}
	return nil
}

// RowEntries returns the entries logged against a complete row.
func RowEntries(entries []timeentry.Entry, row Row) []timeentry.Entry {
	if !row.Complete() {
		return nil
	}
	var matched []timeentry.Entry
	for _, e := range entries {
		if e.Tuple() == row.Tuple() {
			matched = append(matched, e)
		}
	}
	return matched
}

// FindApproval returns the approval whose key equals the key recomputed from
// the entry's project, date and user.
func FindApproval(approvals []approval.Approval, entry timeentry.Entry) *approval.Approval {
	key, err := approval.KeyFor(entry.ProjectID, entry.Date, entry.UserID)
	if err != nil {
		return nil
	}
	for i := range approvals {
		if approvals[i].Key == key {
			return &approvals[i]
		}
	}
	return nil
}
