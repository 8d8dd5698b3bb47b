package timesheet

import (
	"timesheet_tui/internal/approval"
	"timesheet_tui/internal/timeentry"
)

// IsRowLocked reports whether any of the row's entries is covered by a
// pending or approved approval.
func IsRowLocked(rowEntries []timeentry.Entry, approvals []approval.Approval) bool {
	for _, e := range rowEntries {
		if a := FindApproval(approvals, e); a != nil && a.Status.Locks() {
			return true
		}
	}
	return false
}

// IsCellLocked reports whether the approval covering (projectID, date, userID)
// is pending or approved. It does not need an entry to exist on that date.
func IsCellLocked(approvals []approval.Approval, projectID, date, userID string) bool {
	if projectID == "" {
		return false
	}
	key, err := approval.KeyFor(projectID, date, userID)
	if err != nil {
		return false
	}
	for _, a := range approvals {
		if a.Key == key {
			return a.Status.Locks()
		}
	}
	return false
}
