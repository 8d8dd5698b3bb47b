package timesheet

import (
	"time"

	"timesheet_tui/internal/approval"
	"timesheet_tui/internal/constants"
)

// WeekDays returns the displayed days of the week containing t, Monday first.
// Saturday and Sunday are included only when weekend is set.
func WeekDays(t time.Time, weekend bool) []string {
	monday, _ := approval.WeekRange(t)
	n := 5
	if weekend {
		n = 7
	}
	days := make([]string, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, monday.AddDate(0, 0, i).Format(constants.DateFormat))
	}
	return days
}
