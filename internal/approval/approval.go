package approval

import (
	"fmt"
	"time"

	"timesheet_tui/internal/constants"
)

type Status string

const (
	StatusUnsubmitted Status = "unsubmitted"
	StatusPending     Status = "pending"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusWithdrawn   Status = "withdrawn"
)

// Locks reports whether entries covered by an approval in this status are read-only.
func (s Status) Locks() bool {
	return s == StatusPending || s == StatusApproved
}

func (s Status) Valid() bool {
	switch s {
	case StatusUnsubmitted, StatusPending, StatusApproved, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// Period is an inclusive range of calendar days in DateFormat.
type Period struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Contains compares ISO days lexically, which matches calendar order.
func (p Period) Contains(day string) bool {
	return day >= p.StartDate && day <= p.EndDate
}

// Days lists every calendar day in the period.
func (p Period) Days() ([]string, error) {
	start, err := time.Parse(constants.DateFormat, p.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid period start %q: %w", p.StartDate, err)
	}
	end, err := time.Parse(constants.DateFormat, p.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid period end %q: %w", p.EndDate, err)
	}
	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(constants.DateFormat))
	}
	return days, nil
}

// WeekPeriod returns the Monday-to-Sunday week containing day. Approvals are
// always submitted for whole weeks, so this is also the approval period scheme.
func WeekPeriod(day string) (Period, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return Period{}, fmt.Errorf("invalid date %q: %w", day, err)
	}
	monday, sunday := WeekRange(t)
	return Period{
		StartDate: monday.Format(constants.DateFormat),
		EndDate:   sunday.Format(constants.DateFormat),
	}, nil
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	return monday, monday.AddDate(0, 0, 6)
}

// Approval is a submission of one user's hours on one project for one period.
type Approval struct {
	ID              string
	Key             Key
	Status          Status
	SubmittedAt     time.Time
	ApprovedAt      *time.Time
	RejectedAt      *time.Time
	WithdrawnAt     *time.Time
	RejectionReason string
	ProjectID       string
	ClientID        string
	Period          Period
	TotalHours      float64
	UserID          string
	ApproverEmail   string
}
