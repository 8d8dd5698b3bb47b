package leave

import (
	"errors"
	"fmt"
	"time"

	"timesheet_tui/internal/constants"
)

type Type string

const (
	TypeAnnual   Type = "annual"
	TypeSick     Type = "sick"
	TypePersonal Type = "personal"
	TypeUnpaid   Type = "unpaid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var ErrNotPending = errors.New("leave request is no longer pending")

// Request is a user's request for time off.
type Request struct {
	ID        string
	UserID    string
	Type      Type
	StartDate string
	EndDate   string
	Hours     float64
	Note      string
	Status    Status
	CreatedAt time.Time
}

func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeAnnual, TypeSick, TypePersonal, TypeUnpaid:
		return t, nil
	}
	return "", fmt.Errorf("unknown leave type %q (annual|sick|personal|unpaid)", s)
}

func (r Request) Validate() error {
	if r.UserID == "" {
		return errors.New("leave request requires a user")
	}
	if _, err := ParseType(string(r.Type)); err != nil {
		return err
	}
	start, err := time.Parse(constants.DateFormat, r.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", r.StartDate, err)
	}
	end, err := time.Parse(constants.DateFormat, r.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", r.EndDate, err)
	}
	if end.Before(start) {
		return errors.New("leave ends before it starts")
	}
	if r.Hours <= 0 {
		return errors.New("leave hours must be greater than zero")
	}
	return nil
}

// Decide moves a pending request to approved or rejected.
func (r *Request) Decide(approve bool) error {
	if r.Status != StatusPending {
		return ErrNotPending
	}
	if approve {
		r.Status = StatusApproved
	} else {
		r.Status = StatusRejected
	}
	return nil
}
