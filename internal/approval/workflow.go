package approval

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("invalid approval transition")
	ErrNothingToSubmit   = errors.New("no hours recorded for the period")
	ErrReasonRequired    = errors.New("a rejection reason is required")
	ErrNotFound          = errors.New("approval not found")
)

// Store is the persistence the workflow needs.
type Store interface {
	// FindApproval returns nil when no approval exists for the key.
	FindApproval(key Key) (*Approval, error)
	SaveApproval(a Approval) error
	SumHours(userID, projectID string, period Period) (float64, error)
}

// SubmitRequest describes the week a user sends for approval.
type SubmitRequest struct {
	UserID           string
	ProjectID        string
	ClientID         string
	Day              string // any day inside the period
	ApproverEmail    string
	RequiresApproval bool
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

var transitions = map[Status][]Status{
	StatusUnsubmitted: {StatusPending, StatusApproved},
	StatusPending:     {StatusApproved, StatusRejected, StatusWithdrawn},
	StatusApproved:    {StatusWithdrawn},
	StatusRejected:    {StatusPending, StatusApproved},
	StatusWithdrawn:   {StatusPending, StatusApproved},
}

// CanTransition reports whether the workflow allows moving from one status to another.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Submit creates or resubmits the approval covering req.Day. Projects that do
// not require approval are approved immediately.
func (s *Service) Submit(req SubmitRequest) (Approval, error) {
	key, err := KeyFor(req.ProjectID, req.Day, req.UserID)
	if err != nil {
		return Approval{}, err
	}

	total, err := s.store.SumHours(req.UserID, req.ProjectID, key.Period())
	if err != nil {
		return Approval{}, fmt.Errorf("summing hours: %w", err)
	}
	if total <= 0 {
		return Approval{}, ErrNothingToSubmit
	}

	existing, err := s.store.FindApproval(key)
	if err != nil {
		return Approval{}, err
	}

	a := Approval{
		ID:     uuid.New().String(),
		Key:    key,
		Status: StatusUnsubmitted,
	}
	if existing != nil {
		a = *existing
	}

	target := StatusPending
	if !req.RequiresApproval {
		target = StatusApproved
	}
	if !CanTransition(a.Status, target) {
		return Approval{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, target)
	}

	now := s.now()
	a.Status = target
	a.SubmittedAt = now
	a.ApprovedAt = nil
	a.RejectedAt = nil
	a.WithdrawnAt = nil
	a.RejectionReason = ""
	if target == StatusApproved {
		a.ApprovedAt = &now
	}
	a.ProjectID = req.ProjectID
	a.ClientID = req.ClientID
	a.Period = key.Period()
	a.TotalHours = total
	a.UserID = req.UserID
	a.ApproverEmail = req.ApproverEmail

	if err := s.store.SaveApproval(a); err != nil {
		return Approval{}, fmt.Errorf("saving approval: %w", err)
	}
	return a, nil
}

func (s *Service) Approve(key Key) (Approval, error) {
	return s.transition(key, StatusApproved, "")
}

func (s *Service) Reject(key Key, reason string) (Approval, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Approval{}, ErrReasonRequired
	}
	return s.transition(key, StatusRejected, reason)
}

// Withdraw releases a pending or approved week so its entries become editable again.
func (s *Service) Withdraw(key Key) (Approval, error) {
	return s.transition(key, StatusWithdrawn, "")
}

func (s *Service) transition(key Key, to Status, reason string) (Approval, error) {
	a, err := s.store.FindApproval(key)
	if err != nil {
		return Approval{}, err
	}
	if a == nil {
		return Approval{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if !CanTransition(a.Status, to) {
		return Approval{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, to)
	}

	now := s.now()
	a.Status = to
	switch to {
	case StatusApproved:
		a.ApprovedAt = &now
	case StatusRejected:
		a.RejectedAt = &now
		a.RejectionReason = reason
	case StatusWithdrawn:
		a.WithdrawnAt = &now
	}

	if err := s.store.SaveApproval(*a); err != nil {
		return Approval{}, fmt.Errorf("saving approval: %w", err)
	}
	return *a, nil
}
