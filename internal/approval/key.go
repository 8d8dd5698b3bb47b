package approval

import (
	"fmt"
	"strings"
)

// Key identifies the (project, period, user) scope an approval covers.
type Key struct {
	ProjectID string
	StartDate string
	EndDate   string
	UserID    string
}

// KeyFor derives the key of the approval that would cover a given project day for a user.
func KeyFor(projectID, day, userID string) (Key, error) {
	p, err := WeekPeriod(day)
	if err != nil {
		return Key{}, err
	}
	return Key{
		ProjectID: projectID,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		UserID:    userID,
	}, nil
}

func (k Key) Period() Period {
	return Period{StartDate: k.StartDate, EndDate: k.EndDate}
}

// String renders the persisted form {projectId}_{startDate}_{endDate}_{userId}.
func (k Key) String() string {
	return strings.Join([]string{k.ProjectID, k.StartDate, k.EndDate, k.UserID}, "_")
}

// ParseKey inverts String. Project and user ids may themselves contain
// underscores, so the two dates are located by their fixed width.
func ParseKey(s string) (Key, error) {
	const dateLen = len("2006-01-02")
	parts := strings.Split(s, "_")
	if len(parts) < 4 {
		return Key{}, fmt.Errorf("invalid approval key %q", s)
	}
	for i := 1; i+2 < len(parts); i++ {
		start, end := parts[i], parts[i+1]
		if len(start) != dateLen || len(end) != dateLen {
			continue
		}
		if _, err := WeekPeriod(start); err != nil {
			continue
		}
		if _, err := WeekPeriod(end); err != nil {
			continue
		}
		k := Key{
			ProjectID: strings.Join(parts[:i], "_"),
			StartDate: start,
			EndDate:   end,
			UserID:    strings.Join(parts[i+2:], "_"),
		}
		if k.ProjectID == "" || k.UserID == "" {
			break
		}
		return k, nil
	}
	return Key{}, fmt.Errorf("invalid approval key %q", s)
}
