package timesheet

import "timesheet_tui/internal/project"

// AvailableClients returns every distinct client id in the assignments, in
// order of first appearance.
func AvailableClients(assignments []project.Assignment) []string {
	return distinct(assignments, func(a project.Assignment) (string, bool) {
		return a.ClientID, true
	})
}

// AvailableProjects returns the distinct project ids assigned under clientID.
// An unselected client yields no projects.
func AvailableProjects(assignments []project.Assignment, clientID string) []string {
	if clientID == "" {
		return nil
	}
	return distinct(assignments, func(a project.Assignment) (string, bool) {
		return a.ProjectID, a.ClientID == clientID
	})
}

// AvailableRoles returns the distinct role ids assigned on projectID.
// An unselected project yields no roles.
func AvailableRoles(assignments []project.Assignment, projectID string) []string {
	if projectID == "" {
		return nil
	}
	return distinct(assignments, func(a project.Assignment) (string, bool) {
		return a.RoleID, a.ProjectID == projectID
	})
}

func distinct(assignments []project.Assignment, pick func(project.Assignment) (string, bool)) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, a := range assignments {
		id, ok := pick(a)
		if !ok || id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// IsAssigned reports whether the assignments allow logging time on row.
func IsAssigned(assignments []project.Assignment, row Row) bool {
	for _, a := range assignments {
		if a.ClientID == row.ClientID && a.ProjectID == row.ProjectID && a.RoleID == row.RoleID {
			return true
		}
	}
	return false
}
