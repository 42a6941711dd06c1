package api

// --- Team ---

// Team is one record of the team-select payload.
//
// ParentID is nil only for the root team. ParentName is informational.
type Team struct {
	ID         int64   `json:"team_id"`
	Name       string  `json:"team_name"`
	ParentID   *int64  `json:"parent_id"`
	ParentName *string `json:"parent_name"`
}

// IsRoot reports whether the team has no parent.
func (t Team) IsRoot() bool {
	return t.ParentID == nil
}

// --- Person Roles ---

// PersonRole is a role option for a person, as offered to page authors.
type PersonRole struct {
	PK    int64  `json:"pk"`
	Label string `json:"label"`
}

type personRolesResponse struct {
	PersonRoles []PersonRole `json:"person_roles"`
}
