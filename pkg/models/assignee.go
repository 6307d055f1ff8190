package models

import "fmt"

// Assignee identifies the person an approval step resolves to.
type Assignee struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Unassigned returns the sentinel assignee emitted when no resolution path produced
// a person. It has the same shape as a real assignee so rendering code handles one
// case, not an optional.
func Unassigned() Assignee {
	return Assignee{DisplayName: "(Unassigned)"}
}

// NoRoleAssigned returns the sentinel emitted when a project-role step finds no
// team member holding the role.
func NoRoleAssigned(role string) Assignee {
	return Assignee{DisplayName: fmt.Sprintf("(No %s assigned)", role)}
}

// IsPlaceholder reports whether the assignee is one of the sentinel values rather
// than a real person.
func (a Assignee) IsPlaceholder() bool {
	return a.UserID == "" && a.Email == ""
}
