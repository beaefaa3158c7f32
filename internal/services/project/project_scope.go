package project

import "fmt"

// Scope restricts project reads to the rows the caller may see.
// Designers only see projects assigned to them, clients only projects
// they created, project managers everything.
type Scope struct {
	Role   string
	UserID string
}

// Clause renders the scope as a SQL condition starting at the given
// positional argument number. An unrestricted scope yields an empty
// condition and no arguments.
func (s Scope) Clause(argPos int) (string, []interface{}) {
	switch s.Role {
	case "designer":
		return fmt.Sprintf("p.assigned_to = $%d", argPos), []interface{}{s.UserID}
	case "client":
		return fmt.Sprintf("p.created_by = $%d", argPos), []interface{}{s.UserID}
	default:
		return "", nil
	}
}
