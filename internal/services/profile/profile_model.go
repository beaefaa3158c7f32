package profile

import "time"

type Role string

const (
	RoleClient         Role = "client"
	RoleDesigner       Role = "designer"
	RoleProjectManager Role = "project_manager"
	RoleSuperuser      Role = "superuser"
)

// ValidRoles is the closed set of roles the application knows about,
// in the order they are reported in error messages.
var ValidRoles = []Role{RoleClient, RoleDesigner, RoleProjectManager, RoleSuperuser}

func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if string(r) == role {
			return true
		}
	}
	return false
}

// Profile is the application-level user record. The `role_project` name
// is kept from the original schema; clients depend on it.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Role      Role      `db:"role_project" json:"role_project"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
