package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	for _, r := range ValidRoles {
		assert.True(t, IsValidRole(string(r)), string(r))
	}

	assert.False(t, IsValidRole("admin"))
	assert.False(t, IsValidRole(""))
	assert.False(t, IsValidRole("Superuser"))
}

func TestInvalidRoleMessage(t *testing.T) {
	assert.Equal(t, "Invalid role. Valid roles are: client, designer, project_manager, superuser", ErrInvalidRole.Error())
}

func TestFullName(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		want  string
	}{
		{"both names", "Ada", "Lovelace", "Ada Lovelace"},
		{"first only", "Ada", "", "Ada"},
		{"last only", "", "Lovelace", "Lovelace"},
		{"neither", "", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &Profile{FirstName: tc.first, LastName: tc.last}
			assert.Equal(t, tc.want, p.FullName())
		})
	}
}
