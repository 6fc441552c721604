package auth

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Normalize(t *testing.T) {
	assert.Equal(t, RoleAdmin, Role("Admin").Normalize())
	assert.Equal(t, RolePlacementCell, Role("Student Placement Cell").Normalize())
	assert.Equal(t, RoleStudent, Role("  STUDENT ").Normalize())
}

func TestRole_Equal_CaseInsensitive(t *testing.T) {
	assert.True(t, Role("ADMIN").Equal(RoleAdmin))
	assert.True(t, Role("Student Placement Cell").Equal(RolePlacementCell))
	assert.False(t, Role("student").Equal(RoleAdmin))
}

func TestResolveActiveRole_RepairPriority(t *testing.T) {
	tests := []struct {
		name    string
		granted []Role
		want    Role
	}{
		{"admin wins over student", []Role{RoleStudent, RoleAdmin}, RoleAdmin},
		{"cell wins over student", []Role{RolePlacementCell, RoleStudent}, RolePlacementCell},
		{"student alone", []Role{RoleStudent}, RoleStudent},
		{"admin wins over all", []Role{RoleStudent, RolePlacementCell, RoleAdmin}, RoleAdmin},
		{"unknown role falls back to first", []Role{"registrar"}, Role("registrar")},
		{"empty set", nil, Role("")},
		{"mixed case input", []Role{"Student", "ADMIN"}, RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveActiveRole(tt.granted))
		})
	}
}

// The resolved active role must always be an element of the granted set for
// any non-empty input. Exercised over randomly generated role sets.
func TestResolveActiveRole_AlwaysMember(t *testing.T) {
	universe := []Role{RoleAdmin, RolePlacementCell, RoleStudent, "registrar", "alumni"}
	rng := rand.New(rand.NewSource(42))

	for range 200 {
		n := rng.Intn(len(universe)) + 1
		granted := make([]Role, 0, n)
		for _, idx := range rng.Perm(len(universe))[:n] {
			granted = append(granted, universe[idx])
		}

		active := ResolveActiveRole(granted)
		require.NotEmpty(t, active)
		assert.True(t, ContainsRole(granted, active),
			"active role %q not in granted set %v", active, granted)
	}
}

func TestSwitchableRoles_PrivilegeFilter(t *testing.T) {
	all := []Role{RoleAdmin, RolePlacementCell, RoleStudent}

	tests := []struct {
		name   string
		active Role
		want   []Role
	}{
		{"admin can reach all three", RoleAdmin, []Role{RoleAdmin, RolePlacementCell, RoleStudent}},
		{"cell cannot reach admin", RolePlacementCell, []Role{RolePlacementCell, RoleStudent}},
		{"student only student", RoleStudent, []Role{RoleStudent}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SwitchableRoles(tt.active, all))
		})
	}
}

func TestSwitchableRoles_DropsUnknownRoles(t *testing.T) {
	got := SwitchableRoles(RoleAdmin, []Role{RoleAdmin, "registrar"})
	assert.Equal(t, []Role{RoleAdmin}, got)
}

func TestNormalizeRoles_DedupesAndCanonicalizes(t *testing.T) {
	got := NormalizeRoles([]Role{"Admin", "admin", " Student ", ""})
	assert.Equal(t, []Role{RoleAdmin, RoleStudent}, got)
}

func TestPrivilegeLevel(t *testing.T) {
	assert.Equal(t, 3, PrivilegeLevel(RoleAdmin))
	assert.Equal(t, 2, PrivilegeLevel("Student Placement Cell"))
	assert.Equal(t, 1, PrivilegeLevel(RoleStudent))
	assert.Equal(t, 0, PrivilegeLevel("registrar"))
}
