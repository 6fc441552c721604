package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	authedStudent := Snapshot{Authenticated: true, ActiveRole: RoleStudent, State: StateStable}
	authedAdmin := Snapshot{Authenticated: true, ActiveRole: RoleAdmin, State: StateStable}

	tests := []struct {
		name string
		req  Requirement
		snap Snapshot
		want Decision
	}{
		{
			name: "no auth on protected route",
			req:  RequireAnyAuthenticated(),
			snap: Snapshot{},
			want: DecisionDenyNoAuth,
		},
		{
			name: "any authenticated user passes empty role set",
			req:  RequireAnyAuthenticated(),
			snap: authedStudent,
			want: DecisionAllow,
		},
		{
			name: "wrong active role",
			req:  RequireActiveRole(RoleAdmin, RolePlacementCell),
			snap: authedStudent,
			want: DecisionDenyWrongRole,
		},
		{
			name: "matching active role",
			req:  RequireActiveRole(RoleAdmin, RolePlacementCell),
			snap: authedAdmin,
			want: DecisionAllow,
		},
		{
			name: "role match is case-insensitive",
			req:  RequireActiveRole("Admin"),
			snap: Snapshot{Authenticated: true, ActiveRole: "ADMIN"},
			want: DecisionAllow,
		},
		{
			name: "public route allows anonymous",
			req:  Requirement{},
			snap: Snapshot{},
			want: DecisionAllow,
		},
		{
			name: "role requirement implies auth",
			req:  Requirement{Roles: []Role{RoleStudent}},
			snap: Snapshot{},
			want: DecisionDenyNoAuth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.req, tt.snap))
		})
	}
}

// Access control matches the ACTIVE role only; a granted-but-inactive role
// must not satisfy a route requirement.
func TestAuthorize_ActiveRoleOnly(t *testing.T) {
	sess := NewSession("s-1", testIdentity(RoleAdmin, RoleStudent), RoleStudent)

	decision := Authorize(RequireActiveRole(RoleAdmin), sess.Snap())
	assert.Equal(t, DecisionDenyWrongRole, decision)
}

func TestRequirement_DeniedMessage(t *testing.T) {
	req := RequireActiveRole(RoleAdmin, RolePlacementCell)
	assert.Equal(t,
		"Access denied. This page requires admin or student placement cell role.",
		req.DeniedMessage())

	single := RequireActiveRole(RoleStudent)
	assert.Equal(t, "Access denied. This page requires student role.", single.DeniedMessage())
}

func TestLoginRequiredMessage(t *testing.T) {
	assert.Equal(t, "Please login to continue", LoginRequiredMessage)
}
