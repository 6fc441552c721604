package authroles

import (
	"testing"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/stretchr/testify/assert"
)

func TestStaticRoleMapper_Map(t *testing.T) {
	mapper := StaticRoleMapper{
		AdminGroup:         "portal-admins",
		PlacementCellGroup: "placement-cell",
		StudentGroup:       "students",
	}

	tests := []struct {
		name   string
		groups []string
		want   []domainauth.Role
	}{
		{
			name:   "single group maps to single role",
			groups: []string{"students"},
			want:   []domainauth.Role{domainauth.RoleStudent},
		},
		{
			name:   "multiple groups map to union",
			groups: []string{"students", "placement-cell"},
			want:   []domainauth.Role{domainauth.RolePlacementCell, domainauth.RoleStudent},
		},
		{
			name:   "admin group grants admin",
			groups: []string{"portal-admins", "unrelated-group"},
			want:   []domainauth.Role{domainauth.RoleAdmin},
		},
		{
			name:   "unknown groups grant nothing",
			groups: []string{"finance", "hr"},
			want:   nil,
		},
		{
			name:   "duplicate groups deduplicate",
			groups: []string{"students", "students"},
			want:   []domainauth.Role{domainauth.RoleStudent},
		},
		{
			name:   "empty input",
			groups: nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapper.Map(tt.groups)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestStaticRoleMapper_UnconfiguredGroupsMatchNothing(t *testing.T) {
	mapper := StaticRoleMapper{StudentGroup: "students"}

	// An empty configured group name must not match empty strings in input.
	assert.Empty(t, mapper.Map([]string{""}))
	assert.Equal(t, []domainauth.Role{domainauth.RoleStudent}, mapper.Map([]string{"students"}))
}
