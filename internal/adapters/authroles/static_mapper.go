package authroles

import (
	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
)

// StaticRoleMapper maps IdP group names to portal roles by simple string
// membership. Each configured group grants one role; a user in several
// groups receives the union. Only used in oauth mode; the credentials
// provider reads roles from the users table instead.
type StaticRoleMapper struct {
	AdminGroup         string
	PlacementCellGroup string
	StudentGroup       string
}

func (m StaticRoleMapper) Map(groups []string) []domainauth.Role {
	var roles []domainauth.Role
	for _, g := range groups {
		switch {
		case m.AdminGroup != "" && g == m.AdminGroup:
			roles = append(roles, domainauth.RoleAdmin)
		case m.PlacementCellGroup != "" && g == m.PlacementCellGroup:
			roles = append(roles, domainauth.RolePlacementCell)
		case m.StudentGroup != "" && g == m.StudentGroup:
			roles = append(roles, domainauth.RoleStudent)
		}
	}
	return domainauth.NormalizeRoles(roles)
}
