package auth

// Package auth contains domain-level types for authentication, sessions,
// and role-based authorization. It is pure and free of framework/adapter
// concerns.

import "strings"

// Role represents an application authorization role.
// Role comparison is case-insensitive everywhere; the constants below are
// the canonical lowercase forms used for persistence.
type Role string

const (
	RoleAdmin         Role = "admin"
	RolePlacementCell Role = "student placement cell"
	RoleStudent       Role = "student"
)

// Normalize returns the canonical lowercase form of the role.
func (r Role) Normalize() Role {
	return Role(strings.ToLower(strings.TrimSpace(string(r))))
}

// Equal reports whether two roles match, ignoring case and surrounding space.
func (r Role) Equal(other Role) bool {
	return r.Normalize() == other.Normalize()
}

// Known reports whether the role is one of the closed label set.
func (r Role) Known() bool {
	switch r.Normalize() {
	case RoleAdmin, RolePlacementCell, RoleStudent:
		return true
	}
	return false
}

// privilegeLevels defines the fixed privilege order used only by the role
// switch flow: student(1) < student placement cell(2) < admin(3).
// This order is a presentation-layer convenience and is never consulted for
// access-control decisions; those use active-role matching only.
var privilegeLevels = map[Role]int{
	RoleStudent:       1,
	RolePlacementCell: 2,
	RoleAdmin:         3,
}

// PrivilegeLevel returns the privilege rank of a role, or 0 for unknown roles.
func PrivilegeLevel(r Role) int {
	return privilegeLevels[r.Normalize()]
}

// ContainsRole reports whether the role set contains the given role,
// case-insensitively.
func ContainsRole(roles []Role, r Role) bool {
	for _, candidate := range roles {
		if candidate.Equal(r) {
			return true
		}
	}
	return false
}

// ResolveActiveRole repairs a missing or invalid active role deterministically:
// prefer admin, then student placement cell, then student, then the first
// granted role as an arbitrary-but-stable fallback. Returns the empty role
// only when the granted set is empty.
func ResolveActiveRole(granted []Role) Role {
	for _, preferred := range []Role{RoleAdmin, RolePlacementCell, RoleStudent} {
		if ContainsRole(granted, preferred) {
			return preferred
		}
	}
	if len(granted) > 0 {
		return granted[0].Normalize()
	}
	return ""
}

// SwitchableRoles filters the granted set down to roles the current active
// role may switch to: those with privilege less than or equal to the active
// role's. This is a UX filter for the role switcher dropdown, not a security
// boundary; the server revalidates membership on every switch.
func SwitchableRoles(active Role, granted []Role) []Role {
	currentLevel := PrivilegeLevel(active)
	out := make([]Role, 0, len(granted))
	for _, r := range granted {
		if PrivilegeLevel(r) <= currentLevel && PrivilegeLevel(r) > 0 {
			out = append(out, r.Normalize())
		}
	}
	return out
}

// NormalizeRoles returns a copy of the role set with every element in
// canonical form, preserving order and dropping duplicates.
func NormalizeRoles(roles []Role) []Role {
	seen := make(map[Role]struct{}, len(roles))
	out := make([]Role, 0, len(roles))
	for _, r := range roles {
		n := r.Normalize()
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
