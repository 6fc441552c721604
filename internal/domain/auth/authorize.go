package auth

import "strings"

// Requirement describes the authorization attached to a navigable route: a
// set of acceptable roles (empty means any authenticated user) and whether
// authentication is required at all.
type Requirement struct {
	Roles       []Role
	RequireAuth bool
}

// RequireAnyAuthenticated is the requirement for routes that only need a
// logged-in user, regardless of role.
func RequireAnyAuthenticated() Requirement {
	return Requirement{RequireAuth: true}
}

// RequireActiveRole builds a requirement satisfied only when the ACTIVE role
// matches one of the given roles. Granted-but-inactive roles never satisfy a
// route requirement; this enforces single-role-at-a-time behavior for users
// holding multiple roles.
func RequireActiveRole(roles ...Role) Requirement {
	return Requirement{Roles: NormalizeRoles(roles), RequireAuth: true}
}

// Decision is the outcome of evaluating a Requirement against a Snapshot.
type Decision int

const (
	// DecisionAllow permits rendering the protected view.
	DecisionAllow Decision = iota
	// DecisionDenyNoAuth means authentication is required and absent.
	DecisionDenyNoAuth
	// DecisionDenyWrongRole means the active role does not satisfy the
	// requirement's role set.
	DecisionDenyWrongRole
)

// LoginRequiredMessage is the redirect message for unauthenticated access to
// a protected route.
const LoginRequiredMessage = "Please login to continue"

// Authorize evaluates a route requirement against a session snapshot. It is
// pure and stateless; the caller (route guard) re-invokes it on every
// navigation.
func Authorize(req Requirement, snap Snapshot) Decision {
	if req.RequireAuth && !snap.Authenticated {
		return DecisionDenyNoAuth
	}
	if len(req.Roles) == 0 {
		return DecisionAllow
	}
	if !snap.Authenticated {
		return DecisionDenyNoAuth
	}
	for _, r := range req.Roles {
		if snap.ActiveRole.Equal(r) {
			return DecisionAllow
		}
	}
	return DecisionDenyWrongRole
}

// DeniedMessage renders the human-readable wrong-role message for a
// requirement, naming the required role(s) joined with " or ".
func (r Requirement) DeniedMessage() string {
	labels := make([]string, len(r.Roles))
	for i, role := range r.Roles {
		labels[i] = string(role.Normalize())
	}
	return "Access denied. This page requires " + strings.Join(labels, " or ") + " role."
}
