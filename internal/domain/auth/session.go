package auth

import "time"

// SessionSchemaVersion is the current schema version of persisted session
// records. Loaders treat records with a different version as corrupt and
// self-heal by discarding them, which forces a clean re-login instead of
// silently misreading fields.
const SessionSchemaVersion = 1

// State is the lifecycle state of an authenticated session. LoggingOut and
// SwitchingRole are short-lived sub-states that exist so the route guard can
// distinguish an in-flight transition from a genuine authorization failure;
// they are cleared by the navigation that completes the transition, not by a
// timer.
type State string

const (
	// StateStable is the normal authenticated state.
	StateStable State = "stable"
	// StateLoggingOut marks a logout in flight; the guard suppresses
	// "please login" redirects while it is set.
	StateLoggingOut State = "logging_out"
	// StateSwitchingRole marks a role switch in flight; the guard suppresses
	// wrong-role redirects while it is set.
	StateSwitchingRole State = "switching_role"
)

// Identity represents the authenticated principal.
type Identity struct {
	UserID      string
	Email       string
	FirstName   string
	MiddleName  string
	LastName    string
	PhoneNumber string
	Roles       []Role
	// Groups carries raw IdP group names in oauth mode; a RoleMapper turns
	// them into Roles before a session is created. Empty in other modes.
	Groups    []string
	ExpiresAt time.Time
}

// Session is the server-side record persisted for an authenticated user.
// ID is an opaque session identifier. The invariant ActiveRole ∈ Roles holds
// for every session produced by NewSession or repaired by Repair.
type Session struct {
	SchemaVersion int       `json:"schema_version"`
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	MiddleName    string    `json:"middle_name,omitempty"`
	LastName      string    `json:"last_name,omitempty"`
	PhoneNumber   string    `json:"phone_number,omitempty"`
	Roles         []Role    `json:"roles"`
	ActiveRole    Role      `json:"active_role"`
	State         State     `json:"state"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// NewSession builds a session from an identity, resolving the active role
// with the deterministic repair rule when the requested role is empty or not
// granted.
func NewSession(id string, ident Identity, active Role) Session {
	roles := NormalizeRoles(ident.Roles)
	resolved := active.Normalize()
	if resolved == "" || !ContainsRole(roles, resolved) {
		resolved = ResolveActiveRole(roles)
	}
	return Session{
		SchemaVersion: SessionSchemaVersion,
		ID:            id,
		UserID:        ident.UserID,
		Email:         ident.Email,
		FirstName:     ident.FirstName,
		MiddleName:    ident.MiddleName,
		LastName:      ident.LastName,
		PhoneNumber:   ident.PhoneNumber,
		Roles:         roles,
		ActiveRole:    resolved,
		State:         StateStable,
		ExpiresAt:     ident.ExpiresAt,
	}
}

// Repair restores the ActiveRole ∈ Roles invariant on a loaded session and
// reports whether anything changed (so callers know to write the repaired
// record back). It also defaults the lifecycle state to Stable.
func (s *Session) Repair() bool {
	changed := false
	normalized := NormalizeRoles(s.Roles)
	if len(normalized) != len(s.Roles) {
		changed = true
	}
	s.Roles = normalized
	if s.ActiveRole == "" || !ContainsRole(s.Roles, s.ActiveRole) {
		s.ActiveRole = ResolveActiveRole(s.Roles)
		changed = true
	} else if s.ActiveRole != s.ActiveRole.Normalize() {
		s.ActiveRole = s.ActiveRole.Normalize()
		changed = true
	}
	if s.State == "" {
		s.State = StateStable
		changed = true
	}
	return changed
}

// HasRole reports membership in the granted role set, case-insensitively.
func (s Session) HasRole(r Role) bool { return ContainsRole(s.Roles, r) }

// IsActiveRole reports whether r equals the session's active role,
// case-insensitively.
func (s Session) IsActiveRole(r Role) bool { return s.ActiveRole.Equal(r) }

// HasAnyRole reports whether any of the given roles is granted.
func (s Session) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if s.HasRole(r) {
			return true
		}
	}
	return false
}

// CanAccessAdminArea reports whether the active role grants the admin-family
// area (admin or student placement cell).
func (s Session) CanAccessAdminArea() bool {
	return s.IsActiveRole(RoleAdmin) || s.IsActiveRole(RolePlacementCell)
}

// CanAccessStudentArea reports whether the active role grants the student area.
func (s Session) CanAccessStudentArea() bool {
	return s.IsActiveRole(RoleStudent)
}

// Portal area entry points. Clients navigate here after a login, role
// switch, or logout rather than hard-coding the paths.
const (
	AdminLandingPath   = "/admin"
	StudentLandingPath = "/student"
	DefaultLandingPath = "/"
)

// LandingPath is the area entry point matching the session's active role.
func (s Session) LandingPath() string {
	switch {
	case s.CanAccessAdminArea():
		return AdminLandingPath
	case s.CanAccessStudentArea():
		return StudentLandingPath
	default:
		return DefaultLandingPath
	}
}

// FullName joins the name parts, skipping empty segments.
func (s Session) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.FirstName, s.MiddleName, s.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

// Snapshot is the immutable view of session state the authorization
// predicate consumes. A nil session produces the anonymous snapshot.
type Snapshot struct {
	Authenticated bool
	ActiveRole    Role
	State         State
}

// Snap captures the authorization-relevant view of the session.
func (s *Session) Snap() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return Snapshot{Authenticated: true, ActiveRole: s.ActiveRole, State: s.State}
}
