package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/ports"
)

// Sentinel errors surfaced by AuthService. Handlers map these to HTTP codes.
var (
	ErrSessionExpired      = errors.New("session expired")
	ErrSessionNotFound     = errors.New("session not found")
	ErrNoRolesGranted      = errors.New("user has no granted roles")
	ErrRoleNotGranted      = errors.New("role not granted to user")
	ErrPendingLoginExpired = errors.New("pending login expired or not found")
)

// AuthServiceOptions groups dependencies for AuthService. Exactly one of
// Passwords or SSO is set depending on the configured auth mode; the mock
// provider implements both.
type AuthServiceOptions struct {
	Passwords ports.PasswordAuthenticator
	SSO       ports.SSOProvider
	Sessions  ports.SessionStore
	Pending   ports.PendingLoginStore
	Roles     ports.RoleMapper
}

// AuthService orchestrates authentication flows: credential or SSO login,
// role selection for multi-role users, session retrieval with invariant
// repair, role switching, and logout.
type AuthService struct {
	passwords ports.PasswordAuthenticator
	sso       ports.SSOProvider
	sessions  ports.SessionStore
	pending   ports.PendingLoginStore
	roles     ports.RoleMapper
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		passwords: opts.Passwords,
		sso:       opts.SSO,
		sessions:  opts.Sessions,
		pending:   opts.Pending,
		roles:     opts.Roles,
	}
}

// LoginResult is the outcome of a completed authentication. When the user
// holds more than one role no session exists yet: RequiresRoleSelection is
// set and the client must call CompleteRoleSelection with PendingToken.
type LoginResult struct {
	Session               *domainauth.Session
	RequiresRoleSelection bool
	PendingToken          string
	Roles                 []domainauth.Role
}

// Login authenticates an email/password pair and either opens a session or
// parks the identity behind a pending-login token for role selection.
func (s *AuthService) Login(ctx context.Context, creds ports.Credentials) (*LoginResult, error) {
	if s.passwords == nil {
		return nil, errors.New("password authentication is not enabled")
	}
	ident, err := s.passwords.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}
	return s.finishLogin(ctx, ident)
}

// BeginLoginResult contains the result of beginning an SSO login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginSSO initiates an SSO flow and returns the provider auth URL with
// state and nonce.
func (s *AuthService) BeginSSO(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.sso == nil {
		return nil, errors.New("SSO authentication is not enabled")
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.sso.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{
		AuthURL: authURL,
		State:   state,
		Nonce:   nonce,
	}, nil
}

// CompleteSSOInput groups parameters for completing an SSO flow.
type CompleteSSOInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteSSO completes an SSO flow by exchanging the code for an identity,
// mapping IdP groups to roles, and either opening a session or parking the
// identity for role selection.
func (s *AuthService) CompleteSSO(ctx context.Context, input CompleteSSOInput) (*LoginResult, error) {
	if s.sso == nil {
		return nil, errors.New("SSO authentication is not enabled")
	}
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	ident, err := s.sso.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	// In oauth mode the provider returns raw IdP groups; the mapper turns
	// them into the granted role set.
	if len(ident.Roles) == 0 && s.roles != nil {
		ident.Roles = s.roles.Map(ident.Groups)
	}

	return s.finishLogin(ctx, ident)
}

// finishLogin applies the single-role shortcut: one granted role opens a
// session immediately, multiple roles require an explicit selection.
func (s *AuthService) finishLogin(ctx context.Context, ident domainauth.Identity) (*LoginResult, error) {
	roles := domainauth.NormalizeRoles(ident.Roles)
	if len(roles) == 0 {
		return nil, ErrNoRolesGranted
	}
	ident.Roles = roles

	if len(roles) == 1 {
		sess, err := s.openSession(ctx, ident, roles[0])
		if err != nil {
			return nil, err
		}
		return &LoginResult{Session: sess}, nil
	}

	token := uuid.New().String()
	if err := s.pending.Save(ctx, ports.PendingLogin{Token: token, Identity: ident}); err != nil {
		return nil, fmt.Errorf("save pending login: %w", err)
	}
	return &LoginResult{
		RequiresRoleSelection: true,
		PendingToken:          token,
		Roles:                 roles,
	}, nil
}

// CompleteRoleSelection finishes a multi-role login: it validates the chosen
// role against the parked identity's granted set and opens the session. The
// pending token is single-use.
func (s *AuthService) CompleteRoleSelection(ctx context.Context, token string, role domainauth.Role) (*domainauth.Session, error) {
	if token == "" {
		return nil, ErrPendingLoginExpired
	}
	p, err := s.pending.Get(ctx, token)
	if err != nil {
		return nil, ErrPendingLoginExpired
	}

	chosen := role.Normalize()
	if !domainauth.ContainsRole(domainauth.NormalizeRoles(p.Identity.Roles), chosen) {
		return nil, ErrRoleNotGranted
	}

	sess, err := s.openSession(ctx, p.Identity, chosen)
	if err != nil {
		return nil, err
	}
	if delErr := s.pending.Delete(ctx, token); delErr != nil {
		return nil, fmt.Errorf("delete pending login: %w", delErr)
	}
	return sess, nil
}

func (s *AuthService) openSession(ctx context.Context, ident domainauth.Identity, active domainauth.Role) (*domainauth.Session, error) {
	sess := domainauth.NewSession(uuid.New().String(), ident, active)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &sess, nil
}

// GetSession retrieves a session by ID, discarding expired records and
// repairing the active-role invariant on load. Repairs are written back so
// the stored record converges.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(sess.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrSessionExpired
	}

	if sess.Repair() {
		// The repaired record is authoritative for this request either way;
		// a failed write-back just means the store converges on a later load.
		if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
			slog.Default().WarnContext(ctx, "save repaired session", "error", saveErr)
		}
	}

	return &sess, nil
}

// SwitchRole changes the session's active role to another granted role and
// enters the switching-role state. The state is cleared when the follow-up
// navigation lands (CompleteNavigation), not by a timer.
func (s *AuthService) SwitchRole(ctx context.Context, sessionID string, role domainauth.Role) (*domainauth.Session, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	target := role.Normalize()
	if !sess.HasRole(target) {
		return nil, ErrRoleNotGranted
	}

	sess.ActiveRole = target
	sess.State = domainauth.StateSwitchingRole
	if saveErr := s.sessions.Save(ctx, *sess); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}
	return sess, nil
}

// CompleteNavigation returns the session to the stable state after a
// successful navigation. It is the completion signal that clears the
// switching-role and logging-out sub-states.
func (s *AuthService) CompleteNavigation(ctx context.Context, sess *domainauth.Session) error {
	if sess == nil || sess.State == domainauth.StateStable {
		return nil
	}
	sess.State = domainauth.StateStable
	if err := s.sessions.Save(ctx, *sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// BeginLogout marks the session as logging out so in-flight navigations
// suppress denial messaging during teardown. Unknown sessions are a no-op.
func (s *AuthService) BeginLogout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil
	}
	sess.State = domainauth.StateLoggingOut
	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		return fmt.Errorf("save session: %w", saveErr)
	}
	return nil
}

// Logout removes a session. Logging out an unknown or already-removed
// session succeeds.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// SwitchableRoles lists the roles the session could switch to, ordered by
// descending privilege.
func (s *AuthService) SwitchableRoles(sess *domainauth.Session) []domainauth.Role {
	if sess == nil {
		return nil
	}
	return domainauth.SwitchableRoles(sess.ActiveRole, sess.Roles)
}
