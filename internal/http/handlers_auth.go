package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hirespherex/portal-api/internal/adapters/credauth"
	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/ports"
	"github.com/hirespherex/portal-api/internal/service"
)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          *service.AuthService
	Resets       *service.PasswordResetService
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// sessionView is the client-facing shape of a session. The opaque session ID
// travels only in the cookie.
type sessionView struct {
	UserID          string            `json:"user_id"`
	Email           string            `json:"email"`
	FirstName       string            `json:"first_name"`
	MiddleName      string            `json:"middle_name,omitempty"`
	LastName        string            `json:"last_name,omitempty"`
	PhoneNumber     string            `json:"phone_number,omitempty"`
	Roles           []domainauth.Role `json:"roles"`
	ActiveRole      domainauth.Role   `json:"active_role"`
	State           domainauth.State  `json:"state"`
	SwitchableRoles []domainauth.Role `json:"switchable_roles"`
	ExpiresAt       time.Time         `json:"expires_at"`
}

func (h *AuthHandlers) viewOf(sess *domainauth.Session) sessionView {
	return sessionView{
		UserID:          sess.UserID,
		Email:           sess.Email,
		FirstName:       sess.FirstName,
		MiddleName:      sess.MiddleName,
		LastName:        sess.LastName,
		PhoneNumber:     sess.PhoneNumber,
		Roles:           sess.Roles,
		ActiveRole:      sess.ActiveRole,
		State:           sess.State,
		SwitchableRoles: h.Svc.SwitchableRoles(sess),
		ExpiresAt:       sess.ExpiresAt,
	}
}

// Token handles credential login.
// POST /api/v1/auth/token.
func (h *AuthHandlers) Token(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Login(r.Context(), ports.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		h.writeLoginError(w, err)
		return
	}

	h.writeLoginResult(w, r, result)
}

// SelectRole finishes a multi-role login with the chosen role.
// POST /api/v1/auth/select-role.
func (h *AuthHandlers) SelectRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PendingToken string          `json:"pending_token"`
		Role         domainauth.Role `json:"role"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	sess, err := h.Svc.CompleteRoleSelection(r.Context(), req.PendingToken, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPendingLoginExpired):
			WriteError(w, ErrorParams{Code: http.StatusGone, ErrCode: "pending_login_expired", Err: err})
		case errors.Is(err, service.ErrRoleNotGranted):
			WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "role_not_granted", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
		}
		return
	}

	h.setSessionCookie(w, r, sess)
	WriteJSON(w, http.StatusOK, map[string]any{
		"session":      h.viewOf(sess),
		"landing_path": sess.LandingPath(),
	})
}

// Login initiates an SSO flow.
// GET /api/v1/auth/login?redirect_uri=<optional_relative_path>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	callback := url.URL{Scheme: requestScheme(r), Host: r.Host, Path: "/api/v1/auth/callback"}
	result, err := h.Svc.BeginSSO(r.Context(), callback.String())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
		return
	}

	h.setFlowCookie(w, r, "oauth_state", result.State)
	h.setFlowCookie(w, r, "oauth_nonce", result.Nonce)
	h.setFlowCookie(w, r, "post_login_redirect", redirectURI)

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes an SSO flow.
// GET /api/v1/auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_callback",
			Err:     errors.New("code and state parameters are required"),
		})
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie("oauth_nonce")
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	result, err := h.Svc.CompleteSSO(r.Context(), service.CompleteSSOInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.writeLoginError(w, err)
		return
	}

	h.clearCookie(w, r, "oauth_state")
	h.clearCookie(w, r, "oauth_nonce")

	redirectTo := "/"
	if c, cookieErr := r.Cookie("post_login_redirect"); cookieErr == nil {
		redirectTo = safeRedirectPath(c.Value)
		h.clearCookie(w, r, "post_login_redirect")
	}

	if result.RequiresRoleSelection {
		h.writeLoginResult(w, r, result)
		return
	}

	h.setSessionCookie(w, r, result.Session)
	http.Redirect(w, r, redirectTo, http.StatusFound)
}

// Me returns the current session.
// GET /api/v1/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	if sess == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New(domainauth.LoginRequiredMessage),
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"session": h.viewOf(sess)})
}

// SwitchRole changes the active role of the current session.
// POST /api/v1/auth/switch-role.
func (h *AuthHandlers) SwitchRole(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New(domainauth.LoginRequiredMessage),
		})
		return
	}

	var req struct {
		Role domainauth.Role `json:"role"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	sess, err := h.Svc.SwitchRole(r.Context(), cookie.Value, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoleNotGranted):
			WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "role_not_granted", Err: err})
		case errors.Is(err, service.ErrSessionExpired), errors.Is(err, service.ErrSessionNotFound):
			WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "switch_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"session":      h.viewOf(sess),
		"landing_path": sess.LandingPath(),
	})
}

// Logout tears down the current session.
// POST /api/v1/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		// Mark the teardown first so navigations racing the logout see the
		// logging-out state instead of a bare missing session.
		if beginErr := h.Svc.BeginLogout(r.Context(), cookie.Value); beginErr != nil {
			h.logger().WarnContext(r.Context(), "begin logout", "error", beginErr)
		}
		if logoutErr := h.Svc.Logout(r.Context(), cookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	h.clearCookie(w, r, SessionCookieName)
	// The logged_out marker lets the landing page acknowledge the sign-out
	// instead of treating the visitor as a bounced unauthenticated request.
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":       "signed_out",
		"landing_path": domainauth.DefaultLandingPath,
		"logged_out":   true,
	})
}

// RequestPasswordReset starts the reset flow.
// POST /api/v1/auth/password-reset.
func (h *AuthHandlers) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	token, err := h.Resets.RequestReset(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "reset_failed", Err: err})
		return
	}
	if token != "" {
		// Delivery is out of band; the token never appears in the response.
		h.logger().InfoContext(r.Context(), "password reset issued", "email", req.Email)
	}

	// Same response whether or not the account exists.
	WriteJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// ValidatePasswordResetToken checks a reset token without consuming it.
// POST /api/v1/auth/password-reset/validate-token.
func (h *AuthHandlers) ValidatePasswordResetToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Resets.ValidateToken(r.Context(), req.Token); err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) {
			WriteError(w, ErrorParams{Code: http.StatusGone, ErrCode: "token_invalid", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "validate_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "valid"})
}

// ConfirmPasswordReset redeems a reset token and sets the new password.
// POST /api/v1/auth/password-reset/confirm.
func (h *AuthHandlers) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Resets.ConfirmReset(r.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrResetTokenInvalid):
			WriteError(w, ErrorParams{Code: http.StatusGone, ErrCode: "token_invalid", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "reset_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "password_updated"})
}

// writeLoginResult finishes a login: either opens the session cookie or asks
// the client to pick a role.
func (h *AuthHandlers) writeLoginResult(w http.ResponseWriter, r *http.Request, result *service.LoginResult) {
	if result.RequiresRoleSelection {
		WriteJSON(w, http.StatusOK, map[string]any{
			"requires_role_selection": true,
			"pending_token":           result.PendingToken,
			"roles":                   result.Roles,
		})
		return
	}

	h.setSessionCookie(w, r, result.Session)
	WriteJSON(w, http.StatusOK, map[string]any{
		"session":      h.viewOf(result.Session),
		"landing_path": result.Session.LandingPath(),
	})
}

func (h *AuthHandlers) writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, credauth.ErrInvalidCredentials), errors.Is(err, credauth.ErrAccountDisabled):
		// Both map to the same generic 401 so the cases are
		// indistinguishable to the caller.
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "invalid_credentials",
			Err:     errors.New("invalid email or password"),
		})
	case errors.Is(err, service.ErrNoRolesGranted):
		WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "no_roles_granted", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
	}
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, sess *domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) setFlowCookie(w http.ResponseWriter, r *http.Request, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeRedirectPath allows only relative paths so the portal never redirects
// off-site after login or logout.
func safeRedirectPath(raw string) string {
	if raw == "" {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	return raw
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
		return "https"
	}
	return "http"
}
