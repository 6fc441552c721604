package httpx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hirespherex/portal-api/internal/adapters/credauth"
	"github.com/hirespherex/portal-api/internal/data"
	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/mocks"
	mockauth "github.com/hirespherex/portal-api/internal/mocks/auth"
	"github.com/hirespherex/portal-api/internal/ports"
	"github.com/hirespherex/portal-api/internal/service"
)

type authHandlerFixture struct {
	handlers  *AuthHandlers
	passwords *mockauth.MockPasswordAuthenticator
	sessions  *mockauth.MemorySessionStore
}

func newAuthHandlerFixture(t *testing.T) *authHandlerFixture {
	t.Helper()
	passwords := mockauth.NewMockPasswordAuthenticator()
	sessions := mockauth.NewMemorySessionStore()
	svc := service.NewAuthService(service.AuthServiceOptions{
		Passwords: passwords,
		SSO:       mockauth.NewMockSSOProvider(),
		Sessions:  sessions,
		Pending:   mockauth.NewMemoryPendingLoginStore(),
	})
	return &authHandlerFixture{
		handlers:  &AuthHandlers{Svc: svc},
		passwords: passwords,
		sessions:  sessions,
	}
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandlers_Token_SingleRoleOpensSession(t *testing.T) {
	f := newAuthHandlerFixture(t)

	rec := httptest.NewRecorder()
	f.handlers.Token(rec, postJSON("/api/v1/auth/token",
		`{"email":"mock.user@example.edu","password":"password123"}`))

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := cookieNamed(rec, SessionCookieName)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	var body struct {
		Session     map[string]any `json:"session"`
		LandingPath string         `json:"landing_path"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "mock-user-1", body.Session["user_id"])
	assert.Equal(t, "student", body.Session["active_role"])
	assert.Equal(t, "stable", body.Session["state"])
	assert.Equal(t, "/student", body.LandingPath)
	// The opaque session ID travels only in the cookie.
	assert.NotContains(t, body.Session, "id")

	_, err := f.sessions.Get(context.Background(), cookie.Value)
	assert.NoError(t, err)
}

func TestAuthHandlers_Token_InvalidCredentials(t *testing.T) {
	f := newAuthHandlerFixture(t)
	f.passwords.AuthenticateFunc = func(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error) {
		return domainauth.Identity{}, credauth.ErrInvalidCredentials
	}

	rec := httptest.NewRecorder()
	f.handlers.Token(rec, postJSON("/api/v1/auth/token",
		`{"email":"mock.user@example.edu","password":"wrong"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "invalid_credentials", body["error"])
	assert.Equal(t, "invalid email or password", body["message"])
}

func TestAuthHandlers_Token_DisabledAccountIndistinguishable(t *testing.T) {
	f := newAuthHandlerFixture(t)
	f.passwords.AuthenticateFunc = func(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error) {
		return domainauth.Identity{}, credauth.ErrAccountDisabled
	}

	rec := httptest.NewRecorder()
	f.handlers.Token(rec, postJSON("/api/v1/auth/token",
		`{"email":"mock.user@example.edu","password":"password123"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "invalid_credentials", body["error"])
	assert.Equal(t, "invalid email or password", body["message"])
}

func TestAuthHandlers_Token_MultiRoleRequiresSelection(t *testing.T) {
	f := newAuthHandlerFixture(t)
	ident := f.passwords.Users["mock.user@example.edu"]
	ident.Roles = []domainauth.Role{domainauth.RoleStudent, domainauth.RoleAdmin}
	f.passwords.Users["mock.user@example.edu"] = ident

	rec := httptest.NewRecorder()
	f.handlers.Token(rec, postJSON("/api/v1/auth/token",
		`{"email":"mock.user@example.edu","password":"password123"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, cookieNamed(rec, SessionCookieName))

	var body struct {
		RequiresRoleSelection bool              `json:"requires_role_selection"`
		PendingToken          string            `json:"pending_token"`
		Roles                 []domainauth.Role `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.RequiresRoleSelection)
	assert.NotEmpty(t, body.PendingToken)
	assert.ElementsMatch(t, []domainauth.Role{domainauth.RoleStudent, domainauth.RoleAdmin}, body.Roles)

	// Finish the login with the chosen role.
	rec2 := httptest.NewRecorder()
	f.handlers.SelectRole(rec2, postJSON("/api/v1/auth/select-role",
		`{"pending_token":"`+body.PendingToken+`","role":"admin"}`))

	require.Equal(t, http.StatusOK, rec2.Code)
	require.NotNil(t, cookieNamed(rec2, SessionCookieName))

	var selected struct {
		Session     map[string]any `json:"session"`
		LandingPath string         `json:"landing_path"`
	}
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &selected))
	assert.Equal(t, "admin", selected.Session["active_role"])
	assert.Equal(t, "/admin", selected.LandingPath)
}

func TestAuthHandlers_SelectRole_ExpiredToken(t *testing.T) {
	f := newAuthHandlerFixture(t)

	rec := httptest.NewRecorder()
	f.handlers.SelectRole(rec, postJSON("/api/v1/auth/select-role",
		`{"pending_token":"gone","role":"student"}`))

	assert.Equal(t, http.StatusGone, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "pending_login_expired", body["error"])
}

func TestAuthHandlers_SwitchRole(t *testing.T) {
	f := newAuthHandlerFixture(t)
	sess := domainauth.NewSession("sess-1", domainauth.Identity{
		UserID:    "user-1",
		Email:     "user@campus.edu",
		Roles:     []domainauth.Role{domainauth.RoleStudent, domainauth.RoleAdmin},
		ExpiresAt: time.Now().Add(time.Hour),
	}, domainauth.RoleAdmin)
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	req := postJSON("/api/v1/auth/switch-role", `{"role":"student"}`)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	f.handlers.SwitchRole(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Session     map[string]any `json:"session"`
		LandingPath string         `json:"landing_path"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "student", body.Session["active_role"])
	// The switch stays pending until the next successful navigation.
	assert.Equal(t, "switching_role", body.Session["state"])
	assert.Equal(t, "/student", body.LandingPath)
}

func TestAuthHandlers_SwitchRole_NotGranted(t *testing.T) {
	f := newAuthHandlerFixture(t)
	sess := domainauth.NewSession("sess-1", domainauth.Identity{
		UserID:    "user-1",
		Email:     "user@campus.edu",
		Roles:     []domainauth.Role{domainauth.RoleStudent},
		ExpiresAt: time.Now().Add(time.Hour),
	}, domainauth.RoleStudent)
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	req := postJSON("/api/v1/auth/switch-role", `{"role":"admin"}`)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	f.handlers.SwitchRole(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "role_not_granted", decodeBody(t, rec)["error"])
}

func TestAuthHandlers_SwitchRole_NoCookie(t *testing.T) {
	f := newAuthHandlerFixture(t)

	rec := httptest.NewRecorder()
	f.handlers.SwitchRole(rec, postJSON("/api/v1/auth/switch-role", `{"role":"admin"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, domainauth.LoginRequiredMessage, decodeBody(t, rec)["message"])
}

func TestAuthHandlers_Logout_DeletesSessionAndClearsCookie(t *testing.T) {
	f := newAuthHandlerFixture(t)
	sess := domainauth.NewSession("sess-1", domainauth.Identity{
		UserID:    "user-1",
		Email:     "user@campus.edu",
		Roles:     []domainauth.Role{domainauth.RoleStudent},
		ExpiresAt: time.Now().Add(time.Hour),
	}, domainauth.RoleStudent)
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	req := postJSON("/api/v1/auth/logout", ``)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	f.handlers.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "signed_out", body["status"])
	assert.Equal(t, "/", body["landing_path"])
	assert.Equal(t, true, body["logged_out"])

	cleared := cookieNamed(rec, SessionCookieName)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)

	_, err := f.sessions.Get(context.Background(), sess.ID)
	assert.Error(t, err)
}

func TestAuthHandlers_Logout_WithoutSessionStillSignsOut(t *testing.T) {
	f := newAuthHandlerFixture(t)

	rec := httptest.NewRecorder()
	f.handlers.Logout(rec, postJSON("/api/v1/auth/logout", ``))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "signed_out", body["status"])
	assert.Equal(t, true, body["logged_out"])
}

func TestAuthHandlers_Me(t *testing.T) {
	f := newAuthHandlerFixture(t)
	sess := domainauth.NewSession("sess-1", domainauth.Identity{
		UserID:    "user-1",
		Email:     "user@campus.edu",
		FirstName: "Asha",
		Roles:     []domainauth.Role{domainauth.RoleStudent},
		ExpiresAt: time.Now().Add(time.Hour),
	}, domainauth.RoleStudent)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = req.WithContext(SetSessionInContext(req.Context(), &sess))
	rec := httptest.NewRecorder()
	f.handlers.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Session map[string]any `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body.Session["user_id"])
	assert.Equal(t, "Asha", body.Session["first_name"])
}

func TestRouter_MeResolvesSessionFromCookie(t *testing.T) {
	f := newAuthHandlerFixture(t)
	sess := domainauth.NewSession("sess-1", domainauth.Identity{
		UserID:    "user-1",
		Email:     "user@campus.edu",
		FirstName: "Asha",
		Roles:     []domainauth.Role{domainauth.RoleStudent},
		ExpiresAt: time.Now().Add(time.Hour),
	}, domainauth.RoleStudent)
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	router := NewRouter(RouterServices{
		Auth:   f.handlers.Svc,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Session map[string]any `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body.Session["user_id"])

	// Without the cookie the same route explains the missing login.
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
	assert.Equal(t, domainauth.LoginRequiredMessage, decodeBody(t, rec2)["message"])
}

func TestAuthHandlers_Me_NoSession(t *testing.T) {
	f := newAuthHandlerFixture(t)

	rec := httptest.NewRecorder()
	f.handlers.Me(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, domainauth.LoginRequiredMessage, decodeBody(t, rec)["message"])
}

func TestAuthHandlers_Login_BeginsSSOFlow(t *testing.T) {
	f := newAuthHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/login?redirect_uri=/placement-drives", nil)
	rec := httptest.NewRecorder()
	f.handlers.Login(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://mock-idp/auth", rec.Header().Get("Location"))

	state := cookieNamed(rec, "oauth_state")
	require.NotNil(t, state)
	assert.NotEmpty(t, state.Value)
	nonce := cookieNamed(rec, "oauth_nonce")
	require.NotNil(t, nonce)
	assert.NotEmpty(t, nonce.Value)
	redirect := cookieNamed(rec, "post_login_redirect")
	require.NotNil(t, redirect)
	assert.Equal(t, "/placement-drives", redirect.Value)
}

func TestAuthHandlers_Login_RejectsAbsoluteRedirect(t *testing.T) {
	f := newAuthHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/auth/login?redirect_uri=https://evil.example.com/phish", nil)
	rec := httptest.NewRecorder()
	f.handlers.Login(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	redirect := cookieNamed(rec, "post_login_redirect")
	require.NotNil(t, redirect)
	assert.Equal(t, "/", redirect.Value)
}

func TestAuthHandlers_Callback_CompletesSSOLogin(t *testing.T) {
	f := newAuthHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/auth/callback?code=mock-code&state=state-1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-1"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "nonce-1"})
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/placement-drives"})
	rec := httptest.NewRecorder()
	f.handlers.Callback(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/placement-drives", rec.Header().Get("Location"))
	require.NotNil(t, cookieNamed(rec, SessionCookieName))
}

func TestAuthHandlers_Callback_StateMismatch(t *testing.T) {
	f := newAuthHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/auth/callback?code=mock-code&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-1"})
	rec := httptest.NewRecorder()
	f.handlers.Callback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_state", decodeBody(t, rec)["error"])
}

func TestAuthHandlers_Callback_MissingCode(t *testing.T) {
	f := newAuthHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/callback?state=state-1", nil)
	rec := httptest.NewRecorder()
	f.handlers.Callback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_callback", decodeBody(t, rec)["error"])
}

func TestAuthHandlers_RequestPasswordReset_AlwaysAccepted(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	users := mocks.NewMockUserRepository(ctrl)
	tokens := mocks.NewMockPasswordResetRepository(ctrl)
	users.EXPECT().GetByEmail(gomock.Any(), "ghost@campus.edu").Return(nil, data.ErrUserNotFound)

	h := &AuthHandlers{Resets: service.NewPasswordResetService(service.PasswordResetServiceOptions{
		Users:  users,
		Tokens: tokens,
	})}

	rec := httptest.NewRecorder()
	h.RequestPasswordReset(rec, postJSON("/api/v1/auth/password-reset",
		`{"email":"ghost@campus.edu"}`))

	// Same response whether or not the account exists.
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "accepted", decodeBody(t, rec)["status"])
}

func TestAuthHandlers_ConfirmPasswordReset_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	users := mocks.NewMockUserRepository(ctrl)
	tokens := mocks.NewMockPasswordResetRepository(ctrl)
	tokens.EXPECT().GetByHash(gomock.Any(), gomock.Any()).Return(nil, data.ErrResetTokenNotFound)

	h := &AuthHandlers{Resets: service.NewPasswordResetService(service.PasswordResetServiceOptions{
		Users:  users,
		Tokens: tokens,
	})}

	rec := httptest.NewRecorder()
	h.ConfirmPasswordReset(rec, postJSON("/api/v1/auth/password-reset/confirm",
		`{"token":"bogus","new_password":"a-long-enough-password"}`))

	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, "token_invalid", decodeBody(t, rec)["error"])
}
