package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hirespherex/portal-api/internal/data"
	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/domain/model"
	apperrors "github.com/hirespherex/portal-api/internal/errors"
	"github.com/hirespherex/portal-api/internal/mocks"
	"github.com/hirespherex/portal-api/internal/service"
)

func newUserHandlerFixture(t *testing.T) (*UserHandlers, *mocks.MockUserRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	repo := mocks.NewMockUserRepository(ctrl)
	h := &UserHandlers{Svc: service.NewUserService(service.UserServiceOptions{Users: repo})}
	return h, repo
}

func TestUserHandlers_Create(t *testing.T) {
	h, repo := newUserHandlerFixture(t)
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&model.User{
			ID:        "user-1",
			Email:     "asha@campus.edu",
			FirstName: "Asha",
			Roles:     []domainauth.Role{domainauth.RoleStudent},
			Active:    true,
		}, nil)

	rec := httptest.NewRecorder()
	h.Create(rec, postJSON("/api/v1/users",
		`{"email":"asha@campus.edu","first_name":"Asha","password":"correct-horse-battery","roles":["student"]}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "asha@campus.edu", user.Email)
	// The hash never leaves the server.
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

func TestUserHandlers_Create_EmailConflict(t *testing.T) {
	h, repo := newUserHandlerFixture(t)
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperrors.Conflict("a user with this email already exists"))

	rec := httptest.NewRecorder()
	h.Create(rec, postJSON("/api/v1/users",
		`{"email":"asha@campus.edu","first_name":"Asha","password":"correct-horse-battery","roles":["student"]}`))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email_conflict", decodeBody(t, rec)["error"])
}

func TestUserHandlers_Create_InvalidBody(t *testing.T) {
	h, _ := newUserHandlerFixture(t)

	rec := httptest.NewRecorder()
	h.Create(rec, postJSON("/api/v1/users", `{"email":""}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_failed", decodeBody(t, rec)["error"])
}

func TestUserHandlers_Create_UnknownField(t *testing.T) {
	h, _ := newUserHandlerFixture(t)

	rec := httptest.NewRecorder()
	h.Create(rec, postJSON("/api/v1/users", `{"emial":"typo@campus.edu"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", decodeBody(t, rec)["error"])
}

func TestUserHandlers_GetByID_NotFound(t *testing.T) {
	h, repo := newUserHandlerFixture(t)
	repo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, data.ErrUserNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.GetByID(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user_not_found", decodeBody(t, rec)["error"])
}

func TestUserHandlers_Delete(t *testing.T) {
	h, repo := newUserHandlerFixture(t)
	repo.EXPECT().Delete(gomock.Any(), "user-1").Return(true, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/user-1", nil)
	req.SetPathValue("id", "user-1")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["deleted"])
}

func TestUserHandlers_Delete_InUse(t *testing.T) {
	h, repo := newUserHandlerFixture(t)
	repo.EXPECT().
		Delete(gomock.Any(), "user-1").
		Return(false, apperrors.ForeignKey("user is referenced by a student profile"))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/user-1", nil)
	req.SetPathValue("id", "user-1")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "user_in_use", decodeBody(t, rec)["error"])
}
