package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/domain/model"
	"github.com/hirespherex/portal-api/internal/mocks"
	"github.com/hirespherex/portal-api/internal/testutil"
)

func TestUserService_Create_HashesPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	users := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(UserServiceOptions{Users: users})

	req := testutil.NewUserRequest().WithPassword("correct-horse-battery").Build()
	users.EXPECT().Create(ctx, req, gomock.Any()).
		DoAndReturn(func(_ context.Context, r *model.CreateUserRequest, passwordHash string) (*model.User, error) {
			assert.NotEqual(t, r.Password, passwordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte("correct-horse-battery")))
			return &model.User{ID: "user-1", Email: r.Email}, nil
		})

	got, err := svc.Create(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
}

func TestUserService_Create_InvalidRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewUserService(UserServiceOptions{Users: mocks.NewMockUserRepository(ctrl)})

	req := testutil.NewUserRequest().WithEmail("").Build()
	_, err := svc.Create(context.Background(), req)

	assert.Error(t, err)
}

func TestUserService_Update_Validates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	users := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(UserServiceOptions{Users: users})

	badRoles := []domainauth.Role{"recruiter"}
	_, err := svc.Update(ctx, "user-1", model.UpdateUserRequest{Roles: &badRoles})
	assert.Error(t, err)

	name := "Jane"
	users.EXPECT().Update(ctx, "user-1", gomock.Any()).Return(&model.User{ID: "user-1", FirstName: name}, nil)
	got, err := svc.Update(ctx, "user-1", model.UpdateUserRequest{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, got.FirstName)
}

func TestStudentService_Verify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	students := mocks.NewMockStudentRepository(ctrl)
	svc := NewStudentService(StudentServiceOptions{Students: students})

	profile := verifiedProfile()
	profile.Verified = false
	students.EXPECT().GetByUserID(ctx, profile.UserID).Return(profile, nil)
	students.EXPECT().Update(ctx, profile.UserID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, req model.UpdateStudentProfileRequest) (*model.StudentProfile, error) {
			require.NotNil(t, req.Verified)
			assert.True(t, *req.Verified)
			verified := *profile
			verified.Verified = true
			return &verified, nil
		})

	got, err := svc.Verify(ctx, profile.UserID)

	require.NoError(t, err)
	assert.True(t, got.Verified)
}

func TestStudentService_Verify_RequiresAcademicRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	students := mocks.NewMockStudentRepository(ctrl)
	svc := NewStudentService(StudentServiceOptions{Students: students})

	profile := verifiedProfile()
	profile.Verified = false
	profile.CGPA = nil
	students.EXPECT().GetByUserID(ctx, profile.UserID).Return(profile, nil)

	_, err := svc.Verify(ctx, profile.UserID)

	assert.ErrorIs(t, err, ErrStudentNotVerifiable)
}
