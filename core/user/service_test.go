package user_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/user"
	emailsvc "github.com/trezcool/studentportal/services/email"
	inmemdb "github.com/trezcool/studentportal/storage/database/inmem"
	"github.com/trezcool/studentportal/tests"
)

func newService(t *testing.T) (user.Service, user.Repository, *core.Config) {
	conf := testutil.NewTestConfig()
	validate, _ := testutil.NewValidator()
	repo := inmemdb.NewUserRepository(inmemdb.New())
	emailsvc.ResetSentMessages()
	mailSvc := emailsvc.NewConsoleServiceMock(conf, testutil.NewEmailTemplates(t, conf), testutil.NewLogger(conf))
	return user.NewService(repo, mailSvc, validate, conf), repo, conf
}

func validationTags(t *testing.T, err error) map[string]string {
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "want validator.ValidationErrors, got %v", err)
	tags := make(map[string]string)
	for _, fe := range verrs {
		tags[core.FieldPath(fe)] = fe.Tag()
	}
	return tags
}

func TestService_Signup(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		data     user.NewUser
		wantTags map[string]string
	}{
		{name: "empty", wantTags: map[string]string{"email": "required", "password": "required"}},
		{name: "invalid email", data: user.NewUser{Email: "lol", Password: "Str0ngP@ss"}, wantTags: map[string]string{"email": "email"}},
		{name: "short password", data: user.NewUser{Email: "a@test.cd", Password: "abc"}, wantTags: map[string]string{"password": "pwdminlen"}},
		{name: "short multibyte password", data: user.NewUser{Email: "a@test.cd", Password: "pässé"}, wantTags: map[string]string{"password": "pwdminlen"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.data)
			assert.Equal(t, tt.wantTags, validationTags(t, err))
		})
	}

	res, err := svc.Signup(ctx, user.NewUser{Email: " Student@Test.cd", Password: "Str0ngP@ss"})
	require.NoError(t, err)
	assert.Equal(t, "student@test.cd", res.User.Email)
	assert.NotEmpty(t, res.Token)
	assert.NotEqual(t, []byte("Str0ngP@ss"), res.User.PasswordHash)
	assert.NoError(t, res.User.CheckPassword("Str0ngP@ss"))
	assert.Len(t, emailsvc.GetSentMessages(), 1)

	// only presence and length are enforced
	for _, nu := range []user.NewUser{
		{Email: "johndoe@test.cd", Password: "johndoe"},
		{Email: "spaces@test.cd", Password: "my pass phrase"},
		{Email: "short@test.cd", Password: "123456"},
	} {
		_, err = svc.Signup(ctx, nu)
		assert.NoError(t, err, nu.Email)
	}

	_, err = svc.Signup(ctx, user.NewUser{Email: "student@test.cd", Password: "An0therP@ss"})
	assert.Equal(t, user.ErrEmailExists, errors.Cause(err))
	assert.True(t, core.IsConflict(err))

	cnt, err := repo.CountUsersByEmail(ctx, "student@test.cd")
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)
}

func TestService_Login(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, repo, "student@test.cd", "Str0ngP@ss")

	_, err := svc.Login(ctx, user.Credentials{Email: "student@test.cd"})
	assert.Equal(t, map[string]string{"password": "required"}, validationTags(t, err))

	_, unknownErr := svc.Login(ctx, user.Credentials{Email: "lol@test.cd", Password: "Str0ngP@ss"})
	_, wrongPwdErr := svc.Login(ctx, user.Credentials{Email: "student@test.cd", Password: "WrongP@ss"})
	assert.Equal(t, user.ErrInvalidCredentials, unknownErr)
	assert.Equal(t, unknownErr.Error(), wrongPwdErr.Error())
	assert.True(t, core.IsUnauthorized(wrongPwdErr))

	res, err := svc.Login(ctx, user.Credentials{Email: "STUDENT@test.cd", Password: "Str0ngP@ss"})
	require.NoError(t, err)
	assert.Equal(t, usr.ID, res.User.ID)

	got, err := svc.VerifyToken(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)
}

func TestService_VerifyToken(t *testing.T) {
	svc, _, conf := newService(t)
	ctx := context.Background()

	ghost, err := user.MakeToken(user.User{ID: "9d7e8a36-93c4-4c52-9b7f-0e0c0b4f5a11"}, conf)
	require.NoError(t, err)
	badID, err := user.MakeToken(user.User{ID: "lol"}, conf)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty", wantErr: user.ErrTokenInvalid},
		{name: "garbage", token: "a.b.c", wantErr: user.ErrTokenInvalid},
		{name: "unknown user", token: ghost, wantErr: user.ErrTokenUserNotFound},
		{name: "malformed user id", token: badID, wantErr: user.ErrTokenUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyToken(ctx, tt.token)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestService_CreateOrSetPassword(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	usr, created, err := svc.CreateOrSetPassword(ctx, "Admin@test.cd", "Str0ngP@ss")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "admin@test.cd", usr.Email)

	usr2, created, err := svc.CreateOrSetPassword(ctx, "admin@test.cd", "An0therP@ss")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, usr.ID, usr2.ID)

	stored, err := repo.GetUserByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.NoError(t, stored.CheckPassword("An0therP@ss"))

	_, err = svc.SetPassword(ctx, "lol@test.cd", "An0therP@ss")
	assert.True(t, core.IsNotFound(err))
}
