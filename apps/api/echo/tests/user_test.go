package tests

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studentportal/core/user"
	emailsvc "github.com/trezcool/studentportal/services/email"
	"github.com/trezcool/studentportal/tests"
)

func Test_userApi_signup(t *testing.T) {
	env := setup(t)
	existing := testutil.CreateUser(t, env.usrRepo, "taken@test.cd", "Str0ngP@ss")

	tests := []httpTest{
		{
			name: "empty body", method: http.MethodPost, path: "/api/users/signup",
			wantCode: http.StatusBadRequest,
			wantData: failure(t, msgValidation, map[string]string{
				"email":    "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name: "malformed JSON", method: http.MethodPost, path: "/api/users/signup",
			body:     []byte(`{"email": `),
			wantCode: http.StatusBadRequest, wantData: failure(t, "request body is not valid JSON"),
		},
		{
			name: "unknown field", method: http.MethodPost, path: "/api/users/signup",
			body:     []byte(`{"email": "lol@test.cd", "password": "Str0ngP@ss", "role": "admin"}`),
			wantCode: http.StatusBadRequest,
			wantData: failure(t, msgValidation, map[string]string{"role": "unknown field"}),
		},
		{
			name: "invalid email", method: http.MethodPost, path: "/api/users/signup",
			body:     []byte(`{"email": "lol", "password": "Str0ngP@ss"}`),
			wantCode: http.StatusBadRequest,
			wantData: failure(t, msgValidation, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name: "short password", method: http.MethodPost, path: "/api/users/signup",
			body:     []byte(`{"email": "lol@test.cd", "password": "pass"}`),
			wantCode: http.StatusBadRequest,
			wantData: failure(t, msgValidation, map[string]string{"password": "password must contain at least 6 characters"}),
		},
		{
			name: "duplicate email", method: http.MethodPost, path: "/api/users/signup",
			body:     []byte(`{"email": "TAKEN@test.cd", "password": "Str0ngP@ss"}`),
			wantCode: http.StatusConflict,
			wantData: failure(t, user.ErrEmailExists.Error(), map[string]string{"email": user.ErrEmailExists.Error()}),
		},
	}
	runHTTPTests(t, env, tests)

	// still only one user for the duplicate email
	cnt, err := env.usrRepo.CountUsersByEmail(context.Background(), existing.Email)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)
	assert.Empty(t, emailsvc.GetSentMessages())

	t.Run("success", func(t *testing.T) {
		rec := env.do(httpTest{
			method: http.MethodPost, path: "/api/users/signup",
			body: []byte(`{"email": " New@Test.cd ", "password": "Str0ngP@ss"}`),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"message":"user registered successfully"`)
		assert.NotContains(t, rec.Body.String(), "Str0ngP@ss")
		assert.NotContains(t, rec.Body.String(), "password")

		var res user.AuthResult
		decodeData(t, rec, &res)
		assert.Equal(t, "new@test.cd", res.User.Email)
		assert.NotEmpty(t, res.User.ID)
		assert.NotEmpty(t, res.Token)

		// stored hashed
		usr, err := env.usrRepo.GetUserByEmail(context.Background(), "new@test.cd")
		require.NoError(t, err)
		assert.NotEqual(t, []byte("Str0ngP@ss"), usr.PasswordHash)
		assert.NoError(t, usr.CheckPassword("Str0ngP@ss"))

		// the token grants access
		rec = env.do(httpTest{path: "/api/users/profile", token: res.Token})
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		// welcome mail
		msgs := emailsvc.GetSentMessages()
		require.Len(t, msgs, 1)
		assert.Equal(t, "new@test.cd", msgs[0].To[0].Address)
		assert.Equal(t, "Welcome", msgs[0].Subject)
		assert.Contains(t, msgs[0].TextContent, "new@test.cd")
		assert.Contains(t, msgs[0].HTMLContent, "new@test.cd")
	})
}

func Test_userApi_login(t *testing.T) {
	env := setup(t)
	usr := testutil.CreateUser(t, env.usrRepo, "user@test.cd", "Str0ngP@ss")

	tests := []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/api/users/login",
			body:     []byte(`{"email": "user@test.cd"}`),
			wantCode: http.StatusBadRequest,
			wantData: failure(t, msgValidation, map[string]string{"password": "this field is required"}),
		},
		{
			name: "mistyped field", method: http.MethodPost, path: "/api/users/login",
			body:     []byte(`{"email": "user@test.cd", "password": 123456}`),
			wantCode: http.StatusBadRequest,
			wantData: failure(t, msgValidation, map[string]string{"password": "password must be of type string"}),
		},
		{
			name: "unknown email", method: http.MethodPost, path: "/api/users/login",
			body:     []byte(`{"email": "lol@test.cd", "password": "Str0ngP@ss"}`),
			wantCode: http.StatusUnauthorized, wantData: failure(t, "invalid email or password"),
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/api/users/login",
			body:     []byte(`{"email": "user@test.cd", "password": "WrongP@ss"}`),
			wantCode: http.StatusUnauthorized, wantData: failure(t, "invalid email or password"),
		},
	}
	runHTTPTests(t, env, tests)

	t.Run("success", func(t *testing.T) {
		rec := env.do(httpTest{
			method: http.MethodPost, path: "/api/users/login",
			body: []byte(`{"email": "USER@test.cd", "password": "Str0ngP@ss"}`),
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res user.AuthResult
		decodeData(t, rec, &res)
		assert.Equal(t, usr.ID, res.User.ID)
		assert.NotEmpty(t, res.Token)
	})
}

func Test_userApi_profile(t *testing.T) {
	env := setup(t)
	usr := testutil.CreateUser(t, env.usrRepo, "user@test.cd", "Str0ngP@ss")
	token := getToken(t, env.conf, usr)

	// signed with the right key but expired
	expired := func() string {
		claims := user.Claims{
			UserID: usr.ID,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   usr.ID,
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		tk, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testutil.SecretKey))
		require.NoError(t, err)
		return tk
	}()
	wrongKey := func() string {
		otherConf := testutil.NewTestConfig()
		otherConf.SecretKey = "another-secret"
		return getToken(t, otherConf, usr)
	}()
	ghost := getToken(t, env.conf, user.User{ID: "9d7e8a36-93c4-4c52-9b7f-0e0c0b4f5a11", Email: "ghost@test.cd"})

	tests := []httpTest{
		{name: "no token", path: "/api/users/profile", wantCode: http.StatusUnauthorized, wantData: failure(t, msgNoToken)},
		{name: "malformed token", path: "/api/users/profile", token: "lol", wantCode: http.StatusUnauthorized, wantData: failure(t, user.ErrTokenInvalid.Error())},
		{name: "wrong key", path: "/api/users/profile", token: wrongKey, wantCode: http.StatusUnauthorized, wantData: failure(t, user.ErrTokenInvalid.Error())},
		{name: "expired", path: "/api/users/profile", token: expired, wantCode: http.StatusUnauthorized, wantData: failure(t, user.ErrTokenExpired.Error())},
		{name: "deleted user", path: "/api/users/profile", token: ghost, wantCode: http.StatusUnauthorized, wantData: failure(t, user.ErrTokenUserNotFound.Error())},
		{
			name: "success", path: "/api/users/profile", token: token,
			wantCode: http.StatusOK, wantData: success(t, "", map[string]interface{}{"user": usr}),
		},
	}
	runHTTPTests(t, env, tests)

	t.Run("not a bearer token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/users/profile")
		req.Header.Set("Authorization", "Token "+token)
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnauthorized,
			wantData: failure(t, "access denied: invalid token format, use Bearer <token>"),
		}, rec)
	})

	t.Run("password never leaks", func(t *testing.T) {
		rec := env.do(httpTest{path: "/api/users/profile", token: token})
		assert.False(t, strings.Contains(strings.ToLower(rec.Body.String()), "password"), rec.Body.String())
	})
}
