package user

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/trezcool/studentportal/core"
)

func TestMakeParseToken(t *testing.T) {
	tc := tokenConfig{key: []byte("secret"), issuer: "test", ttl: time.Hour}
	usr := User{ID: "9d7e8a36-93c4-4c52-9b7f-0e0c0b4f5a11", Email: "t@test.cd"}

	validToken, err := tc.makeToken(usr)
	if err != nil {
		t.Fatalf("makeToken() failed: %v", err)
	}

	// generate an expired token
	NowFunc = func() time.Time { return time.Now().Add(-2 * tc.ttl) }
	expiredToken, _ := tc.makeToken(usr)
	NowFunc = time.Now // reset

	otherKey := tokenConfig{key: []byte("other"), ttl: time.Hour}
	wrongSigToken, _ := otherKey.makeToken(usr)

	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:           usr.ID,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noExpToken, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: usr.ID}).SignedString(tc.key)

	subOnlyToken, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   usr.ID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(tc.key)

	tests := []struct {
		name    string
		tc      tokenConfig
		token   string
		wantErr error
		wantID  string
	}{
		{name: "no secret", tc: tokenConfig{ttl: time.Hour}, token: validToken, wantErr: core.ErrServerConfiguration},
		{name: "no token", tc: tc, wantErr: errInvalidToken},
		{name: "malformed", tc: tc, token: "lmaooolol", wantErr: errInvalidToken},
		{name: "wrong signature", tc: tc, token: wrongSigToken, wantErr: errInvalidToken},
		{name: "alg none", tc: tc, token: noneToken, wantErr: errInvalidToken},
		{name: "no expiry", tc: tc, token: noExpToken, wantErr: errInvalidToken},
		{name: "expired token", tc: tc, token: expiredToken, wantErr: errTokenExpired},
		{name: "subject fallback", tc: tc, token: subOnlyToken, wantID: usr.ID},
		{name: "valid token", tc: tc, token: validToken, wantID: usr.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tt.tc.parseToken(tt.token)
			if err != tt.wantErr {
				t.Fatalf("parseToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && claims.UserID != tt.wantID {
				t.Errorf("parseToken() userId = %v, want %v", claims.UserID, tt.wantID)
			}
		})
	}
}

func TestMakeToken_noSecret(t *testing.T) {
	if _, err := MakeToken(User{ID: "1"}, &core.Config{}); err != core.ErrServerConfiguration {
		t.Errorf("MakeToken() error = %v, wantErr %v", err, core.ErrServerConfiguration)
	}
}
