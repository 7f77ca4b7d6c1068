package user

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/trezcool/studentportal/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	errInvalidToken = errors.New("invalid token")
	errTokenExpired = errors.New("token expired")
)

// Claims represents the authorization claims transmitted via a bearer token.
// The user ID is carried both as `sub` and `userId`.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type tokenConfig struct {
	key    []byte
	issuer string
	ttl    time.Duration
}

func newTokenConfig(conf *core.Config) tokenConfig {
	return tokenConfig{
		key:    []byte(conf.SecretKey),
		issuer: conf.AppName,
		ttl:    conf.Server.JWTExpirationDelta,
	}
}

// MakeToken generates a signed HS256 token for the given User.
func MakeToken(usr User, conf *core.Config) (string, error) {
	return newTokenConfig(conf).makeToken(usr)
}

func (tc tokenConfig) makeToken(usr User) (string, error) {
	if len(tc.key) == 0 {
		return "", core.ErrServerConfiguration
	}

	now := NowFunc()
	claims := Claims{
		UserID: usr.ID,
		Email:  usr.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tc.issuer,
			Subject:   usr.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttl)),
		},
	}

	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tc.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// parseToken checks the signature and expiry of a token and returns its claims.
func (tc tokenConfig) parseToken(tokenStr string) (*Claims, error) {
	if len(tc.key) == 0 {
		return nil, core.ErrServerConfiguration
	}
	if tokenStr == "" {
		return nil, errInvalidToken
	}

	claims := new(Claims)
	_, err := jwt.ParseWithClaims(
		tokenStr,
		claims,
		func(*jwt.Token) (interface{}, error) { return tc.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(NowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errTokenExpired
		}
		return nil, errInvalidToken
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, errInvalidToken
	}
	return claims, nil
}
