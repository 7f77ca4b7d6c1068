package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/user"
)

const (
	contextUserKey = "user"
	bearerPrefix   = "Bearer "
)

var (
	errNoToken          = core.NewUnauthorizedError("access denied: no token provided")
	errBadTokenFormat   = core.NewUnauthorizedError("access denied: invalid token format, use Bearer <token>")
	errUsrNotFoundInCtx = errors.New("user object not found in echo.Context")
)

// authMiddleware verifies the bearer token and stores the caller in the echo.Context.
func authMiddleware(svc user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return errNoToken
			}
			if !strings.HasPrefix(header, bearerPrefix) {
				return errBadTokenFormat
			}
			token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
			if token == "" {
				return errNoToken
			}

			usr, err := svc.VerifyToken(ctx.Request().Context(), token)
			if err != nil {
				return err
			}
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errUsrNotFoundInCtx
}
