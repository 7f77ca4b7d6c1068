package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/user"
)

const (
	msgValidationError     = "validation error"
	msgInternalServerError = "internal server error"
	msgDuplicate           = "a record with this value already exists"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, env := errorEnvelope(err, translator)

		if code == http.StatusInternalServerError {
			usr, _ := ctx.Get(contextUserKey).(user.User)
			logger.Error(
				msgInternalServerError,
				errors.Wrap(err, msgInternalServerError),
				map[string]interface{}{
					"method":    ctx.Request().Method,
					"path":      ctx.Request().URL.Path,
					"requestId": ctx.Response().Header().Get(echo.HeaderXRequestID),
				},
				usr,
			)
			if ctx.Echo().Debug {
				env.Message = err.Error()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, env)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// errorEnvelope maps err to a status code and an error envelope.
func errorEnvelope(err error, translator ut.Translator) (int, Envelope) {
	env := Envelope{Status: statusError}

	switch origErr := errors.Cause(err).(type) {
	case *echo.HTTPError:
		if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
			origErr = herr
		}
		env.Message = fmt.Sprint(origErr.Message)
		if origErr.Code >= http.StatusInternalServerError {
			env.Message = msgInternalServerError
		}
		return origErr.Code, env

	case validator.ValidationErrors:
		env.Message = msgValidationError
		env.Errors = fieldErrorMap(core.TranslateFieldErrors(origErr, translator))
		return http.StatusBadRequest, env

	case *core.ValidationError:
		if origErr.Fields != nil {
			env.Message = msgValidationError
			env.Errors = fieldErrorMap(origErr.Fields)
		} else {
			env.Message = origErr.Error()
		}
		return http.StatusBadRequest, env

	case *core.BadRequestError:
		env.Message = origErr.Error()
		return http.StatusBadRequest, env

	case *core.UnauthorizedError:
		env.Message = origErr.Error()
		return http.StatusUnauthorized, env

	case *core.NotFoundError:
		env.Message = origErr.Error()
		return http.StatusNotFound, env

	case *core.ConflictError:
		env.Message = origErr.Error()
		if origErr.Field != "" {
			env.Errors = map[string]string{origErr.Field: origErr.Error()}
		}
		return http.StatusConflict, env
	}

	// duplicates leaked by a repository
	if mongo.IsDuplicateKeyError(err) {
		env.Message = msgDuplicate
		return http.StatusConflict, env
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		env.Message = msgDuplicate
		return http.StatusConflict, env
	}

	if errors.Cause(err) == core.ErrServerConfiguration {
		env.Message = core.ErrServerConfiguration.Error()
	} else {
		env.Message = msgInternalServerError
	}
	return http.StatusInternalServerError, env
}

func fieldErrorMap(flds []core.FieldError) map[string]string {
	m := make(map[string]string, len(flds))
	for _, fld := range flds {
		if _, ok := m[fld.Field]; !ok { // keep the first error of a field
			m[fld.Field] = fld.Error
		}
	}
	return m
}
