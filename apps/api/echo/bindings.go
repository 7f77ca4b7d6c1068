package echoapi

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studentportal/core"
)

const (
	pageParam  = "page"
	limitParam = "limit"
)

// bindJSON strictly decodes the request body into dest: unknown fields and mistyped values are ValidationErrors.
// An empty body leaves dest untouched.
func bindJSON(ctx echo.Context, dest interface{}) error {
	dec := json.NewDecoder(ctx.Request().Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dest)
	if err == nil || err == io.EOF {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		fld := typeErr.Field
		if fld == "" {
			return core.NewValidationError(errors.New("request body must be a JSON object"))
		}
		return core.NewValidationError(err, core.FieldError{
			Field: fld,
			Error: fld + " must be of type " + jsonTypeName(typeErr.Type.Kind().String()),
		})
	case errors.As(err, &syntaxErr), err == io.ErrUnexpectedEOF:
		return core.NewValidationError(errors.New("request body is not valid JSON"))
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		fld := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return core.NewValidationError(err, core.FieldError{Field: fld, Error: "unknown field"})
	}
	// e.g. time.ParseError on dates
	return core.NewValidationError(errors.Wrap(err, "invalid request body"))
}

func jsonTypeName(kind string) string {
	switch {
	case strings.HasPrefix(kind, "int"), strings.HasPrefix(kind, "uint"), strings.HasPrefix(kind, "float"):
		return "number"
	case kind == "slice", kind == "array":
		return "array"
	case kind == "struct", kind == "map", kind == "ptr":
		return "object"
	}
	return kind
}

// bindPage reads `page` and `limit` from the query string.
// page defaults to 1, limit to conf.Server.DefaultPageLimit and is capped at conf.Server.MaxPageLimit.
func bindPage(ctx echo.Context, conf *core.Config) (core.PageRequest, error) {
	page, limit := 1, conf.Server.DefaultPageLimit
	var flds []core.FieldError

	parse := func(param string, dest *int) {
		raw := ctx.QueryParam(param)
		if raw == "" {
			return
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			flds = append(flds, core.FieldError{Field: param, Error: param + " must be a positive integer"})
			return
		}
		*dest = v
	}
	parse(pageParam, &page)
	parse(limitParam, &limit)

	if flds != nil {
		return core.PageRequest{}, core.NewValidationError(nil, flds...)
	}
	if conf.Server.MaxPageLimit > 0 && limit > conf.Server.MaxPageLimit {
		limit = conf.Server.MaxPageLimit
	}
	return core.NewPageRequest(page, limit), nil
}

// boolQuery returns nil when param is not set; only "true" is true.
func boolQuery(ctx echo.Context, param string) *bool {
	raw, ok := ctx.QueryParams()[param]
	if !ok || len(raw) == 0 {
		return nil
	}
	b := raw[0] == "true"
	return &b
}
