package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Envelope wraps every response body.
type Envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func respond(ctx echo.Context, code int, msg string, data interface{}) error {
	return ctx.JSON(code, Envelope{Status: statusSuccess, Message: msg, Data: data})
}

func ok(ctx echo.Context, data interface{}) error {
	return respond(ctx, http.StatusOK, "", data)
}

func created(ctx echo.Context, msg string, data interface{}) error {
	return respond(ctx, http.StatusCreated, msg, data)
}

func routeNotFound(ctx echo.Context) error {
	return echo.NewHTTPError(http.StatusNotFound, "route "+ctx.Request().URL.Path+" not found")
}
