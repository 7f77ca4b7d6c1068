package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studentportal/core/user"
)

type userApi struct {
	svc user.Service
}

type profileResponse struct {
	User user.User `json:"user"`
}

func registerUserAPI(g *echo.Group, auth echo.MiddlewareFunc, svc user.Service) {
	api := userApi{svc: svc}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/signup", api.signup)
	ug.POST("/login", api.login)

	// authed endpoints
	ug.GET("/profile", api.profile, auth)
}

// Handlers

func (api *userApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := bindJSON(ctx, &data); err != nil {
		return err
	}

	res, err := api.svc.Signup(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "signing up")
	}
	return created(ctx, "user registered successfully", res)
}

func (api *userApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := bindJSON(ctx, &data); err != nil {
		return err
	}

	res, err := api.svc.Login(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}
	return respond(ctx, http.StatusOK, "login successful", res)
}

func (api *userApi) profile(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ok(ctx, profileResponse{User: usr})
}
