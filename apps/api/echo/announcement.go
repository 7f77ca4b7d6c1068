package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/announcement"
)

type announcementApi struct {
	svc  announcement.Service
	conf *core.Config
}

type (
	announcementListResponse struct {
		Announcements []announcement.Announcement `json:"announcements"`
		Pagination    core.Pagination             `json:"pagination"`
	}

	announcementResponse struct {
		Announcement announcement.Announcement `json:"announcement"`
	}
)

func registerAnnouncementAPI(g *echo.Group, auth echo.MiddlewareFunc, svc announcement.Service, conf *core.Config) {
	api := announcementApi{svc: svc, conf: conf}

	ag := g.Group("/announcements", auth)
	ag.GET("", api.query)
	ag.POST("", api.create)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

// Handlers

func (api *announcementApi) query(ctx echo.Context) error {
	page, err := bindPage(ctx, api.conf)
	if err != nil {
		return err
	}
	filter := announcement.QueryFilter{
		Priority: ctx.QueryParam("priority"),
		IsActive: boolQuery(ctx, "isActive"),
	}

	anns, pag, err := api.svc.Query(ctx.Request().Context(), filter, page)
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	return ok(ctx, announcementListResponse{Announcements: anns, Pagination: pag})
}

func (api *announcementApi) retrieve(ctx echo.Context) error {
	ann, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting announcement")
	}
	return ok(ctx, announcementResponse{Announcement: ann})
}

func (api *announcementApi) create(ctx echo.Context) error {
	var data announcement.NewAnnouncement
	if err := bindJSON(ctx, &data); err != nil {
		return err
	}
	// author defaults to the caller
	if core.CleanString(data.Author) == "" {
		if usr, err := getContextUser(ctx); err == nil {
			data.Author = usr.Email
		}
	}

	ann, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating announcement")
	}
	return created(ctx, "announcement created successfully", announcementResponse{Announcement: ann})
}

func (api *announcementApi) update(ctx echo.Context) error {
	var data announcement.UpdateAnnouncement
	if err := bindJSON(ctx, &data); err != nil {
		return err
	}

	ann, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating announcement")
	}
	return respond(ctx, http.StatusOK, "announcement updated successfully", announcementResponse{Announcement: ann})
}

func (api *announcementApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	return respond(ctx, http.StatusOK, "announcement deleted successfully", nil)
}
