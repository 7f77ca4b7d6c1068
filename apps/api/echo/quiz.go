package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/quiz"
)

type quizApi struct {
	svc  quiz.Service
	conf *core.Config
}

type (
	quizListResponse struct {
		Quizzes    []quiz.Quiz     `json:"quizzes"`
		Pagination core.Pagination `json:"pagination"`
	}

	activeQuizzesResponse struct {
		Quizzes []quiz.Quiz `json:"quizzes"`
	}

	quizResponse struct {
		Quiz quiz.Quiz `json:"quiz"`
	}
)

func registerQuizAPI(g *echo.Group, auth echo.MiddlewareFunc, svc quiz.Service, conf *core.Config) {
	api := quizApi{svc: svc, conf: conf}

	qg := g.Group("/quizzes", auth)
	qg.GET("", api.query)
	qg.POST("", api.create)
	qg.GET("/active", api.queryActive) // before "/:id"
	qg.GET("/:id", api.retrieve)
	qg.PUT("/:id", api.update)
	qg.DELETE("/:id", api.destroy)
}

func withoutAnswers(qzs []quiz.Quiz) []quiz.Quiz {
	res := make([]quiz.Quiz, len(qzs))
	for i, qz := range qzs {
		res[i] = qz.WithoutAnswers()
	}
	return res
}

// Handlers

func (api *quizApi) query(ctx echo.Context) error {
	page, err := bindPage(ctx, api.conf)
	if err != nil {
		return err
	}
	filter := quiz.QueryFilter{
		Subject:    ctx.QueryParam("subject"),
		Instructor: ctx.QueryParam("instructor"),
		IsActive:   boolQuery(ctx, "isActive"),
	}

	qzs, pag, err := api.svc.Query(ctx.Request().Context(), filter, page)
	if err != nil {
		return errors.Wrap(err, "querying quizzes")
	}
	return ok(ctx, quizListResponse{Quizzes: withoutAnswers(qzs), Pagination: pag})
}

func (api *quizApi) queryActive(ctx echo.Context) error {
	qzs, err := api.svc.QueryActive(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying active quizzes")
	}
	return ok(ctx, activeQuizzesResponse{Quizzes: withoutAnswers(qzs)})
}

func (api *quizApi) retrieve(ctx echo.Context) error {
	qz, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting quiz")
	}
	if ctx.QueryParam("includeAnswers") != "true" {
		qz = qz.WithoutAnswers()
	}
	return ok(ctx, quizResponse{Quiz: qz})
}

func (api *quizApi) create(ctx echo.Context) error {
	var data quiz.NewQuiz
	if err := bindJSON(ctx, &data); err != nil {
		return err
	}

	qz, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating quiz")
	}
	return created(ctx, "quiz created successfully", quizResponse{Quiz: qz})
}

func (api *quizApi) update(ctx echo.Context) error {
	var data quiz.UpdateQuiz
	if err := bindJSON(ctx, &data); err != nil {
		return err
	}

	qz, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating quiz")
	}
	return respond(ctx, http.StatusOK, "quiz updated successfully", quizResponse{Quiz: qz})
}

func (api *quizApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting quiz")
	}
	return respond(ctx, http.StatusOK, "quiz deleted successfully", nil)
}
