package quiz

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/studentportal/core"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("quiz not found")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateQuiz(ctx context.Context, qz Quiz) (Quiz, error)
		GetQuiz(ctx context.Context, id string) (Quiz, error)
		// QueryQuizzes returns the requested page, newest first, and the total number of matches.
		QueryQuizzes(ctx context.Context, filter QueryFilter, page core.PageRequest) ([]Quiz, int64, error)
		// QueryActiveQuizzes returns active quizzes open at `at`, by ascending start date.
		QueryActiveQuizzes(ctx context.Context, at time.Time) ([]Quiz, error)
		UpdateQuiz(ctx context.Context, qz Quiz) (Quiz, error)
		DeleteQuiz(ctx context.Context, id string) error
	}

	Service interface {
		Query(ctx context.Context, filter QueryFilter, page core.PageRequest) ([]Quiz, core.Pagination, error)
		QueryActive(ctx context.Context) ([]Quiz, error)
		GetByID(ctx context.Context, id string) (Quiz, error)
		Create(ctx context.Context, nq NewQuiz) (Quiz, error)
		Update(ctx context.Context, id string, uq UpdateQuiz) (Quiz, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo     Repository
		validate *validator.Validate
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, validate *validator.Validate) Service {
	return &service{repo: repo, validate: validate}
}

func (svc *service) Query(ctx context.Context, filter QueryFilter, page core.PageRequest) ([]Quiz, core.Pagination, error) {
	filter.Clean()
	quizzes, total, err := svc.repo.QueryQuizzes(ctx, filter, page)
	if err != nil {
		return nil, core.Pagination{}, errors.Wrap(err, "querying quizzes")
	}
	if quizzes == nil {
		quizzes = []Quiz{}
	}
	return quizzes, core.NewPagination(total, page), nil
}

func (svc *service) QueryActive(ctx context.Context) ([]Quiz, error) {
	quizzes, err := svc.repo.QueryActiveQuizzes(ctx, NowFunc().UTC())
	if err != nil {
		return nil, errors.Wrap(err, "querying active quizzes")
	}
	if quizzes == nil {
		quizzes = []Quiz{}
	}
	return quizzes, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (Quiz, error) {
	return svc.repo.GetQuiz(ctx, id)
}

func (svc *service) Create(ctx context.Context, nq NewQuiz) (Quiz, error) {
	if err := nq.Validate(svc.validate); err != nil {
		return Quiz{}, err
	}

	now := time.Now().UTC()
	qz := Quiz{
		Title:       nq.Title,
		Description: nq.Description,
		Subject:     nq.Subject,
		Instructor:  nq.Instructor,
		Duration:    nq.Duration,
		Questions:   nq.questions(),
		IsActive:    *nq.IsActive,
		StartDate:   nq.StartDate,
		EndDate:     nq.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	qz.TotalPoints = SumPoints(qz.Questions)

	qz, err := svc.repo.CreateQuiz(ctx, qz)
	return qz, errors.Wrap(err, "creating quiz")
}

func (svc *service) Update(ctx context.Context, id string, uq UpdateQuiz) (Quiz, error) {
	if uq.IsEmpty() {
		return Quiz{}, core.ErrEmptyBody
	}

	qz, err := svc.repo.GetQuiz(ctx, id)
	if err != nil {
		return Quiz{}, err
	}

	nq := uq.Merge(qz)
	if err = nq.Validate(svc.validate); err != nil {
		return Quiz{}, err
	}

	qz.Title = nq.Title
	qz.Description = nq.Description
	qz.Subject = nq.Subject
	qz.Instructor = nq.Instructor
	qz.Duration = nq.Duration
	qz.Questions = nq.questions()
	qz.TotalPoints = SumPoints(qz.Questions)
	qz.IsActive = *nq.IsActive
	qz.StartDate = nq.StartDate
	qz.EndDate = nq.EndDate
	qz.UpdatedAt = time.Now().UTC()

	qz, err = svc.repo.UpdateQuiz(ctx, qz)
	return qz, errors.Wrap(err, "updating quiz")
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteQuiz(ctx, id)
}
