package announcement

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/studentportal/core"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("announcement not found")
)

type (
	Repository interface {
		CreateAnnouncement(ctx context.Context, ann Announcement) (Announcement, error)
		GetAnnouncement(ctx context.Context, id string) (Announcement, error)
		// QueryAnnouncements returns the requested page, newest first, and the total number of matches.
		QueryAnnouncements(ctx context.Context, filter QueryFilter, page core.PageRequest) ([]Announcement, int64, error)
		UpdateAnnouncement(ctx context.Context, ann Announcement) (Announcement, error)
		DeleteAnnouncement(ctx context.Context, id string) error
	}

	Service interface {
		Query(ctx context.Context, filter QueryFilter, page core.PageRequest) ([]Announcement, core.Pagination, error)
		GetByID(ctx context.Context, id string) (Announcement, error)
		Create(ctx context.Context, na NewAnnouncement) (Announcement, error)
		Update(ctx context.Context, id string, ua UpdateAnnouncement) (Announcement, error)
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

func (svc *service) Query(ctx context.Context, filter QueryFilter, page core.PageRequest) ([]Announcement, core.Pagination, error) {
	filter.Clean()
	anns, total, err := svc.repo.QueryAnnouncements(ctx, filter, page)
	if err != nil {
		return nil, core.Pagination{}, errors.Wrap(err, "querying announcements")
	}
	if anns == nil {
		anns = []Announcement{}
	}
	return anns, core.NewPagination(total, page), nil
}

func (svc *service) GetByID(ctx context.Context, id string) (Announcement, error) {
	return svc.repo.GetAnnouncement(ctx, id)
}

func (svc *service) Create(ctx context.Context, na NewAnnouncement) (Announcement, error) {
	na.SetDefaults()
	if err := na.Validate(svc.validate); err != nil {
		return Announcement{}, err
	}

	now := time.Now().UTC()
	ann, err := svc.repo.CreateAnnouncement(ctx, Announcement{
		Title:     na.Title,
		Content:   na.Content,
		Author:    na.Author,
		Priority:  na.Priority,
		IsActive:  *na.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return ann, errors.Wrap(err, "creating announcement")
}

func (svc *service) Update(ctx context.Context, id string, ua UpdateAnnouncement) (Announcement, error) {
	if ua.IsEmpty() {
		return Announcement{}, core.ErrEmptyBody
	}

	ann, err := svc.repo.GetAnnouncement(ctx, id)
	if err != nil {
		return Announcement{}, err
	}

	na := ua.Merge(ann)
	if err = na.Validate(svc.validate); err != nil {
		return Announcement{}, err
	}

	ann.Title = na.Title
	ann.Content = na.Content
	ann.Author = na.Author
	ann.Priority = na.Priority
	ann.IsActive = *na.IsActive
	ann.UpdatedAt = time.Now().UTC()

	ann, err = svc.repo.UpdateAnnouncement(ctx, ann)
	return ann, errors.Wrap(err, "updating announcement")
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteAnnouncement(ctx, id)
}
