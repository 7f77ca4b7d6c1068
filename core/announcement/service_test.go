package announcement_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/announcement"
	inmemdb "github.com/trezcool/studentportal/storage/database/inmem"
	"github.com/trezcool/studentportal/tests"
)

func newService() (announcement.Service, announcement.Repository) {
	validate, _ := testutil.NewValidator()
	repo := inmemdb.NewAnnouncementRepository(inmemdb.New())
	return announcement.NewService(repo, validate), repo
}

func strPtr(s string) *string { return &s }

func TestService_Create(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	tests := []struct {
		name     string
		data     announcement.NewAnnouncement
		wantTags map[string]string
	}{
		{
			name:     "empty",
			wantTags: map[string]string{"title": "required", "content": "required", "author": "required"},
		},
		{
			name:     "blank title",
			data:     announcement.NewAnnouncement{Title: " \t ", Content: "c", Author: "a"},
			wantTags: map[string]string{"title": "required"},
		},
		{
			name:     "unknown priority",
			data:     announcement.NewAnnouncement{Title: "t", Content: "c", Author: "a", Priority: "urgent"},
			wantTags: map[string]string{"priority": "oneof"},
		},
		{
			name: "too long",
			data: announcement.NewAnnouncement{
				Title:   strings.Repeat("a", 201),
				Content: "c",
				Author:  "a",
			},
			wantTags: map[string]string{"title": "max"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.data)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			tags := make(map[string]string)
			for _, fe := range verrs {
				tags[core.FieldPath(fe)] = fe.Tag()
			}
			assert.Equal(t, tt.wantTags, tags)
		})
	}

	// nothing persisted
	_, total, err := repo.QueryAnnouncements(ctx, announcement.QueryFilter{}, core.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.Zero(t, total)

	ann, err := svc.Create(ctx, announcement.NewAnnouncement{Title: " Exams ", Content: "Next week", Author: "Dean"})
	require.NoError(t, err)
	assert.Equal(t, "Exams", ann.Title)
	assert.Equal(t, announcement.PriorityMedium, ann.Priority)
	assert.True(t, ann.IsActive)
	assert.Equal(t, ann.CreatedAt, ann.UpdatedAt)
}

func TestService_Query(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	now := time.Now()
	for i := 0; i < 15; i++ {
		testutil.CreateAnnouncement(t, repo, fmt.Sprintf("Announcement %02d", i), announcement.PriorityLow, i%3 != 0, now.Add(time.Duration(i)*time.Minute))
	}

	anns, pag, err := svc.Query(ctx, announcement.QueryFilter{}, core.NewPageRequest(2, 5))
	require.NoError(t, err)
	require.Len(t, anns, 5)
	assert.Equal(t, "Announcement 09", anns[0].Title)
	assert.Equal(t, "Announcement 05", anns[4].Title)
	assert.Equal(t, core.Pagination{Total: 15, Page: 2, Limit: 5, PageCount: 3}, pag)

	inactive := false
	anns, pag, err = svc.Query(ctx, announcement.QueryFilter{IsActive: &inactive}, core.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.Len(t, anns, 5)
	assert.EqualValues(t, 5, pag.Total)

	anns, pag, err = svc.Query(ctx, announcement.QueryFilter{Priority: "HIGH"}, core.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.NotNil(t, anns)
	assert.Empty(t, anns)
	assert.Zero(t, pag.PageCount)
}

func TestService_Update(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	orig := testutil.CreateAnnouncement(t, repo, "Exams", announcement.PriorityHigh, true, time.Now().Add(-time.Hour))

	_, err := svc.Update(ctx, orig.ID, announcement.UpdateAnnouncement{})
	assert.Equal(t, core.ErrEmptyBody, err)

	_, err = svc.Update(ctx, "lol", announcement.UpdateAnnouncement{Title: strPtr("x")})
	assert.Equal(t, core.ErrInvalidID, errors.Cause(err))

	_, err = svc.Update(ctx, "9d7e8a36-93c4-4c52-9b7f-0e0c0b4f5a11", announcement.UpdateAnnouncement{Title: strPtr("x")})
	assert.Equal(t, announcement.ErrNotFound, errors.Cause(err))

	_, err = svc.Update(ctx, orig.ID, announcement.UpdateAnnouncement{Title: strPtr("  ")})
	assert.True(t, core.IsValidationError(err))

	// an explicit empty priority is not replaced by the creation default
	_, err = svc.Update(ctx, orig.ID, announcement.UpdateAnnouncement{Priority: strPtr("")})
	assert.True(t, core.IsValidationError(err))
	stored, err := repo.GetAnnouncement(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, announcement.PriorityHigh, stored.Priority)

	ann, err := svc.Update(ctx, orig.ID, announcement.UpdateAnnouncement{Priority: strPtr("Low")})
	require.NoError(t, err)
	assert.Equal(t, announcement.PriorityLow, ann.Priority)
	assert.Equal(t, orig.Title, ann.Title)
	assert.True(t, ann.CreatedAt.Equal(orig.CreatedAt))
	assert.True(t, ann.UpdatedAt.After(orig.UpdatedAt))
}

func TestService_Delete(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	ann := testutil.CreateAnnouncement(t, repo, "Exams", announcement.PriorityHigh, true)

	require.NoError(t, svc.Delete(ctx, ann.ID))
	assert.Equal(t, announcement.ErrNotFound, errors.Cause(svc.Delete(ctx, ann.ID)))
	_, err := svc.GetByID(ctx, ann.ID)
	assert.True(t, core.IsNotFound(err))
}
