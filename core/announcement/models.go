package announcement

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studentportal/core"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

type Announcement struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Priority  string    `json:"priority"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

// NewAnnouncement contains information needed to create a new Announcement.
type NewAnnouncement struct {
	Title    string `json:"title" validate:"required,notblank,max=200"`
	Content  string `json:"content" validate:"required,notblank,max=2000"`
	Author   string `json:"author" validate:"required,notblank,max=100"`
	Priority string `json:"priority" validate:"required,oneof=low medium high"`
	IsActive *bool  `json:"isActive"`
}

// Clean trims inputs.
func (na *NewAnnouncement) Clean() {
	na.Title = core.CleanString(na.Title)
	na.Content = core.CleanString(na.Content)
	na.Author = core.CleanString(na.Author)
	na.Priority = core.CleanString(na.Priority, true /* lower */)
}

// SetDefaults fills the priority and isActive left out on creation.
func (na *NewAnnouncement) SetDefaults() {
	na.Clean()
	if na.Priority == "" {
		na.Priority = PriorityMedium
	}
	if na.IsActive == nil {
		active := true
		na.IsActive = &active
	}
}

func (na *NewAnnouncement) Validate(validate *validator.Validate) error {
	na.Clean()
	return validate.Struct(na)
}

// UpdateAnnouncement defines what information may be provided to modify an existing Announcement.
// Nil fields are left untouched.
type UpdateAnnouncement struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Author   *string `json:"author"`
	Priority *string `json:"priority"`
	IsActive *bool   `json:"isActive"`
}

func (ua UpdateAnnouncement) IsEmpty() bool {
	return ua.Title == nil && ua.Content == nil && ua.Author == nil && ua.Priority == nil && ua.IsActive == nil
}

// Merge applies the patch on top of orig.
func (ua UpdateAnnouncement) Merge(orig Announcement) NewAnnouncement {
	na := NewAnnouncement{
		Title:    orig.Title,
		Content:  orig.Content,
		Author:   orig.Author,
		Priority: orig.Priority,
		IsActive: &orig.IsActive,
	}
	if ua.Title != nil {
		na.Title = *ua.Title
	}
	if ua.Content != nil {
		na.Content = *ua.Content
	}
	if ua.Author != nil {
		na.Author = *ua.Author
	}
	if ua.Priority != nil {
		na.Priority = *ua.Priority
	}
	if ua.IsActive != nil {
		na.IsActive = ua.IsActive
	}
	return na
}

// QueryFilter applies AND operation on set fields.
type QueryFilter struct {
	Priority string
	IsActive *bool
}

func (qf *QueryFilter) Clean() {
	qf.Priority = core.CleanString(qf.Priority, true /* lower */)
}
