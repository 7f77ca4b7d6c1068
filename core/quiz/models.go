package quiz

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studentportal/core"
)

const defaultPoints = 1

type Question struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer,omitempty"` // nil when hidden
	Points        int      `json:"points"`
}

type Quiz struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Subject     string     `json:"subject"`
	Instructor  string     `json:"instructor"`
	Duration    int        `json:"duration"` // minutes
	TotalPoints int        `json:"totalPoints"`
	Questions   []Question `json:"questions"`
	IsActive    bool       `json:"isActive"`
	StartDate   time.Time  `json:"startDate"` // UTC
	EndDate     time.Time  `json:"endDate"`   // UTC
	CreatedAt   time.Time  `json:"createdAt"` // UTC
	UpdatedAt   time.Time  `json:"updatedAt"` // UTC
}

// WithoutAnswers returns a copy of the quiz with every correct answer hidden.
func (q Quiz) WithoutAnswers() Quiz {
	qs := make([]Question, len(q.Questions))
	for i, qn := range q.Questions {
		qn.Options = append([]string(nil), qn.Options...)
		qn.CorrectAnswer = nil
		qs[i] = qn
	}
	q.Questions = qs
	return q
}

// SumPoints returns the sum of the questions points.
func SumPoints(questions []Question) int {
	var total int
	for _, qn := range questions {
		total += qn.Points
	}
	return total
}

// NewQuestion is a question as submitted by a client.
type NewQuestion struct {
	Text          string   `json:"question" validate:"required,notblank,max=500"`
	Options       []string `json:"options" validate:"required,min=2,dive,required,notblank,max=200"`
	CorrectAnswer *int     `json:"correctAnswer" validate:"required,min=0"`
	Points        *int     `json:"points" validate:"omitempty,min=1"`
}

func (nq *NewQuestion) clean() {
	nq.Text = core.CleanString(nq.Text)
	for i := range nq.Options {
		nq.Options[i] = core.CleanString(nq.Options[i])
	}
	if nq.Points == nil {
		p := defaultPoints
		nq.Points = &p
	}
}

func (nq NewQuestion) toQuestion() Question {
	qn := Question{
		Text:    nq.Text,
		Options: append([]string(nil), nq.Options...),
		Points:  defaultPoints,
	}
	if nq.CorrectAnswer != nil {
		ans := *nq.CorrectAnswer
		qn.CorrectAnswer = &ans
	}
	if nq.Points != nil {
		qn.Points = *nq.Points
	}
	return qn
}

func fromQuestion(qn Question) NewQuestion {
	nq := NewQuestion{
		Text:    qn.Text,
		Options: append([]string(nil), qn.Options...),
	}
	if qn.CorrectAnswer != nil {
		ans := *qn.CorrectAnswer
		nq.CorrectAnswer = &ans
	}
	pts := qn.Points
	nq.Points = &pts
	return nq
}

// NewQuiz contains information needed to create a new Quiz.
type NewQuiz struct {
	Title       string          `json:"title" validate:"required,notblank,max=200"`
	Description string          `json:"description" validate:"required,notblank,max=1000"`
	Subject     string          `json:"subject" validate:"required,notblank,max=100"`
	Instructor  string          `json:"instructor" validate:"required,notblank,max=100"`
	Duration    int             `json:"duration" validate:"required,min=5,max=300"`
	TotalPoints json.RawMessage `json:"totalPoints"` // ignored, always derived from the questions
	Questions   []NewQuestion   `json:"questions" validate:"required,min=1,dive"`
	IsActive    *bool           `json:"isActive"`
	StartDate   time.Time       `json:"startDate" validate:"required"`
	EndDate     time.Time       `json:"endDate" validate:"required"`
}

// Clean trims inputs and applies defaults.
func (nq *NewQuiz) Clean() {
	nq.Title = core.CleanString(nq.Title)
	nq.Description = core.CleanString(nq.Description)
	nq.Subject = core.CleanString(nq.Subject)
	nq.Instructor = core.CleanString(nq.Instructor)
	for i := range nq.Questions {
		nq.Questions[i].clean()
	}
	if nq.IsActive == nil {
		active := true
		nq.IsActive = &active
	}
	nq.StartDate = nq.StartDate.UTC()
	nq.EndDate = nq.EndDate.UTC()
}

func (nq *NewQuiz) Validate(validate *validator.Validate) error {
	nq.Clean()
	return validate.Struct(nq)
}

func (nq NewQuiz) questions() []Question {
	qs := make([]Question, 0, len(nq.Questions))
	for _, q := range nq.Questions {
		qs = append(qs, q.toQuestion())
	}
	return qs
}

// UpdateQuiz defines what information may be provided to modify an existing Quiz.
// Nil fields are left untouched; Questions replaces the whole list when set.
type UpdateQuiz struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Subject     *string         `json:"subject"`
	Instructor  *string         `json:"instructor"`
	Duration    *int            `json:"duration"`
	TotalPoints json.RawMessage `json:"totalPoints"` // ignored
	Questions   []NewQuestion   `json:"questions"`
	IsActive    *bool           `json:"isActive"`
	StartDate   *time.Time      `json:"startDate"`
	EndDate     *time.Time      `json:"endDate"`
}

func (uq UpdateQuiz) IsEmpty() bool {
	return uq.Title == nil && uq.Description == nil && uq.Subject == nil && uq.Instructor == nil &&
		uq.Duration == nil && uq.Questions == nil && uq.IsActive == nil && uq.StartDate == nil &&
		uq.EndDate == nil && len(uq.TotalPoints) == 0
}

// Merge applies the patch on top of orig.
func (uq UpdateQuiz) Merge(orig Quiz) NewQuiz {
	nq := NewQuiz{
		Title:       orig.Title,
		Description: orig.Description,
		Subject:     orig.Subject,
		Instructor:  orig.Instructor,
		Duration:    orig.Duration,
		IsActive:    &orig.IsActive,
		StartDate:   orig.StartDate,
		EndDate:     orig.EndDate,
	}
	for _, qn := range orig.Questions {
		nq.Questions = append(nq.Questions, fromQuestion(qn))
	}

	if uq.Title != nil {
		nq.Title = *uq.Title
	}
	if uq.Description != nil {
		nq.Description = *uq.Description
	}
	if uq.Subject != nil {
		nq.Subject = *uq.Subject
	}
	if uq.Instructor != nil {
		nq.Instructor = *uq.Instructor
	}
	if uq.Duration != nil {
		nq.Duration = *uq.Duration
	}
	if uq.Questions != nil {
		nq.Questions = uq.Questions
	}
	if uq.IsActive != nil {
		nq.IsActive = uq.IsActive
	}
	if uq.StartDate != nil {
		nq.StartDate = *uq.StartDate
	}
	if uq.EndDate != nil {
		nq.EndDate = *uq.EndDate
	}
	return nq
}

// QueryFilter applies AND operation on set fields.
// Subject and Instructor do a case-insensitive substring match.
type QueryFilter struct {
	Subject    string
	Instructor string
	IsActive   *bool
}

func (qf *QueryFilter) Clean() {
	qf.Subject = core.CleanString(qf.Subject)
	qf.Instructor = core.CleanString(qf.Instructor)
}
