package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/quiz"
)

type questionRecord struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Points        int      `json:"points"`
}

// questionsJSON is stored in a JSONB column.
type questionsJSON []questionRecord

func (qs questionsJSON) Value() (driver.Value, error) {
	if qs == nil {
		qs = questionsJSON{}
	}
	return json.Marshal(qs)
}

func (qs *questionsJSON) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*qs = questionsJSON{}
		return nil
	default:
		return errors.Errorf("questions: cannot scan %T", src)
	}
	return json.Unmarshal(data, qs)
}

type quizRow struct {
	ID          string        `db:"id"`
	Title       string        `db:"title"`
	Description string        `db:"description"`
	Subject     string        `db:"subject"`
	Instructor  string        `db:"instructor"`
	Duration    int           `db:"duration"`
	TotalPoints int           `db:"total_points"`
	Questions   questionsJSON `db:"questions"`
	IsActive    bool          `db:"is_active"`
	StartDate   time.Time     `db:"start_date"`
	EndDate     time.Time     `db:"end_date"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

func newQuizRow(qz quiz.Quiz) quizRow {
	row := quizRow{
		ID:          qz.ID,
		Title:       qz.Title,
		Description: qz.Description,
		Subject:     qz.Subject,
		Instructor:  qz.Instructor,
		Duration:    qz.Duration,
		TotalPoints: qz.TotalPoints,
		Questions:   make(questionsJSON, 0, len(qz.Questions)),
		IsActive:    qz.IsActive,
		StartDate:   qz.StartDate.UTC(),
		EndDate:     qz.EndDate.UTC(),
		CreatedAt:   qz.CreatedAt.UTC(),
		UpdatedAt:   qz.UpdatedAt.UTC(),
	}
	for _, qn := range qz.Questions {
		rec := questionRecord{Question: qn.Text, Options: qn.Options, Points: qn.Points}
		if qn.CorrectAnswer != nil {
			rec.CorrectAnswer = *qn.CorrectAnswer
		}
		row.Questions = append(row.Questions, rec)
	}
	return row
}

func (r quizRow) quiz() quiz.Quiz {
	qz := quiz.Quiz{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Subject:     r.Subject,
		Instructor:  r.Instructor,
		Duration:    r.Duration,
		TotalPoints: r.TotalPoints,
		Questions:   make([]quiz.Question, 0, len(r.Questions)),
		IsActive:    r.IsActive,
		StartDate:   r.StartDate.UTC(),
		EndDate:     r.EndDate.UTC(),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	for _, rec := range r.Questions {
		ans := rec.CorrectAnswer
		qz.Questions = append(qz.Questions, quiz.Question{
			Text:          rec.Question,
			Options:       rec.Options,
			CorrectAnswer: &ans,
			Points:        rec.Points,
		})
	}
	return qz
}

func quizzesFromRows(rows []quizRow) []quiz.Quiz {
	quizzes := make([]quiz.Quiz, 0, len(rows))
	for _, r := range rows {
		quizzes = append(quizzes, r.quiz())
	}
	return quizzes
}

type quizRepository struct {
	db *sqlx.DB
}

var _ quiz.Repository = (*quizRepository)(nil)

func NewQuizRepository(db *sqlx.DB) quiz.Repository {
	return &quizRepository{db: db}
}

func (repo *quizRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *quizRepository) CreateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	qz.ID = uuid.NewString()
	row := newQuizRow(qz)
	q := `INSERT INTO quizzes (id, title, description, subject, instructor, duration, total_points, questions,
			is_active, start_date, end_date, created_at, updated_at)
		VALUES (:id, :title, :description, :subject, :instructor, :duration, :total_points, :questions,
			:is_active, :start_date, :end_date, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "inserting quiz")
	}
	return row.quiz(), nil
}

func (repo *quizRepository) GetQuiz(ctx context.Context, id string) (quiz.Quiz, error) {
	if err := checkID(id); err != nil {
		return quiz.Quiz{}, err
	}
	var row quizRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM quizzes WHERE id = $1", id); err != nil {
		return quiz.Quiz{}, repo.trapNoRowsErr(err, "finding quiz")
	}
	return row.quiz(), nil
}

// likePattern escapes LIKE wildcards in s.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func (repo *quizRepository) QueryQuizzes(ctx context.Context, filter quiz.QueryFilter, page core.PageRequest) ([]quiz.Quiz, int64, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Subject != "" {
		args = append(args, likePattern(filter.Subject))
		conds = append(conds, "subject ILIKE $"+strconv.Itoa(len(args)))
	}
	if filter.Instructor != "" {
		args = append(args, likePattern(filter.Instructor))
		conds = append(conds, "instructor ILIKE $"+strconv.Itoa(len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conds = append(conds, "is_active = $"+strconv.Itoa(len(args)))
	}
	where := whereClause(conds)

	var total int64
	if err := repo.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM quizzes"+where, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting quizzes")
	}

	q, args := paginate("SELECT * FROM quizzes"+where+" ORDER BY created_at DESC, id DESC", args, page)
	var rows []quizRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying quizzes")
	}
	return quizzesFromRows(rows), total, nil
}

func (repo *quizRepository) QueryActiveQuizzes(ctx context.Context, at time.Time) ([]quiz.Quiz, error) {
	var rows []quizRow
	q := `SELECT * FROM quizzes WHERE is_active AND start_date <= $1 AND end_date >= $1 ORDER BY start_date ASC`
	if err := repo.db.SelectContext(ctx, &rows, q, at.UTC()); err != nil {
		return nil, errors.Wrap(err, "querying active quizzes")
	}
	return quizzesFromRows(rows), nil
}

func (repo *quizRepository) UpdateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	if err := checkID(qz.ID); err != nil {
		return quiz.Quiz{}, err
	}
	row := newQuizRow(qz)
	q := `UPDATE quizzes
		SET title = $2, description = $3, subject = $4, instructor = $5, duration = $6, total_points = $7,
			questions = $8, is_active = $9, start_date = $10, end_date = $11, updated_at = $12
		WHERE id = $1 RETURNING *`
	var updated quizRow
	err := repo.db.GetContext(ctx, &updated, q,
		row.ID, row.Title, row.Description, row.Subject, row.Instructor, row.Duration, row.TotalPoints,
		row.Questions, row.IsActive, row.StartDate, row.EndDate, row.UpdatedAt)
	if err != nil {
		return quiz.Quiz{}, repo.trapNoRowsErr(err, "updating quiz")
	}
	return updated.quiz(), nil
}

func (repo *quizRepository) DeleteQuiz(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res, err := repo.db.ExecContext(ctx, "DELETE FROM quizzes WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting quiz")
	}
	if n, err := res.RowsAffected(); err != nil {
		return errors.Wrap(err, "deleting quiz")
	} else if n == 0 {
		return quiz.ErrNotFound
	}
	return nil
}
