package inmemdb

import (
	"context"
	"strings"
	"time"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/quiz"
)

type quizRepository struct {
	db *table[quiz.Quiz]
}

var _ quiz.Repository = (*quizRepository)(nil)

func NewQuizRepository(db *DB) quiz.Repository {
	return &quizRepository{db: db.quiz}
}

// copyQuiz detaches the questions from the stored record.
func copyQuiz(qz quiz.Quiz) quiz.Quiz {
	qs := make([]quiz.Question, len(qz.Questions))
	for i, qn := range qz.Questions {
		qn.Options = append([]string(nil), qn.Options...)
		if qn.CorrectAnswer != nil {
			ans := *qn.CorrectAnswer
			qn.CorrectAnswer = &ans
		}
		qs[i] = qn
	}
	qz.Questions = qs
	return qz
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (repo *quizRepository) CreateQuiz(_ context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.seq++
	qz.ID = newID()
	repo.db.rows[qz.ID] = &record[quiz.Quiz]{seq: repo.db.seq, val: copyQuiz(qz)}
	return qz, nil
}

func (repo *quizRepository) GetQuiz(_ context.Context, id string) (quiz.Quiz, error) {
	if err := checkID(id); err != nil {
		return quiz.Quiz{}, err
	}

	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.rows[id]; ok {
		return copyQuiz(r.val), nil
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) QueryQuizzes(_ context.Context, filter quiz.QueryFilter, page core.PageRequest) ([]quiz.Quiz, int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	keep := func(qz quiz.Quiz) bool {
		if filter.Subject != "" && !containsFold(qz.Subject, filter.Subject) {
			return false
		}
		if filter.Instructor != "" && !containsFold(qz.Instructor, filter.Instructor) {
			return false
		}
		if filter.IsActive != nil && qz.IsActive != *filter.IsActive {
			return false
		}
		return true
	}
	quizzes := repo.db.sorted(keep, func(a, b quiz.Quiz) bool {
		return newestFirst(a.CreatedAt, b.CreatedAt)
	})

	total := int64(len(quizzes))
	quizzes = paginate(quizzes, page)
	for i := range quizzes {
		quizzes[i] = copyQuiz(quizzes[i])
	}
	return quizzes, total, nil
}

func (repo *quizRepository) QueryActiveQuizzes(_ context.Context, at time.Time) ([]quiz.Quiz, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	keep := func(qz quiz.Quiz) bool {
		return qz.IsActive && !qz.StartDate.After(at) && !qz.EndDate.Before(at)
	}
	quizzes := repo.db.sorted(keep, func(a, b quiz.Quiz) bool {
		return a.StartDate.Before(b.StartDate)
	})
	for i := range quizzes {
		quizzes[i] = copyQuiz(quizzes[i])
	}
	return quizzes, nil
}

func (repo *quizRepository) UpdateQuiz(_ context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r, ok := repo.db.rows[qz.ID]
	if !ok {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	qz.CreatedAt = r.val.CreatedAt
	r.val = copyQuiz(qz)
	return qz, nil
}

func (repo *quizRepository) DeleteQuiz(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.rows[id]; !ok {
		return quiz.ErrNotFound
	}
	delete(repo.db.rows, id)
	return nil
}
