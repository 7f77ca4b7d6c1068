package mongorepos

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/quiz"
)

type questionDoc struct {
	Question      string   `bson:"question"`
	Options       []string `bson:"options"`
	CorrectAnswer int      `bson:"correctAnswer"`
	Points        int      `bson:"points"`
}

type quizDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Subject     string             `bson:"subject"`
	Instructor  string             `bson:"instructor"`
	Duration    int                `bson:"duration"`
	TotalPoints int                `bson:"totalPoints"`
	Questions   []questionDoc      `bson:"questions"`
	IsActive    bool               `bson:"isActive"`
	StartDate   time.Time          `bson:"startDate"`
	EndDate     time.Time          `bson:"endDate"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func newQuizDoc(qz quiz.Quiz) quizDoc {
	doc := quizDoc{
		Title:       qz.Title,
		Description: qz.Description,
		Subject:     qz.Subject,
		Instructor:  qz.Instructor,
		Duration:    qz.Duration,
		TotalPoints: qz.TotalPoints,
		Questions:   make([]questionDoc, 0, len(qz.Questions)),
		IsActive:    qz.IsActive,
		StartDate:   qz.StartDate,
		EndDate:     qz.EndDate,
		CreatedAt:   qz.CreatedAt,
		UpdatedAt:   qz.UpdatedAt,
	}
	for _, qn := range qz.Questions {
		qd := questionDoc{Question: qn.Text, Options: qn.Options, Points: qn.Points}
		if qn.CorrectAnswer != nil {
			qd.CorrectAnswer = *qn.CorrectAnswer
		}
		doc.Questions = append(doc.Questions, qd)
	}
	return doc
}

func (doc quizDoc) quiz() quiz.Quiz {
	qz := quiz.Quiz{
		ID:          doc.ID.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		Subject:     doc.Subject,
		Instructor:  doc.Instructor,
		Duration:    doc.Duration,
		TotalPoints: doc.TotalPoints,
		Questions:   make([]quiz.Question, 0, len(doc.Questions)),
		IsActive:    doc.IsActive,
		StartDate:   utc(doc.StartDate),
		EndDate:     utc(doc.EndDate),
		CreatedAt:   utc(doc.CreatedAt),
		UpdatedAt:   utc(doc.UpdatedAt),
	}
	for _, qd := range doc.Questions {
		ans := qd.CorrectAnswer
		qz.Questions = append(qz.Questions, quiz.Question{
			Text:          qd.Question,
			Options:       qd.Options,
			CorrectAnswer: &ans,
			Points:        qd.Points,
		})
	}
	return qz
}

type quizRepository struct {
	coll *mongo.Collection
}

var _ quiz.Repository = (*quizRepository)(nil)

func NewQuizRepository(db *mongo.Database) quiz.Repository {
	return &quizRepository{coll: db.Collection(quizzesCollection)}
}

func (repo *quizRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]quiz.Quiz, error) {
	cur, err := repo.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Wrap(err, "finding quizzes")
	}
	var docs []quizDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding quizzes")
	}

	quizzes := make([]quiz.Quiz, 0, len(docs))
	for _, doc := range docs {
		quizzes = append(quizzes, doc.quiz())
	}
	return quizzes, nil
}

func (repo *quizRepository) CreateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	doc := newQuizDoc(qz)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "inserting quiz")
	}
	return doc.quiz(), nil
}

func (repo *quizRepository) GetQuiz(ctx context.Context, id string) (quiz.Quiz, error) {
	oid, err := parseID(id)
	if err != nil {
		return quiz.Quiz{}, err
	}

	var doc quizDoc
	if err = repo.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return quiz.Quiz{}, quiz.ErrNotFound
		}
		return quiz.Quiz{}, errors.Wrap(err, "finding quiz")
	}
	return doc.quiz(), nil
}

// containsFold matches a case-insensitive substring.
func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func (repo *quizRepository) QueryQuizzes(ctx context.Context, filter quiz.QueryFilter, page core.PageRequest) ([]quiz.Quiz, int64, error) {
	query := bson.M{}
	if filter.Subject != "" {
		query["subject"] = containsFold(filter.Subject)
	}
	if filter.Instructor != "" {
		query["instructor"] = containsFold(filter.Instructor)
	}
	if filter.IsActive != nil {
		query["isActive"] = *filter.IsActive
	}

	total, err := repo.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting quizzes")
	}
	quizzes, err := repo.find(ctx, query, findOptions(page, newestFirst))
	return quizzes, total, err
}

func (repo *quizRepository) QueryActiveQuizzes(ctx context.Context, at time.Time) ([]quiz.Quiz, error) {
	query := bson.M{
		"isActive":  true,
		"startDate": bson.M{"$lte": at},
		"endDate":   bson.M{"$gte": at},
	}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})
	return repo.find(ctx, query, opts)
}

func (repo *quizRepository) UpdateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	oid, err := parseID(qz.ID)
	if err != nil {
		return quiz.Quiz{}, err
	}

	doc := newQuizDoc(qz)
	update := bson.M{"$set": bson.M{
		"title":       doc.Title,
		"description": doc.Description,
		"subject":     doc.Subject,
		"instructor":  doc.Instructor,
		"duration":    doc.Duration,
		"totalPoints": doc.TotalPoints,
		"questions":   doc.Questions,
		"isActive":    doc.IsActive,
		"startDate":   doc.StartDate,
		"endDate":     doc.EndDate,
		"updatedAt":   doc.UpdatedAt,
	}}
	res, err := repo.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "updating quiz")
	}
	if res.MatchedCount == 0 {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	return repo.GetQuiz(ctx, qz.ID)
}

func (repo *quizRepository) DeleteQuiz(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "deleting quiz")
	}
	if res.DeletedCount == 0 {
		return quiz.ErrNotFound
	}
	return nil
}
