package mongorepos

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/quiz"
	"github.com/trezcool/studentportal/core/user"
)

func intPtr(i int) *int { return &i }

func TestQuizDoc(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	qz := quiz.Quiz{
		Title:       "Algebra",
		Description: "Chapter 1",
		Subject:     "Math",
		Instructor:  "Mr. K",
		Duration:    30,
		TotalPoints: 100,
		Questions: []quiz.Question{
			{Text: "1+1?", Options: []string{"1", "2"}, CorrectAnswer: intPtr(1), Points: 25},
			{Text: "2*2?", Options: []string{"4", "8"}, Points: 75}, // hidden answer stored as 0
		},
		IsActive:  true,
		StartDate: start,
		EndDate:   start.Add(time.Hour),
		CreatedAt: start.Add(-time.Hour),
		UpdatedAt: start.Add(-time.Hour),
	}

	doc := newQuizDoc(qz)
	assert.True(t, doc.ID.IsZero())
	doc.ID = primitive.NewObjectID()

	// through the BSON codec, as the driver does
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var decoded quizDoc
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	got := decoded.quiz()
	assert.Equal(t, doc.ID.Hex(), got.ID)
	assert.Equal(t, qz.Title, got.Title)
	assert.Equal(t, qz.Subject, got.Subject)
	assert.Equal(t, qz.TotalPoints, got.TotalPoints)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, qz.Questions[0], got.Questions[0])
	assert.Equal(t, 0, *got.Questions[1].CorrectAnswer)
	assert.True(t, qz.StartDate.Equal(got.StartDate))
	assert.True(t, qz.EndDate.Equal(got.EndDate))
	assert.Equal(t, time.UTC, got.CreatedAt.Location())
}

func TestUserDoc(t *testing.T) {
	oid := primitive.NewObjectID()
	usr := user.User{ID: oid.Hex(), Email: "a@test.cd", PasswordHash: []byte("hash")}
	doc := newUserDoc(usr)
	assert.Equal(t, oid, doc.ID)
	assert.Equal(t, usr.ID, doc.user().ID)
	assert.Equal(t, usr.PasswordHash, doc.user().PasswordHash)

	assert.True(t, newUserDoc(user.User{ID: "lol"}).ID.IsZero())
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		filter  string
		value   string
		matches bool
	}{
		{filter: "math", value: "Applied MATHS", matches: true},
		{filter: "c++", value: "Intro to C++", matches: true},
		{filter: "c++", value: "Intro to Ccc", matches: false},
		{filter: "a.b", value: "axb", matches: false},
		{filter: "(k)", value: "Mr. (K)", matches: true},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			re := containsFold(tt.filter)
			assert.Equal(t, "i", re.Options)
			matched := regexp.MustCompile("(?" + re.Options + ")" + re.Pattern).MatchString(tt.value)
			assert.Equal(t, tt.matches, matched)
		})
	}
}

func TestParseID(t *testing.T) {
	oid := primitive.NewObjectID()
	got, err := parseID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)

	for _, id := range []string{"", "lol", "9d7e8a36-93c4-4c52-9b7f-0e0c0b4f5a11"} {
		_, err = parseID(id)
		assert.Equal(t, core.ErrInvalidID, err, id)
	}
}

func TestFindOptions(t *testing.T) {
	opts := findOptions(core.NewPageRequest(3, 10), newestFirst)
	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.EqualValues(t, 20, *opts.Skip)
	assert.EqualValues(t, 10, *opts.Limit)
	assert.Equal(t, newestFirst, opts.Sort)

	opts = findOptions(core.NewPageRequest(1, 0), newestFirst)
	assert.Nil(t, opts.Limit)
	assert.EqualValues(t, 0, *opts.Skip)
}
