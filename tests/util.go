package testutil

import (
	"context"
	"io"
	"net/mail"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/announcement"
	"github.com/trezcool/studentportal/core/quiz"
	"github.com/trezcool/studentportal/core/user"
	appfs "github.com/trezcool/studentportal/fs"
	logsvc "github.com/trezcool/studentportal/services/logger"
)

const SecretKey = "test-secret-key"

func NewTestConfig() *core.Config {
	return &core.Config{
		AppName:          "Student Portal",
		Build:            "test",
		Env:              "TEST",
		TestMode:         true,
		SecretKey:        SecretKey,
		FrontendBaseURL:  "http://localhost:5173",
		DefaultFromEmail: mail.Address{Name: "Student Portal", Address: "noreply@test.cd"},
		Server: core.ServerConfig{
			Host:               ":0",
			ReadTimeout:        5 * time.Second,
			WriteTimeout:       5 * time.Second,
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: time.Hour,
			DefaultPageLimit:   10,
			MaxPageLimit:       100,
			AllowedOrigins:     []string{"*"},
		},
		Database: core.DatabaseConfig{Engine: core.EngineMemory},
		Email:    core.EmailConfig{Backend: core.EmailConsole},
	}
}

// NewValidator returns a validator with every custom validation and english translations registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	quiz.InitValidators(validate, translator)
	return validate, translator
}

func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(io.Discard, "test", conf)
	logger.Enable(false)
	return logger
}

func NewEmailTemplates(t *testing.T, conf *core.Config) *core.EmailTemplates {
	tmpls, err := core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf)
	require.NoError(t, err)
	return tmpls
}

func CreateUser(t *testing.T, repo user.Repository, email, pwd string, createdAt ...time.Time) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Email:     email,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		require.NoError(t, usr.SetPassword(pwd), "CreateUser()")
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	require.NoError(t, err, "CreateUser()")
	return usr
}

func CreateAnnouncement(
	t *testing.T,
	repo announcement.Repository,
	title, priority string,
	isActive bool,
	createdAt ...time.Time,
) announcement.Announcement {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	ann, err := repo.CreateAnnouncement(context.Background(), announcement.Announcement{
		Title:     title,
		Content:   "Content of " + title,
		Author:    "admin@test.cd",
		Priority:  priority,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	require.NoError(t, err, "CreateAnnouncement()")
	return ann
}

// NewQuestion returns a 2-options question whose first option is correct.
func NewQuestion(text string, points int) quiz.Question {
	ans := 0
	return quiz.Question{
		Text:          text,
		Options:       []string{"yes", "no"},
		CorrectAnswer: &ans,
		Points:        points,
	}
}

func CreateQuiz(
	t *testing.T,
	repo quiz.Repository,
	title, subject, instructor string,
	isActive bool,
	start, end time.Time,
	createdAt ...time.Time,
) quiz.Quiz {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	qs := []quiz.Question{NewQuestion("Is "+title+" easy?", 2)}
	qz, err := repo.CreateQuiz(context.Background(), quiz.Quiz{
		Title:       title,
		Description: "About " + title,
		Subject:     subject,
		Instructor:  instructor,
		Duration:    30,
		TotalPoints: quiz.SumPoints(qs),
		Questions:   qs,
		IsActive:    isActive,
		StartDate:   start.UTC(),
		EndDate:     end.UTC(),
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	})
	require.NoError(t, err, "CreateQuiz()")
	return qz
}
