package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/studentportal/apps/api/echo"
	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/announcement"
	"github.com/trezcool/studentportal/core/quiz"
	"github.com/trezcool/studentportal/core/user"
	appfs "github.com/trezcool/studentportal/fs"
	emailsvc "github.com/trezcool/studentportal/services/email"
	logsvc "github.com/trezcool/studentportal/services/logger"
	"github.com/trezcool/studentportal/storage/database"
)

func startManual() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(os.Stdout, "api", conf)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(os.Stdout, "db", conf)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	repos, err := database.Open(context.Background(), conf, dbLogger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = repos.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	quiz.InitValidators(validate, translator)

	tmpls, err := core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("parsing email templates: %v", err), err)
	}

	// set up services
	mailSvc := emailsvc.New(conf, tmpls, logger)
	usrSvc := user.NewService(repos.User, mailSvc, validate, conf)
	annSvc := announcement.NewService(repos.Announcement, validate)
	qzSvc := quiz.NewService(repos.Quiz, validate)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			UserSvc:         usrSvc,
			AnnouncementSvc: annSvc,
			QuizSvc:         qzSvc,
			Validate:        validate,
			Translator:      translator,
		},
	)

	run(conf, logger, server)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
