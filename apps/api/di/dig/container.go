package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

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

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type serverParams struct {
	dig.In
	Conf            *core.Config
	Logger          core.Logger
	UserSvc         user.Service
	AnnouncementSvc announcement.Service
	QuizSvc         quiz.Service
	Validate        *validator.Validate
	Translator      ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(os.Stdout, "api", conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(os.Stdout, "db", conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newRepositories(conf *core.Config, loggerParam DBLoggerParam) *database.Repositories {
	repos, err := database.Open(context.Background(), conf, loggerParam.Logger)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return repos
}

func userRepository(repos *database.Repositories) user.Repository { return repos.User }

func announcementRepository(repos *database.Repositories) announcement.Repository {
	return repos.Announcement
}

func quizRepository(repos *database.Repositories) quiz.Repository { return repos.Quiz }

func newEmailTemplates(conf *core.Config, logger core.Logger) *core.EmailTemplates {
	tmpls, err := core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("parsing email templates: %v", err), err)
	}
	return tmpls
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// newValidator registers every custom validation before handing out the validator.
func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	quiz.InitValidators(validate, translator)
	return validate
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:            p.Conf,
		Logger:          p.Logger,
		UserSvc:         p.UserSvc,
		AnnouncementSvc: p.AnnouncementSvc,
		QuizSvc:         p.QuizSvc,
		Validate:        p.Validate,
		Translator:      p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepositories))
	must(c.Provide(userRepository))
	must(c.Provide(announcementRepository))
	must(c.Provide(quizRepository))
	must(c.Provide(newEmailTemplates))
	must(c.Provide(emailsvc.New))
	must(c.Provide(newTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(user.NewService))
	must(c.Provide(announcement.NewService))
	must(c.Provide(quiz.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
