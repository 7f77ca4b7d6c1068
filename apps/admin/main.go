package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/user"
	logsvc "github.com/trezcool/studentportal/services/logger"
	"github.com/trezcool/studentportal/storage/database"
	sqlxrepos "github.com/trezcool/studentportal/storage/database/postgres"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(os.Stdout, "admin", conf)
	logger.Enable(false)

	ctx := context.Background()
	cli := commandLine{}

	// set up DB
	var usrRepo user.Repository
	if conf.Database.Engine == core.EnginePostgres {
		// migrations are run explicitly through `migrate`
		errAndDie(logger, sqlxrepos.CreateIfNotExist(ctx, conf))
		db, err := sqlxrepos.Open(conf)
		errAndDie(logger, err)
		defer db.Close()
		errAndDie(logger, db.PingContext(ctx))

		cli.sqlDB = db.DB
		usrRepo = sqlxrepos.NewUserRepository(db)
	} else {
		repos, err := database.Open(ctx, conf, logger)
		errAndDie(logger, err)
		defer repos.Close()

		usrRepo = repos.User
	}

	validate := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// user e-mails are not sent from the CLI
	cli.usrSvc = user.NewService(usrRepo, nil, validate, conf)
	cli.translator = translator

	// start CLI
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %s", err), err)
		}
		os.Exit(1)
	}
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
