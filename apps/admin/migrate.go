package main

import (
	"context"

	sqlxrepos "github.com/trezcool/studentportal/storage/database/postgres"
)

var gooseRunFunc = sqlxrepos.RunMigrations // mockable

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	if cli.sqlDB == nil {
		return errMigrateEngine
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(ctx, cli.sqlDB, args[0], arguments...)
}
