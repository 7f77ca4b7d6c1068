package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"strings"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp          = errors.New("help provided")
	errMigrateEngine = errors.New("migrate is only available with the postgres engine")
)

type commandLine struct {
	usrSvc     user.Service
	translator ut.Translator
	sqlDB      *sql.DB // postgres only
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -email EMAIL - create a user or update their password")
	fmt.Println("  resetpassword -email EMAIL - reset user's password")
	fmt.Println("  migrate COMMAND [ARGS...] - run a goose migration command (postgres only)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	ctx := context.Background()

	switch args[1] {
	case "adduser":
		pwd, err := cli.parseEmailAndPassword(addUserCmd, addUserEmail, args[2:])
		if err != nil {
			return err
		}
		return cli.addUser(ctx, *addUserEmail, pwd)
	case "resetpassword":
		pwd, err := cli.parseEmailAndPassword(resetPasswordCmd, resetPasswordEmail, args[2:])
		if err != nil {
			return err
		}
		return cli.resetPassword(ctx, *resetPasswordEmail, pwd)
	case "migrate":
		if len(args) < 3 {
			fmt.Println("Usage: migrate up|up-by-one|up-to VERSION|down|down-to VERSION|redo|reset|status|version|create NAME [go|sql]|fix")
			return errHelp
		}
		return cli.migrate(ctx, args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) parseEmailAndPassword(cmd *flag.FlagSet, email *string, args []string) (string, error) {
	if err := cmd.Parse(args); err != nil {
		return "", errHelp
	}
	if *email == "" {
		cmd.Usage()
		return "", errHelp
	}
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		cmd.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

// describeError flattens validation errors for the terminal.
func (cli *commandLine) describeError(err error) error {
	var msgs []string
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		for _, fe := range core.TranslateFieldErrors(origErr, cli.translator) {
			msgs = append(msgs, fe.Field+": "+fe.Error)
		}
	case *core.ValidationError:
		for _, fe := range origErr.Fields {
			msgs = append(msgs, fe.Field+": "+fe.Error)
		}
	}
	if msgs == nil {
		return err
	}
	return errors.Wrap(err, strings.Join(msgs, "; "))
}
