package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) resetPassword(ctx context.Context, email, pwd string) error {
	usr, err := cli.usrSvc.SetPassword(ctx, email, pwd)
	if err != nil {
		return cli.describeError(err)
	}
	fmt.Printf("password of %s updated\n", usr.Email)
	return nil
}
