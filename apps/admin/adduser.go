package main

import (
	"context"
	"fmt"
)

// addUser creates a user, or sets the password of an existing one.
func (cli *commandLine) addUser(ctx context.Context, email, pwd string) error {
	usr, created, err := cli.usrSvc.CreateOrSetPassword(ctx, email, pwd)
	if err != nil {
		return cli.describeError(err)
	}
	if created {
		fmt.Printf("user %s created\n", usr.Email)
	} else {
		fmt.Printf("password of %s updated\n", usr.Email)
	}
	return nil
}
