package main

import (
	"context"
	"errors"

	pgdb "github.com/Arun270647/tma-demo-repo/storage/database/postgres"
)

var (
	gooseRunFunc = pgdb.RunMigration // mockable

	errNoMigrations = errors.New("migrations require the postgres bindings engine")
)

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	if cli.db == nil {
		return errNoMigrations
	}
	return gooseRunFunc(ctx, cli.db, args[0], args[1:]...)
}
