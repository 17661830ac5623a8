package main

import (
	"context"
	"log"
	"os"

	"github.com/Arun270647/tma-demo-repo/apps/shared"
	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/identity"
	logsvc "github.com/Arun270647/tma-demo-repo/services/logger"
	pgdb "github.com/Arun270647/tma-demo-repo/storage/database/postgres"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	dbLogger := logsvc.NewRollbarLogger(logger, conf)
	dbLogger.Enable(false)

	// set up stores
	ctx := context.Background()
	stores, err := shared.OpenStores(ctx, conf, dbLogger)
	errAndDie(err)

	validate, _ := core.NewValidator()
	cli := commandLine{
		bindingSvc: identity.NewService(stores.Bindings),
		validate:   validate,
		out:        os.Stdout,
	}
	if conf.Bindings.Engine == shared.EnginePostgres {
		db, err := pgdb.Open(conf)
		errAndDie(err)
		cli.db = db.DB
	}

	err = cli.run(os.Args)
	if cli.db != nil {
		_ = cli.db.Close()
	}
	_ = stores.Close(ctx)
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
