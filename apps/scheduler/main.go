package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/apps/shared"
	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/academy"
	"github.com/Arun270647/tma-demo-repo/core/fee"
	"github.com/Arun270647/tma-demo-repo/core/player"
	emailsvc "github.com/Arun270647/tma-demo-repo/services/email"
	logsvc "github.com/Arun270647/tma-demo-repo/services/logger"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "SCHEDULER : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := shared.OpenStores(ctx, conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up stores: %v", err), err)
	}
	defer func() {
		if err = stores.Close(context.Background()); err != nil {
			logger.Error("Failed to close stores", err)
		}
	}()

	if err = core.ParseEmailTemplates(); err != nil {
		logger.Fatal(fmt.Sprintf("parsing email templates: %v", err), err)
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	feeSvc := fee.NewService(
		stores.Fees,
		player.NewService(stores.Players, stores.Bindings),
		academy.NewService(stores.Academies, stores.Bindings, conf.Analytics.DefaultTarget),
		mailSvc,
		logger,
	)

	logger.Info(fmt.Sprintf("Scheduler started : version %q", conf.Build))
	if err = newScheduler(feeSvc.SendAutomaticReminders, conf.Scheduler, logger).run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler stopped", err)
	}
	logger.Info("Scheduler stopped")
}
