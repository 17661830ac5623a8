package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	echoapi "github.com/Arun270647/tma-demo-repo/apps/api/echo"
	"github.com/Arun270647/tma-demo-repo/apps/shared"
	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/academy"
	"github.com/Arun270647/tma-demo-repo/core/analytics"
	"github.com/Arun270647/tma-demo-repo/core/attendance"
	"github.com/Arun270647/tma-demo-repo/core/coach"
	"github.com/Arun270647/tma-demo-repo/core/demo"
	"github.com/Arun270647/tma-demo-repo/core/fee"
	"github.com/Arun270647/tma-demo-repo/core/identity"
	"github.com/Arun270647/tma-demo-repo/core/player"
	emailsvc "github.com/Arun270647/tma-demo-repo/services/email"
	logsvc "github.com/Arun270647/tma-demo-repo/services/logger"
	"github.com/Arun270647/tma-demo-repo/services/ratelimit"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	if conf.Auth.JWTSecret == "" {
		logger.Fatal("auth.jwtSecret is not configured")
	}

	// set up stores
	ctx := context.Background()
	stores, err := shared.OpenStores(ctx, conf, dbLogger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up stores: %v", err), err)
	}
	defer func() {
		if err = stores.Close(context.Background()); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	resolver := identity.NewResolver(
		identity.NewJWTVerifier(conf.Auth.JWTSecret, conf.Auth.JWTAudience),
		stores.Bindings,
		stores.Lookup,
		conf.Auth,
		logger,
	)
	academySvc := academy.NewService(stores.Academies, stores.Bindings, conf.Analytics.DefaultTarget)
	playerSvc := player.NewService(stores.Players, stores.Bindings)
	coachSvc := coach.NewService(stores.Coaches, playerSvc, stores.Bindings)
	attendanceSvc := attendance.NewService(stores.Attendance, playerSvc)
	analyticsSvc := analytics.NewService(stores.Radar, conf.Analytics.WindowDays)
	feeSvc := fee.NewService(stores.Fees, playerSvc, academySvc, mailSvc, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()

	if err = core.ParseEmailTemplates(); err != nil {
		logger.Fatal(fmt.Sprintf("parsing email templates: %v", err), err)
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("database").Set(conf.Database.Engine)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			Resolver:      resolver,
			BindingSvc:    identity.NewService(stores.Bindings),
			AcademySvc:    academySvc,
			PlayerSvc:     playerSvc,
			CoachSvc:      coachSvc,
			AttendanceSvc: attendanceSvc,
			AnalyticsSvc:  analyticsSvc,
			FeeSvc:        feeSvc,
			DemoSvc:       demo.NewService(stores.Demos),
			Limiter:       ratelimit.New(conf),
			Validate:      validate,
			Translator:    translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
