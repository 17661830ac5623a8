package echoapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/academy"
	"github.com/Arun270647/tma-demo-repo/core/analytics"
	"github.com/Arun270647/tma-demo-repo/core/attendance"
	"github.com/Arun270647/tma-demo-repo/core/coach"
	"github.com/Arun270647/tma-demo-repo/core/demo"
	"github.com/Arun270647/tma-demo-repo/core/fee"
	"github.com/Arun270647/tma-demo-repo/core/identity"
	"github.com/Arun270647/tma-demo-repo/core/player"
	"github.com/Arun270647/tma-demo-repo/services/ratelimit"
)

type (
	ServerDeps struct {
		Conf          *core.Config
		Logger        core.Logger
		Resolver      *identity.Resolver
		BindingSvc    *identity.Service
		AcademySvc    *academy.Service
		PlayerSvc     *player.Service
		CoachSvc      *coach.Service
		AttendanceSvc *attendance.Service
		AnalyticsSvc  *analytics.Service
		FeeSvc        *fee.Service
		DemoSvc       *demo.Service
		Limiter       ratelimit.Limiter
		Registry      *prometheus.Registry // a new registry is used when nil
		Validate      *validator.Validate
		Translator    ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		metrics  *metrics
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	vala.BeginValidation().Validate(
		vala.IsNotNil(deps.Conf, "Conf"),
		vala.IsNotNil(deps.Logger, "Logger"),
		vala.IsNotNil(deps.Resolver, "Resolver"),
		vala.IsNotNil(deps.BindingSvc, "BindingSvc"),
		vala.IsNotNil(deps.AcademySvc, "AcademySvc"),
		vala.IsNotNil(deps.PlayerSvc, "PlayerSvc"),
		vala.IsNotNil(deps.CoachSvc, "CoachSvc"),
		vala.IsNotNil(deps.AttendanceSvc, "AttendanceSvc"),
		vala.IsNotNil(deps.AnalyticsSvc, "AnalyticsSvc"),
		vala.IsNotNil(deps.FeeSvc, "FeeSvc"),
		vala.IsNotNil(deps.DemoSvc, "DemoSvc"),
		vala.IsNotNil(deps.Limiter, "Limiter"),
		vala.IsNotNil(deps.Validate, "Validate"),
		vala.IsNotNil(deps.Translator, "Translator"),
	).CheckAndPanic()

	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	s := &server{
		deps:     deps,
		app:      echo.New(),
		metrics:  newMetrics(deps.Registry),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.IPExtractor = s.ipExtractor(conf.Server.TrustedProxies)
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(s.metrics.middleware)

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/metrics", echo.WrapHandler(s.metrics.handler()))

	auth := newAuthenticator(s.deps.Resolver, s.metrics)
	g := s.app.Group("/api")

	registerPublicAPI(g, auth, s.deps)
	registerAdminAPI(g.Group("/admin", auth.require(identity.RoleSuperAdmin)), s.deps)
	registerAcademyAPI(g, auth.require(identity.RoleAcademyOwner), s.deps)
	registerCoachAPI(g.Group("/coach", auth.require(identity.RoleCoach)), s.deps)
	registerPlayerAPI(g.Group("/player", auth.require(identity.RolePlayer)), s.deps)
}

// ipExtractor reads the client IP from the connection, or from X-Forwarded-For
// when the request comes through one of the trusted proxies.
func (s *server) ipExtractor(proxies []string) echo.IPExtractor {
	var opts []echo.TrustOption
	for _, cidr := range proxies {
		_, ipNet, err := net.ParseCIDR(core.CleanString(cidr))
		if err != nil {
			s.deps.Logger.Error("ignoring trusted proxy", errors.Wrap(err, cidr))
			continue
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	if len(opts) == 0 {
		return echo.ExtractIPDirect()
	}
	opts = append(opts, echo.TrustLoopback(false), echo.TrustLinkLocal(false), echo.TrustPrivateNet(false))
	return echo.ExtractIPFromXFFHeader(opts...)
}

func (s *server) Start() {
	s.deps.Logger.Info(fmt.Sprintf("API listening on %s", s.deps.Conf.Server.Address))
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.errors <- err
	}
}

// Errors receives the error the server stopped listening with.
func (s *server) Errors() <-chan error {
	return s.errors
}

// ShutdownSignal receives SIGINT, SIGTERM and the shutdown requests of the error handler.
func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signaled
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	signal.Stop(s.shutdown)
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
