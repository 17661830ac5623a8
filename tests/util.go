package testutil

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

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
	inmemdb "github.com/Arun270647/tma-demo-repo/storage/database/inmem"
)

// Env is a full set of services backed by a fresh in-memory database.
type Env struct {
	Conf       *core.Config
	DB         *inmemdb.DB
	Logger     core.Logger
	Mailer     *emailsvc.ConsoleServiceMock
	Validate   *validator.Validate
	Translator ut.Translator

	BindingRepo identity.Repository
	PlayerRepo  player.Repository
	CoachRepo   coach.Repository
	AttRepo     attendance.Repository

	Resolver      *identity.Resolver
	BindingSvc    *identity.Service
	AcademySvc    *academy.Service
	PlayerSvc     *player.Service
	CoachSvc      *coach.Service
	AttendanceSvc *attendance.Service
	AnalyticsSvc  *analytics.Service
	FeeSvc        *fee.Service
	DemoSvc       *demo.Service
}

// NewLogger returns a logger that writes nowhere and never reports to rollbar.
func NewLogger(conf *core.Config) core.Logger {
	l := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	l.Enable(false)
	return l
}

func NewEnv(t *testing.T) *Env {
	t.Helper()
	conf := core.NewTestConfig()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}

	env := &Env{
		Conf:        conf,
		DB:          db,
		Logger:      NewLogger(conf),
		BindingRepo: inmemdb.NewBindingRepository(db),
		PlayerRepo:  inmemdb.NewPlayerRepository(db),
		CoachRepo:   inmemdb.NewCoachRepository(db),
		AttRepo:     inmemdb.NewAttendanceRepository(db),
	}
	env.Mailer = emailsvc.NewConsoleServiceMock(conf, env.Logger)
	env.Validate, env.Translator = core.NewValidator()

	verifier := identity.NewJWTVerifier(conf.Auth.JWTSecret, conf.Auth.JWTAudience)
	env.Resolver = identity.NewResolver(verifier, env.BindingRepo, inmemdb.NewSubjectLookup(db), conf.Auth, env.Logger)
	env.BindingSvc = identity.NewService(env.BindingRepo)
	env.AcademySvc = academy.NewService(inmemdb.NewAcademyRepository(db), env.BindingRepo, conf.Analytics.DefaultTarget)
	env.PlayerSvc = player.NewService(env.PlayerRepo, env.BindingRepo)
	env.CoachSvc = coach.NewService(env.CoachRepo, env.PlayerSvc, env.BindingRepo)
	env.AttendanceSvc = attendance.NewService(env.AttRepo, env.PlayerSvc)
	env.AnalyticsSvc = analytics.NewService(inmemdb.NewRadarSource(db), conf.Analytics.WindowDays)
	env.FeeSvc = fee.NewService(inmemdb.NewFeeRepository(db), env.PlayerSvc, env.AcademySvc, env.Mailer, env.Logger)
	env.DemoSvc = demo.NewService(inmemdb.NewDemoRepository(db))
	return env
}

// Token signs an access token for `subject` the way the identity provider does.
func Token(t *testing.T, conf *core.Config, subject, email string) string {
	t.Helper()
	claims := &identity.Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			Audience:  conf.Auth.JWTAudience,
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
		Email: email,
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(conf.Auth.JWTSecret))
	if err != nil {
		t.Fatalf("Token(): %v", err)
	}
	return ss
}

// CreateAcademy stores an approved academy owned by `owner` (unbound when empty).
func (env *Env) CreateAcademy(t *testing.T, name, owner string, limits ...int) academy.Academy {
	t.Helper()
	na := academy.NewAcademy{
		Name:         name,
		OwnerName:    name + " Owner",
		Email:        "owner@" + core.CleanString(name, true /* lower */) + ".test",
		SportsType:   "Football",
		OwnerSubject: owner,
	}
	if len(limits) > 0 {
		na.PlayerLimit = &limits[0]
	}
	if len(limits) > 1 {
		na.CoachLimit = &limits[1]
	}
	a, err := env.AcademySvc.Create(context.Background(), na)
	if err != nil {
		t.Fatalf("CreateAcademy(): %v", err)
	}
	return a
}

// CreatePlayer stores an active player of the academy; `subject`, when set, is bound as that player.
func (env *Env) CreatePlayer(t *testing.T, academyID, first, sport, coachID, subject string) player.Player {
	t.Helper()
	now := core.NowFunc()
	p, err := env.PlayerRepo.CreatePlayer(context.Background(), player.Player{
		ID:              first + "-" + academyID,
		AcademyID:       academyID,
		CoachID:         coachID,
		FirstName:       first,
		LastName:        "Test",
		Email:           core.CleanString(first, true /* lower */) + "@players.test",
		Gender:          "Other",
		Sport:           sport,
		TrainingDays:    []string{},
		Status:          player.StatusActive,
		IdentitySubject: subject,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("CreatePlayer(): %v", err)
	}
	return p
}

// CreateCoach stores an active coach of the academy; `subject`, when set, is bound as that coach.
func (env *Env) CreateCoach(t *testing.T, academyID, first, subject string) coach.Coach {
	t.Helper()
	now := core.NowFunc()
	c, err := env.CoachRepo.CreateCoach(context.Background(), coach.Coach{
		ID:              first + "-" + academyID,
		AcademyID:       academyID,
		FirstName:       first,
		LastName:        "Coach",
		Sports:          []string{"Football"},
		Status:          coach.StatusActive,
		IdentitySubject: subject,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("CreateCoach(): %v", err)
	}
	return c
}

// Rate stores a present attendance record with the given ratings.
func (env *Env) Rate(t *testing.T, p player.Player, date string, ratings map[string]interface{}) attendance.Record {
	t.Helper()
	now := core.NowFunc()
	rec := attendance.Record{
		ID:                 p.ID + "@" + date,
		PlayerID:           p.ID,
		AcademyID:          p.AcademyID,
		Date:               date,
		Present:            true,
		Sport:              p.Sport,
		PerformanceRatings: ratings,
		MarkedBy:           "fixture",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if _, err := env.AttRepo.UpsertRecord(context.Background(), rec); err != nil {
		t.Fatalf("Rate(): %v", err)
	}
	return rec
}
