package shared

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/academy"
	"github.com/Arun270647/tma-demo-repo/core/analytics"
	"github.com/Arun270647/tma-demo-repo/core/attendance"
	"github.com/Arun270647/tma-demo-repo/core/coach"
	"github.com/Arun270647/tma-demo-repo/core/demo"
	"github.com/Arun270647/tma-demo-repo/core/fee"
	"github.com/Arun270647/tma-demo-repo/core/identity"
	"github.com/Arun270647/tma-demo-repo/core/player"
	inmemdb "github.com/Arun270647/tma-demo-repo/storage/database/inmem"
	mongodb "github.com/Arun270647/tma-demo-repo/storage/database/mongo"
	pgdb "github.com/Arun270647/tma-demo-repo/storage/database/postgres"
)

const (
	EngineMemory   = "memory"
	EngineMongo    = "mongodb"
	EnginePostgres = "postgres"
)

// Stores holds every repository the apps need, backed by the configured engines.
type Stores struct {
	Academies  academy.Repository
	Players    player.Repository
	Coaches    coach.Repository
	Attendance attendance.Repository
	Radar      analytics.Source
	Fees       fee.Repository
	Demos      demo.Repository
	Bindings   identity.Repository
	Lookup     identity.SubjectLookup

	closers []func(context.Context) error
}

// OpenStores connects the document store (`database.engine`) and the role bindings
// store (`bindings.engine`). Postgres bindings are created and migrated when missing.
func OpenStores(ctx context.Context, conf *core.Config, logger core.Logger) (*Stores, error) {
	s := new(Stores)
	var mdb *mongodb.DB
	var memdb *inmemdb.DB

	switch conf.Database.Engine {
	case EngineMongo:
		var err error
		if mdb, err = mongodb.Open(ctx, conf); err != nil {
			return nil, err
		}
		s.closers = append(s.closers, mdb.Close)
		if err = mdb.EnsureIndexes(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.Academies = mongodb.NewAcademyRepository(mdb)
		s.Players = mongodb.NewPlayerRepository(mdb)
		s.Coaches = mongodb.NewCoachRepository(mdb)
		s.Attendance = mongodb.NewAttendanceRepository(mdb)
		s.Radar = mongodb.NewRadarSource(mdb)
		s.Fees = mongodb.NewFeeRepository(mdb)
		s.Demos = mongodb.NewDemoRepository(mdb)
		s.Lookup = mongodb.NewSubjectLookup(mdb)
	case EngineMemory:
		memdb, _ = inmemdb.Open()
		s.Academies = inmemdb.NewAcademyRepository(memdb)
		s.Players = inmemdb.NewPlayerRepository(memdb)
		s.Coaches = inmemdb.NewCoachRepository(memdb)
		s.Attendance = inmemdb.NewAttendanceRepository(memdb)
		s.Radar = inmemdb.NewRadarSource(memdb)
		s.Fees = inmemdb.NewFeeRepository(memdb)
		s.Demos = inmemdb.NewDemoRepository(memdb)
		s.Lookup = inmemdb.NewSubjectLookup(memdb)
	default:
		return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
	}

	switch conf.Bindings.Engine {
	case EngineMongo:
		if mdb == nil {
			_ = s.Close(ctx)
			return nil, errors.New("mongodb bindings require the mongodb database engine")
		}
		s.Bindings = mongodb.NewBindingRepository(mdb)
	case EnginePostgres:
		if err := pgdb.CreateIfNotExist(conf); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		db, err := pgdb.Open(conf)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return db.Close() })
		if err = pgdb.Migrate(ctx, db.DB); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.Bindings = pgdb.NewBindingRepository(db)
	case EngineMemory:
		if memdb == nil {
			memdb, _ = inmemdb.Open()
		}
		s.Bindings = inmemdb.NewBindingRepository(memdb)
	default:
		_ = s.Close(ctx)
		return nil, errors.Errorf("unknown bindings engine %q", conf.Bindings.Engine)
	}

	logger.Info("stores ready", map[string]interface{}{"database": conf.Database.Engine, "bindings": conf.Bindings.Engine})
	return s, nil
}

// Close releases every open connection, returning the first error.
func (s *Stores) Close(ctx context.Context) error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
