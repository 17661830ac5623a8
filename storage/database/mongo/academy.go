package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/Arun270647/tma-demo-repo/core/academy"
	"github.com/Arun270647/tma-demo-repo/core/coach"
	"github.com/Arun270647/tma-demo-repo/core/player"
)

type academyRepository struct {
	db *DB
}

var _ academy.Repository = (*academyRepository)(nil)

func NewAcademyRepository(db *DB) academy.Repository {
	return &academyRepository{db: db}
}

func (repo *academyRepository) CreateAcademy(ctx context.Context, a academy.Academy) (academy.Academy, error) {
	if _, err := repo.db.coll(academiesColl).InsertOne(ctx, a); err != nil {
		return academy.Academy{}, errors.Wrap(err, "inserting academy")
	}
	return a, nil
}

func (repo *academyRepository) QueryAcademies(ctx context.Context) ([]academy.Academy, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	res, err := findAll[academy.Academy](ctx, repo.db.coll(academiesColl), bson.D{}, opts)
	return res, errors.Wrap(err, "querying academies")
}

func (repo *academyRepository) GetAcademy(ctx context.Context, id string) (academy.Academy, error) {
	return findOne[academy.Academy](ctx, repo.db.coll(academiesColl), bson.D{{Key: "_id", Value: id}}, academy.ErrNotFound)
}

func (repo *academyRepository) UpdateAcademy(ctx context.Context, a academy.Academy) (academy.Academy, error) {
	res, err := repo.db.coll(academiesColl).ReplaceOne(ctx, bson.D{{Key: "_id", Value: a.ID}}, a)
	if err != nil {
		return academy.Academy{}, errors.Wrap(err, "replacing academy")
	}
	if res.MatchedCount == 0 {
		return academy.Academy{}, academy.ErrNotFound
	}
	return a, nil
}

func (repo *academyRepository) DeleteAcademy(ctx context.Context, id string) error {
	res, err := repo.db.coll(academiesColl).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return errors.Wrap(err, "deleting academy")
	}
	if res.DeletedCount == 0 {
		return academy.ErrNotFound
	}
	_, err = repo.db.coll(settingsColl).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return errors.Wrap(err, "deleting academy settings")
}

func (repo *academyRepository) CountAcademies(ctx context.Context, status string) (int, error) {
	filter := bson.D{}
	if status != "" {
		filter = append(filter, bson.E{Key: "status", Value: status})
	}
	n, err := count(ctx, repo.db.coll(academiesColl), filter)
	return n, errors.Wrap(err, "counting academies")
}

func (repo *academyRepository) HeadCounts(ctx context.Context, academyID string) (academy.Stats, error) {
	var stats academy.Stats

	g, gctx := errgroup.WithContext(ctx)
	countInto := func(dst *int, coll string, status string) {
		g.Go(func() error {
			filter := bson.D{{Key: "academy_id", Value: academyID}}
			if status != "" {
				filter = append(filter, bson.E{Key: "status", Value: status})
			}
			n, err := count(gctx, repo.db.coll(coll), filter)
			*dst = n
			return errors.Wrapf(err, "counting %s", coll)
		})
	}
	countInto(&stats.TotalPlayers, playersColl, "")
	countInto(&stats.ActivePlayers, playersColl, player.StatusActive)
	countInto(&stats.TotalCoaches, coachesColl, "")
	countInto(&stats.ActiveCoaches, coachesColl, coach.StatusActive)

	if err := g.Wait(); err != nil {
		return academy.Stats{}, err
	}
	return stats, nil
}

func (repo *academyRepository) GetSettings(ctx context.Context, academyID string) (academy.Settings, error) {
	return findOne[academy.Settings](ctx, repo.db.coll(settingsColl), bson.D{{Key: "_id", Value: academyID}}, academy.ErrSettingsNotFound)
}

func (repo *academyRepository) SaveSettings(ctx context.Context, s academy.Settings) (academy.Settings, error) {
	orig, err := repo.GetSettings(ctx, s.AcademyID)
	switch {
	case err == nil:
		s.CreatedAt = orig.CreatedAt
	case errors.Cause(err) != academy.ErrSettingsNotFound:
		return academy.Settings{}, err
	}

	opts := options.Replace().SetUpsert(true)
	if _, err = repo.db.coll(settingsColl).ReplaceOne(ctx, bson.D{{Key: "_id", Value: s.AcademyID}}, s, opts); err != nil {
		return academy.Settings{}, errors.Wrap(err, "saving academy settings")
	}
	return s, nil
}

func (repo *academyRepository) QueryAcademiesByReminderType(ctx context.Context, reminderType string) ([]academy.Academy, error) {
	settings, err := findAll[academy.Settings](ctx, repo.db.coll(settingsColl), bson.D{{Key: "fee_reminder_type", Value: reminderType}})
	if err != nil {
		return nil, errors.Wrap(err, "querying academy settings")
	}
	if len(settings) == 0 {
		return []academy.Academy{}, nil
	}

	ids := make([]string, 0, len(settings))
	for _, s := range settings {
		ids = append(ids, s.AcademyID)
	}
	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	res, err := findAll[academy.Academy](ctx, repo.db.coll(academiesColl), filter, opts)
	return res, errors.Wrap(err, "querying academies")
}
