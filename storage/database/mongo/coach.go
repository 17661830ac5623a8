package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Arun270647/tma-demo-repo/core/coach"
)

type coachRepository struct {
	db *DB
}

var _ coach.Repository = (*coachRepository)(nil)

func NewCoachRepository(db *DB) coach.Repository {
	return &coachRepository{db: db}
}

func (repo *coachRepository) CreateCoach(ctx context.Context, c coach.Coach) (coach.Coach, error) {
	if _, err := repo.db.coll(coachesColl).InsertOne(ctx, c); err != nil {
		return coach.Coach{}, errors.Wrap(err, "inserting coach")
	}
	return c, nil
}

func (repo *coachRepository) QueryCoaches(ctx context.Context, academyID string) ([]coach.Coach, error) {
	res, err := findAll[coach.Coach](ctx, repo.db.coll(coachesColl), bson.D{{Key: "academy_id", Value: academyID}}, byName())
	return res, errors.Wrap(err, "querying coaches")
}

func (repo *coachRepository) CountCoaches(ctx context.Context, academyID, status string) (int, error) {
	filter := bson.D{{Key: "academy_id", Value: academyID}}
	if status != "" {
		filter = append(filter, bson.E{Key: "status", Value: status})
	}
	n, err := count(ctx, repo.db.coll(coachesColl), filter)
	return n, errors.Wrap(err, "counting coaches")
}

func (repo *coachRepository) GetCoach(ctx context.Context, academyID, id string) (coach.Coach, error) {
	filter := bson.D{{Key: "_id", Value: id}, {Key: "academy_id", Value: academyID}}
	return findOne[coach.Coach](ctx, repo.db.coll(coachesColl), filter, coach.ErrNotFound)
}

func (repo *coachRepository) UpdateCoach(ctx context.Context, c coach.Coach) (coach.Coach, error) {
	orig, err := repo.GetCoach(ctx, c.AcademyID, c.ID)
	if err != nil {
		return coach.Coach{}, err
	}
	c.CreatedAt = orig.CreatedAt
	c.IdentitySubject = orig.IdentitySubject

	filter := bson.D{{Key: "_id", Value: c.ID}, {Key: "academy_id", Value: c.AcademyID}}
	res, err := repo.db.coll(coachesColl).ReplaceOne(ctx, filter, c)
	if err != nil {
		return coach.Coach{}, errors.Wrap(err, "replacing coach")
	}
	if res.MatchedCount == 0 {
		return coach.Coach{}, coach.ErrNotFound
	}
	return c, nil
}

func (repo *coachRepository) DeleteCoach(ctx context.Context, academyID, id string) error {
	res, err := repo.db.coll(coachesColl).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "academy_id", Value: academyID}})
	if err != nil {
		return errors.Wrap(err, "deleting coach")
	}
	if res.DeletedCount == 0 {
		return coach.ErrNotFound
	}
	return nil
}
