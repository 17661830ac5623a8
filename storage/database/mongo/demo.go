package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Arun270647/tma-demo-repo/core/demo"
)

type demoRepository struct {
	db *DB
}

var _ demo.Repository = (*demoRepository)(nil)

func NewDemoRepository(db *DB) demo.Repository {
	return &demoRepository{db: db}
}

func statusFilter(status string) bson.D {
	if status == "" {
		return bson.D{}
	}
	return bson.D{{Key: "status", Value: status}}
}

func (repo *demoRepository) CreateRequest(ctx context.Context, r demo.Request) (demo.Request, error) {
	if _, err := repo.db.coll(demosColl).InsertOne(ctx, r); err != nil {
		return demo.Request{}, errors.Wrap(err, "inserting demo request")
	}
	return r, nil
}

func (repo *demoRepository) QueryRequests(ctx context.Context, filter demo.Filter) ([]demo.Request, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(filter.Skip))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	res, err := findAll[demo.Request](ctx, repo.db.coll(demosColl), statusFilter(filter.Status), opts)
	return res, errors.Wrap(err, "querying demo requests")
}

func (repo *demoRepository) CountRequests(ctx context.Context, status string) (int, error) {
	n, err := count(ctx, repo.db.coll(demosColl), statusFilter(status))
	return n, errors.Wrap(err, "counting demo requests")
}

func (repo *demoRepository) GetRequest(ctx context.Context, id string) (demo.Request, error) {
	return findOne[demo.Request](ctx, repo.db.coll(demosColl), bson.D{{Key: "_id", Value: id}}, demo.ErrNotFound)
}

func (repo *demoRepository) UpdateRequest(ctx context.Context, r demo.Request) (demo.Request, error) {
	orig, err := repo.GetRequest(ctx, r.ID)
	if err != nil {
		return demo.Request{}, err
	}
	r.CreatedAt = orig.CreatedAt

	if _, err = repo.db.coll(demosColl).ReplaceOne(ctx, bson.D{{Key: "_id", Value: r.ID}}, r); err != nil {
		return demo.Request{}, errors.Wrap(err, "replacing demo request")
	}
	return r, nil
}
