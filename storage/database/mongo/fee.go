package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Arun270647/tma-demo-repo/core/fee"
)

type feeRepository struct {
	db *DB
}

var _ fee.Repository = (*feeRepository)(nil)

func NewFeeRepository(db *DB) fee.Repository {
	return &feeRepository{db: db}
}

func feeFilter(f fee.Filter) bson.D {
	filter := bson.D{}
	if f.AcademyID != "" {
		filter = append(filter, bson.E{Key: "academy_id", Value: f.AcademyID})
	}
	if f.AcademyIDs != nil {
		filter = append(filter, bson.E{Key: "academy_id", Value: bson.D{{Key: "$in", Value: f.AcademyIDs}}})
	}
	if f.PlayerID != "" {
		filter = append(filter, bson.E{Key: "player_id", Value: f.PlayerID})
	}
	if f.Statuses != nil {
		filter = append(filter, bson.E{Key: "status", Value: bson.D{{Key: "$in", Value: f.Statuses}}})
	}
	if !f.RemindableAt.IsZero() {
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "last_reminder_sent", Value: nil}},
			bson.D{{Key: "last_reminder_sent", Value: bson.D{{Key: "$lt", Value: f.RemindableAt}}}},
		}})
	}
	return filter
}

func (repo *feeRepository) CreateFee(ctx context.Context, f fee.StudentFee) (fee.StudentFee, error) {
	if _, err := repo.db.coll(feesColl).InsertOne(ctx, f); err != nil {
		return fee.StudentFee{}, errors.Wrap(err, "inserting fee")
	}
	return f, nil
}

func (repo *feeRepository) UpdateFee(ctx context.Context, f fee.StudentFee) (fee.StudentFee, error) {
	orig, err := repo.GetFee(ctx, f.AcademyID, f.ID)
	if err != nil {
		return fee.StudentFee{}, err
	}
	f.CreatedAt = orig.CreatedAt

	filter := bson.D{{Key: "_id", Value: f.ID}, {Key: "academy_id", Value: f.AcademyID}}
	if _, err = repo.db.coll(feesColl).ReplaceOne(ctx, filter, f); err != nil {
		return fee.StudentFee{}, errors.Wrap(err, "replacing fee")
	}
	return f, nil
}

func (repo *feeRepository) GetFee(ctx context.Context, academyID, id string) (fee.StudentFee, error) {
	filter := bson.D{{Key: "_id", Value: id}, {Key: "academy_id", Value: academyID}}
	return findOne[fee.StudentFee](ctx, repo.db.coll(feesColl), filter, fee.ErrNotFound)
}

func (repo *feeRepository) GetPlayerFee(ctx context.Context, academyID, playerID string) (fee.StudentFee, error) {
	filter := bson.D{{Key: "academy_id", Value: academyID}, {Key: "player_id", Value: playerID}}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findOne[fee.StudentFee](ctx, repo.db.coll(feesColl), filter, fee.ErrNotFound, opts)
}

func (repo *feeRepository) QueryFees(ctx context.Context, filter fee.Filter) ([]fee.StudentFee, error) {
	opts := options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}, {Key: "_id", Value: 1}})
	res, err := findAll[fee.StudentFee](ctx, repo.db.coll(feesColl), feeFilter(filter), opts)
	return res, errors.Wrap(err, "querying fees")
}

func (repo *feeRepository) SetReminderSent(ctx context.Context, id string, at time.Time) error {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "last_reminder_sent", Value: at}}}}
	res, err := repo.db.coll(feesColl).UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return errors.Wrap(err, "setting last reminder")
	}
	if res.MatchedCount == 0 {
		return fee.ErrNotFound
	}
	return nil
}
