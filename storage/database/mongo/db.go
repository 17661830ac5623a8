package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/Arun270647/tma-demo-repo/core"
)

// Collections
const (
	academiesColl  = "academies"
	settingsColl   = "academy_settings"
	playersColl    = "players"
	coachesColl    = "coaches"
	attendanceColl = "player_attendance"
	feesColl       = "student_fees"
	demosColl      = "demo_requests"
	bindingsColl   = "role_bindings"
)

type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

func (db *DB) coll(name string) *mongo.Collection {
	return db.db.Collection(name)
}

// Open connects to the configured MongoDB deployment and waits for it to be ready.
func Open(ctx context.Context, conf *core.Config) (*DB, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(conf.Database.MongoURI).SetAppName(conf.AppName))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err = ping(ctx, client); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &DB{client: client, db: client.Database(conf.Database.Name)}, nil
}

func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, client *mongo.Client) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = client.Ping(ctx, readpref.Primary())
		if err == nil || ctx.Err() != nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// EnsureIndexes creates the indexes the repositories rely on. It is idempotent.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	unique := func() *options.IndexOptionsBuilder { return options.Index().SetUnique(true) }
	sparse := func() *options.IndexOptionsBuilder { return options.Index().SetSparse(true) }

	indexes := map[string][]mongo.IndexModel{
		academiesColl: {
			{Keys: bson.D{{Key: "identity_subject", Value: 1}}, Options: sparse()},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		playersColl: {
			{Keys: bson.D{{Key: "academy_id", Value: 1}, {Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}}},
			{Keys: bson.D{{Key: "academy_id", Value: 1}, {Key: "coach_id", Value: 1}}},
			{Keys: bson.D{{Key: "identity_subject", Value: 1}}, Options: sparse()},
		},
		coachesColl: {
			{Keys: bson.D{{Key: "academy_id", Value: 1}, {Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}}},
			{Keys: bson.D{{Key: "identity_subject", Value: 1}}, Options: sparse()},
		},
		attendanceColl: {
			{Keys: bson.D{{Key: "academy_id", Value: 1}, {Key: "player_id", Value: 1}, {Key: "date", Value: 1}}, Options: unique()},
			{Keys: bson.D{{Key: "academy_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		feesColl: {
			{Keys: bson.D{{Key: "academy_id", Value: 1}, {Key: "player_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "due_date", Value: 1}}},
		},
		settingsColl: {
			{Keys: bson.D{{Key: "fee_reminder_type", Value: 1}}},
		},
		demosColl: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		bindingsColl: {
			{Keys: bson.D{{Key: "academy_id", Value: 1}}},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := db.coll(name).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "creating %s indexes", name)
		}
	}
	return nil
}

// findAll decodes every document matched by `filter` into a non-nil slice.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...options.Lister[options.FindOptions]) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	res := make([]T, 0)
	if err = cur.All(ctx, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// findOne decodes the document matched by `filter`, returning notFound when there is none.
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, notFound error, opts ...options.Lister[options.FindOneOptions]) (T, error) {
	var doc T
	err := coll.FindOne(ctx, filter, opts...).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return doc, notFound
		}
		return doc, err
	}
	return doc, nil
}

func count(ctx context.Context, coll *mongo.Collection, filter interface{}) (int, error) {
	n, err := coll.CountDocuments(ctx, filter)
	return int(n), err
}

func byName() *options.FindOptionsBuilder {
	return options.Find().SetSort(bson.D{{Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}, {Key: "_id", Value: 1}})
}
