package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Arun270647/tma-demo-repo/core/analytics"
	"github.com/Arun270647/tma-demo-repo/core/attendance"
	"github.com/Arun270647/tma-demo-repo/core/player"
)

type attendanceRepository struct {
	db *DB
}

var (
	_ attendance.Repository = (*attendanceRepository)(nil)
	_ analytics.Source      = (*attendanceRepository)(nil)
)

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

// NewRadarSource returns the analytics.Source reading attendance records.
func NewRadarSource(db *DB) analytics.Source {
	return &attendanceRepository{db: db}
}

func recordFilter(f attendance.Filter) bson.D {
	filter := bson.D{}
	if f.AcademyID != "" {
		filter = append(filter, bson.E{Key: "academy_id", Value: f.AcademyID})
	}
	if f.PlayerID != "" {
		filter = append(filter, bson.E{Key: "player_id", Value: f.PlayerID})
	}
	if f.PlayerIDs != nil {
		filter = append(filter, bson.E{Key: "player_id", Value: bson.D{{Key: "$in", Value: f.PlayerIDs}}})
	}
	if f.Date != "" {
		filter = append(filter, bson.E{Key: "date", Value: f.Date})
	}
	dateRange := bson.D{}
	if f.From != "" {
		dateRange = append(dateRange, bson.E{Key: "$gte", Value: f.From})
	}
	if f.To != "" {
		dateRange = append(dateRange, bson.E{Key: "$lte", Value: f.To})
	}
	if len(dateRange) > 0 {
		filter = append(filter, bson.E{Key: "date", Value: dateRange})
	}
	if f.Present != nil {
		filter = append(filter, bson.E{Key: "present", Value: *f.Present})
	}
	return filter
}

func (repo *attendanceRepository) UpsertRecord(ctx context.Context, r attendance.Record) (bool, error) {
	filter := bson.D{
		{Key: "academy_id", Value: r.AcademyID},
		{Key: "player_id", Value: r.PlayerID},
		{Key: "date", Value: r.Date},
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "present", Value: r.Present},
			{Key: "sport", Value: r.Sport},
			{Key: "performance_ratings", Value: r.PerformanceRatings},
			{Key: "notes", Value: r.Notes},
			{Key: "marked_by", Value: r.MarkedBy},
			{Key: "updated_at", Value: r.UpdatedAt},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: r.ID},
			{Key: "created_at", Value: r.CreatedAt},
		}},
	}
	res, err := repo.db.coll(attendanceColl).UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return false, errors.Wrap(err, "upserting attendance record")
	}
	return res.UpsertedCount > 0, nil
}

func (repo *attendanceRepository) GetRecord(ctx context.Context, academyID, playerID, date string) (attendance.Record, error) {
	filter := bson.D{
		{Key: "academy_id", Value: academyID},
		{Key: "player_id", Value: playerID},
		{Key: "date", Value: date},
	}
	return findOne[attendance.Record](ctx, repo.db.coll(attendanceColl), filter, attendance.ErrNotFound)
}

func (repo *attendanceRepository) QueryRecords(ctx context.Context, filter attendance.Filter) ([]attendance.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})
	res, err := findAll[attendance.Record](ctx, repo.db.coll(attendanceColl), recordFilter(filter), opts)
	return res, errors.Wrap(err, "querying attendance records")
}

func (repo *attendanceRepository) QueryRadarRecords(ctx context.Context, academyID string, since time.Time) ([]analytics.Record, error) {
	ids, err := repo.activePlayerIDs(ctx, academyID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []analytics.Record{}, nil
	}

	filter := bson.D{
		{Key: "academy_id", Value: academyID},
		{Key: "player_id", Value: bson.D{{Key: "$in", Value: ids}}},
		{Key: "present", Value: true},
		{Key: "created_at", Value: bson.D{{Key: "$gte", Value: since}}},
	}
	opts := options.Find().SetProjection(bson.D{{Key: "sport", Value: 1}, {Key: "performance_ratings", Value: 1}})
	records, err := findAll[attendance.Record](ctx, repo.db.coll(attendanceColl), filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying radar records")
	}

	res := make([]analytics.Record, 0, len(records))
	for _, r := range records {
		res = append(res, analytics.Record{Sport: r.Sport, Ratings: r.PerformanceRatings})
	}
	return res, nil
}

func (repo *attendanceRepository) activePlayerIDs(ctx context.Context, academyID string) ([]string, error) {
	filter := bson.D{{Key: "academy_id", Value: academyID}, {Key: "status", Value: player.StatusActive}}
	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}})
	players, err := findAll[player.Player](ctx, repo.db.coll(playersColl), filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying active players")
	}
	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	return ids, nil
}
