package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/player"
)

type playerRepository struct {
	db *DB
}

var _ player.Repository = (*playerRepository)(nil)

func NewPlayerRepository(db *DB) player.Repository {
	return &playerRepository{db: db}
}

func playerFilter(f player.Filter) bson.D {
	filter := bson.D{}
	if f.AcademyID != "" {
		filter = append(filter, bson.E{Key: "academy_id", Value: f.AcademyID})
	}
	if f.CoachID != "" {
		filter = append(filter, bson.E{Key: "coach_id", Value: f.CoachID})
	}
	if f.Status != "" {
		filter = append(filter, bson.E{Key: "status", Value: f.Status})
	}
	if f.RegistrationNumber != "" {
		filter = append(filter, bson.E{Key: "registration_number", Value: f.RegistrationNumber})
	}
	if f.IDs != nil {
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$in", Value: f.IDs}}})
	}
	return filter
}

func (repo *playerRepository) CreatePlayer(ctx context.Context, p player.Player) (player.Player, error) {
	if _, err := repo.db.coll(playersColl).InsertOne(ctx, p); err != nil {
		return player.Player{}, errors.Wrap(err, "inserting player")
	}
	return p, nil
}

func (repo *playerRepository) QueryPlayers(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	res, err := findAll[player.Player](ctx, repo.db.coll(playersColl), playerFilter(filter), byName())
	return res, errors.Wrap(err, "querying players")
}

func (repo *playerRepository) CountPlayers(ctx context.Context, filter player.Filter) (int, error) {
	n, err := count(ctx, repo.db.coll(playersColl), playerFilter(filter))
	return n, errors.Wrap(err, "counting players")
}

func (repo *playerRepository) GetPlayer(ctx context.Context, academyID, id string) (player.Player, error) {
	filter := bson.D{{Key: "_id", Value: id}, {Key: "academy_id", Value: academyID}}
	return findOne[player.Player](ctx, repo.db.coll(playersColl), filter, player.ErrNotFound)
}

func (repo *playerRepository) UpdatePlayer(ctx context.Context, p player.Player) (player.Player, error) {
	orig, err := repo.GetPlayer(ctx, p.AcademyID, p.ID)
	if err != nil {
		return player.Player{}, err
	}
	p.CreatedAt = orig.CreatedAt
	p.IdentitySubject = orig.IdentitySubject

	filter := bson.D{{Key: "_id", Value: p.ID}, {Key: "academy_id", Value: p.AcademyID}}
	res, err := repo.db.coll(playersColl).ReplaceOne(ctx, filter, p)
	if err != nil {
		return player.Player{}, errors.Wrap(err, "replacing player")
	}
	if res.MatchedCount == 0 {
		return player.Player{}, player.ErrNotFound
	}
	return p, nil
}

func (repo *playerRepository) DeletePlayer(ctx context.Context, academyID, id string) error {
	res, err := repo.db.coll(playersColl).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "academy_id", Value: academyID}})
	if err != nil {
		return errors.Wrap(err, "deleting player")
	}
	if res.DeletedCount == 0 {
		return player.ErrNotFound
	}
	return nil
}

func (repo *playerRepository) SetCoach(ctx context.Context, academyID string, ids []string, coachID string) (matched, modified int, err error) {
	filter := bson.D{
		{Key: "academy_id", Value: academyID},
		{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "coach_id", Value: coachID}, {Key: "updated_at", Value: core.NowFunc()}}}}
	if coachID == "" {
		update = bson.D{
			{Key: "$unset", Value: bson.D{{Key: "coach_id", Value: ""}}},
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: core.NowFunc()}}},
		}
	}

	// updated_at always changes, so modified is counted from the players not already on coachID
	unchanged, err := count(ctx, repo.db.coll(playersColl), append(filter, bson.E{Key: "coach_id", Value: coachIDMatch(coachID)}))
	if err != nil {
		return 0, 0, errors.Wrap(err, "counting assigned players")
	}
	res, err := repo.db.coll(playersColl).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, 0, errors.Wrap(err, "assigning coach")
	}
	return int(res.MatchedCount), int(res.MatchedCount) - unchanged, nil
}

// coachIDMatch matches players already assigned to coachID, or unassigned ones for "".
func coachIDMatch(coachID string) interface{} {
	if coachID == "" {
		return bson.D{{Key: "$in", Value: bson.A{nil, ""}}}
	}
	return coachID
}

func (repo *playerRepository) UnsetCoach(ctx context.Context, academyID, coachID string) (int, error) {
	filter := bson.D{{Key: "academy_id", Value: academyID}, {Key: "coach_id", Value: coachID}}
	update := bson.D{
		{Key: "$unset", Value: bson.D{{Key: "coach_id", Value: ""}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: core.NowFunc()}}},
	}
	res, err := repo.db.coll(playersColl).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, errors.Wrap(err, "unassigning coach")
	}
	return int(res.ModifiedCount), nil
}
