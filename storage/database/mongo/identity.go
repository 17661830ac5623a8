package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Arun270647/tma-demo-repo/core/identity"
)

const (
	subjectField = "identity_subject"
	// documents written before role bindings existed reference the subject under this field
	legacySubjectField = "supabase_user_id"
)

type bindingRepository struct {
	db *DB
}

var _ identity.Repository = (*bindingRepository)(nil)

func NewBindingRepository(db *DB) identity.Repository {
	return &bindingRepository{db: db}
}

func (repo *bindingRepository) GetBinding(ctx context.Context, subject string) (identity.Binding, error) {
	return findOne[identity.Binding](ctx, repo.db.coll(bindingsColl), bson.D{{Key: "_id", Value: subject}}, identity.ErrNotFound)
}

func (repo *bindingRepository) CreateBinding(ctx context.Context, b identity.Binding) (identity.Binding, error) {
	if _, err := repo.db.coll(bindingsColl).InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return identity.Binding{}, identity.ErrBindingExists
		}
		return identity.Binding{}, errors.Wrap(err, "inserting role binding")
	}
	b.Email = ""
	return b, nil
}

func (repo *bindingRepository) QueryBindings(ctx context.Context, role string) ([]identity.Binding, error) {
	filter := bson.D{}
	if role != "" {
		filter = append(filter, bson.E{Key: "role", Value: role})
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	res, err := findAll[identity.Binding](ctx, repo.db.coll(bindingsColl), filter, opts)
	return res, errors.Wrap(err, "querying role bindings")
}

func (repo *bindingRepository) DeleteBinding(ctx context.Context, subject string) error {
	res, err := repo.db.coll(bindingsColl).DeleteOne(ctx, bson.D{{Key: "_id", Value: subject}})
	if err != nil {
		return errors.Wrap(err, "deleting role binding")
	}
	if res.DeletedCount == 0 {
		return identity.ErrNotFound
	}
	return nil
}

func (repo *bindingRepository) DeleteAcademyBindings(ctx context.Context, academyID string) error {
	_, err := repo.db.coll(bindingsColl).DeleteMany(ctx, bson.D{{Key: "academy_id", Value: academyID}})
	return errors.Wrap(err, "deleting academy role bindings")
}

func (repo *bindingRepository) DeleteMemberBindings(ctx context.Context, academyID, role, memberID string) error {
	field := "player_id"
	if role == identity.RoleCoach {
		field = "coach_id"
	}
	filter := bson.D{{Key: "academy_id", Value: academyID}, {Key: "role", Value: role}, {Key: field, Value: memberID}}
	_, err := repo.db.coll(bindingsColl).DeleteMany(ctx, filter)
	return errors.Wrapf(err, "deleting %s role bindings", role)
}

type subjectLookup struct {
	db *DB
}

var _ identity.SubjectLookup = (*subjectLookup)(nil)

// NewSubjectLookup finds the coach, player and academy documents carrying an identity subject.
func NewSubjectLookup(db *DB) identity.SubjectLookup {
	return &subjectLookup{db: db}
}

// subjectDoc is the projection of a document referencing a subject.
// Legacy documents have an ObjectID `_id` and keep the domain id under `id`.
type subjectDoc struct {
	RawID     bson.RawValue `bson:"_id"`
	LegacyID  string        `bson:"id,omitempty"`
	AcademyID string        `bson:"academy_id"`
}

func (doc subjectDoc) id() string {
	if doc.LegacyID != "" {
		return doc.LegacyID
	}
	if s, ok := doc.RawID.StringValueOK(); ok {
		return s
	}
	if oid, ok := doc.RawID.ObjectIDOK(); ok {
		return oid.Hex()
	}
	return ""
}

func (l *subjectLookup) find(ctx context.Context, coll, subject string) (subjectDoc, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: subjectField, Value: subject}},
		bson.D{{Key: legacySubjectField, Value: subject}},
	}}}
	opts := options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}, {Key: "id", Value: 1}, {Key: "academy_id", Value: 1}})
	doc, err := findOne[subjectDoc](ctx, l.db.coll(coll), filter, identity.ErrNotFound, opts)
	return doc, errors.Wrapf(err, "finding %s", coll)
}

func (l *subjectLookup) FindCoachBySubject(ctx context.Context, subject string) (identity.Match, error) {
	doc, err := l.find(ctx, coachesColl, subject)
	if err != nil {
		return identity.Match{}, err
	}
	return identity.Match{ID: doc.id(), AcademyID: doc.AcademyID}, nil
}

func (l *subjectLookup) FindPlayerBySubject(ctx context.Context, subject string) (identity.Match, error) {
	doc, err := l.find(ctx, playersColl, subject)
	if err != nil {
		return identity.Match{}, err
	}
	return identity.Match{ID: doc.id(), AcademyID: doc.AcademyID}, nil
}

func (l *subjectLookup) FindAcademyBySubject(ctx context.Context, subject string) (identity.Match, error) {
	doc, err := l.find(ctx, academiesColl, subject)
	if err != nil {
		return identity.Match{}, err
	}
	return identity.Match{ID: doc.id(), AcademyID: doc.id()}, nil
}
