package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestSubjectDoc_id(t *testing.T) {
	oid := bson.NewObjectID()

	tests := []struct {
		name    string
		doc     bson.D
		wantID  string
		wantAca string
	}{
		{
			name:    "string id",
			doc:     bson.D{{Key: "_id", Value: "p-1"}, {Key: "academy_id", Value: "a-1"}, {Key: subjectField, Value: "sub"}},
			wantID:  "p-1",
			wantAca: "a-1",
		},
		{
			name: "legacy document with object id and domain id",
			doc: bson.D{
				{Key: "_id", Value: oid}, {Key: "id", Value: "p-uuid"},
				{Key: "academy_id", Value: "a-1"}, {Key: legacySubjectField, Value: "sub"},
			},
			wantID:  "p-uuid",
			wantAca: "a-1",
		},
		{
			name:    "object id only",
			doc:     bson.D{{Key: "_id", Value: oid}, {Key: "academy_id", Value: "a-2"}},
			wantID:  oid.Hex(),
			wantAca: "a-2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := bson.Marshal(tt.doc)
			require.NoError(t, err)

			var doc subjectDoc
			require.NoError(t, bson.Unmarshal(raw, &doc))
			assert.Equal(t, tt.wantID, doc.id())
			assert.Equal(t, tt.wantAca, doc.AcademyID)
		})
	}
}
