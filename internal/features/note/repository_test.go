package note

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestNoteRepositoryMock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert appends", func(mt *mtest.T) {
		repo := &NoteRepositoryImpl{Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: "n1"}}}},
		))

		err := repo.Insert(context.Background(), &NoteEntry{
			ID: "n1", LeadID: "l1", Content: "Lead created", Author: "Ana", Date: time.Now(), Type: TypeSystem,
		})
		assert.NoError(mt, err)
	})

	mt.Run("insert never touches an existing entry", func(mt *mtest.T) {
		repo := &NoteRepositoryImpl{Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.Insert(context.Background(), &NoteEntry{ID: "n1", LeadID: "l1", Content: "again", Type: TypeManual})
		assert.Error(mt, err)
	})

	mt.Run("list decodes entries", func(mt *mtest.T) {
		repo := &NoteRepositoryImpl{Collection: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "n2"}, {Key: "lead_id", Value: "l1"}, {Key: "content", Value: "second"}, {Key: "type", Value: "Manual"}},
			bson.D{{Key: "_id", Value: "n1"}, {Key: "lead_id", Value: "l1"}, {Key: "content", Value: "first"}, {Key: "type", Value: "System"}},
		)
		last := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, last)

		entries, err := repo.ListByLead(context.Background(), "l1", 10)
		require.NoError(mt, err)
		require.Len(mt, entries, 2)
		assert.Equal(mt, "n2", entries[0].ID)
		assert.Equal(mt, TypeSystem, entries[1].Type)
	})
}

func TestInsertPipelineUsesServerClock(t *testing.T) {
	p := insertPipeline(&NoteEntry{ID: "n1", LeadID: "l1", Content: "$price changed", Author: "Ana", Type: TypeSystem})
	require.Len(t, p, 1)

	set := p[0][0].Value.(bson.D)
	fields := map[string]interface{}{}
	for _, e := range set {
		fields[e.Key] = e.Value
	}
	assert.Equal(t, bson.D{{Key: "$ifNull", Value: bson.A{"$date", "$$NOW"}}}, fields["date"])
	// user content must stay literal, not be read as a field path
	assert.Equal(t, bson.D{{Key: "$ifNull", Value: bson.A{"$content", bson.D{{Key: "$literal", Value: "$price changed"}}}}}, fields["content"])
}
