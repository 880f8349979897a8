package note

import (
	"context"
	"fmt"

	"go-backoffice/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NoteRepository is append-only: no update or delete.
type NoteRepository interface {
	Insert(ctx context.Context, entry *NoteEntry) error
	ListByLead(ctx context.Context, leadID string, limit int64) ([]NoteEntry, error)
	EnsureIndexes(ctx context.Context) error
}

type NoteRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewNoteRepository(mongodb *database.MongodbDB) NoteRepository {
	return &NoteRepositoryImpl{
		Collection: mongodb.DB.Collection("lead_notes"),
	}
}

// Insert stores a new entry dated by the server clock ($$NOW). Every field is only
// written when missing, so an id that already exists is left as it was.
func (r *NoteRepositoryImpl) Insert(ctx context.Context, entry *NoteEntry) error {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": entry.ID},
		insertPipeline(entry),
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return err
	}
	if res.UpsertedCount == 0 {
		return fmt.Errorf("note %s already exists", entry.ID)
	}
	return nil
}

func insertPipeline(entry *NoteEntry) mongo.Pipeline {
	keep := func(field string, v interface{}) bson.D {
		return bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, bson.D{{Key: "$literal", Value: v}}}}}
	}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "lead_id", Value: keep("lead_id", entry.LeadID)},
			{Key: "content", Value: keep("content", entry.Content)},
			{Key: "author", Value: keep("author", entry.Author)},
			{Key: "type", Value: keep("type", entry.Type)},
			{Key: "date", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$date", "$$NOW"}}}},
		}}},
	}
}

func (r *NoteRepositoryImpl) ListByLead(ctx context.Context, leadID string, limit int64) ([]NoteEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.Collection.Find(ctx, bson.M{"lead_id": leadID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []NoteEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *NoteRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "lead_id", Value: 1}, {Key: "date", Value: -1}},
	})
	return err
}
