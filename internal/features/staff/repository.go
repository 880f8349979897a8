package staff

import (
	"context"
	"time"

	"go-backoffice/internal/common/errs"
	"go-backoffice/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StaffRepository interface {
	Create(ctx context.Context, s *Staff) error
	FindByID(ctx context.Context, id string) (*Staff, error)
	List(ctx context.Context, filter map[string]interface{}) ([]Staff, error)
	SetName(ctx context.Context, id, name string) error
}

type StaffRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewStaffRepository(mongodb *database.MongodbDB) StaffRepository {
	return &StaffRepositoryImpl{
		Collection: mongodb.DB.Collection("staff"),
	}
}

func (r *StaffRepositoryImpl) Create(ctx context.Context, s *Staff) error {
	_, err := r.Collection.InsertOne(ctx, s)
	return err
}

func (r *StaffRepositoryImpl) FindByID(ctx context.Context, id string) (*Staff, error) {
	var s Staff
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("staff.find", "staff %s not found", id)
		}
		return nil, err
	}
	return &s, nil
}

func (r *StaffRepositoryImpl) List(ctx context.Context, filter map[string]interface{}) ([]Staff, error) {
	query := bson.M{}
	for k, v := range filter {
		if str, ok := v.(string); ok && str == "" {
			continue
		}
		query[k] = v
	}

	cursor, err := r.Collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []Staff
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *StaffRepositoryImpl) SetName(ctx context.Context, id, name string) error {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("staff.set_name", "staff %s not found", id)
	}
	return nil
}
