package dealership

import (
	"context"
	"time"

	"go-backoffice/internal/common/errs"
	"go-backoffice/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DealershipRepository interface {
	Create(ctx context.Context, d *Dealership) error
	FindByID(ctx context.Context, id string) (*Dealership, error)
	List(ctx context.Context) ([]Dealership, error)
	SetName(ctx context.Context, id, name string) error
}

type DealershipRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewDealershipRepository(mongodb *database.MongodbDB) DealershipRepository {
	return &DealershipRepositoryImpl{
		Collection: mongodb.DB.Collection("dealerships"),
	}
}

func (r *DealershipRepositoryImpl) Create(ctx context.Context, d *Dealership) error {
	_, err := r.Collection.InsertOne(ctx, d)
	return err
}

func (r *DealershipRepositoryImpl) FindByID(ctx context.Context, id string) (*Dealership, error) {
	var d Dealership
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("dealership.find", "dealership %s not found", id)
		}
		return nil, err
	}
	return &d, nil
}

func (r *DealershipRepositoryImpl) List(ctx context.Context) ([]Dealership, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []Dealership
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DealershipRepositoryImpl) SetName(ctx context.Context, id, name string) error {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("dealership.set_name", "dealership %s not found", id)
	}
	return nil
}
