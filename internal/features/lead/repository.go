package lead

import (
	"context"
	"time"

	"go-backoffice/internal/common/errs"
	"go-backoffice/internal/common/models"
	"go-backoffice/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LeadRepository interface {
	Create(ctx context.Context, l *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter Filter, limit, offset int64) ([]Lead, int64, error)
	ApplyPatch(ctx context.Context, id string, p Patch, at time.Time) error
	SetInterestedVehicle(ctx context.Context, id, vehicleID string, at time.Time) error
	SetOwnerNameFor(ctx context.Context, ownerID, name string) (int64, error)
	SetDealershipNameFor(ctx context.Context, dealershipID, name string) (int64, error)
	Delete(ctx context.Context, id string) error
	CountWon(ctx context.Context, ownerID string, from, to time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type LeadRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewLeadRepository(mongodb *database.MongodbDB) LeadRepository {
	return &LeadRepositoryImpl{
		Collection: mongodb.DB.Collection("leads"),
	}
}

func (r *LeadRepositoryImpl) Create(ctx context.Context, l *Lead) error {
	_, err := r.Collection.InsertOne(ctx, l)
	return err
}

func (r *LeadRepositoryImpl) FindByID(ctx context.Context, id string) (*Lead, error) {
	var l Lead
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("lead.find", "lead %s not found", id)
		}
		return nil, err
	}
	return &l, nil
}

func filterQuery(f Filter) bson.M {
	query := bson.M{}
	if f.OwnerID != "" {
		query["owner_id"] = f.OwnerID
	}
	if f.DealershipID != "" {
		query["dealership_id"] = f.DealershipID
	}
	if f.Stage != "" {
		query["stage"] = f.Stage
	}
	return query
}

func (r *LeadRepositoryImpl) List(ctx context.Context, filter Filter, limit, offset int64) ([]Lead, int64, error) {
	query := filterQuery(filter)

	total, err := r.Collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "last_activity", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var leads []Lead
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// patchSet converts a patch into the $set document for the lead.
func patchSet(p Patch, at time.Time) bson.M {
	set := bson.M{"last_activity": at}
	if p.Stage != nil {
		set["stage"] = *p.Stage
	}
	if p.OwnerID != nil {
		set["owner_id"] = *p.OwnerID
	}
	if p.OwnerName != nil {
		set["owner_name"] = *p.OwnerName
	}
	if p.DealershipID != nil {
		set["dealership_id"] = *p.DealershipID
	}
	if p.DealershipName != nil {
		set["dealership_name"] = *p.DealershipName
	}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.WonAt != nil {
		set["won_at"] = *p.WonAt
	}
	return set
}

func (r *LeadRepositoryImpl) ApplyPatch(ctx context.Context, id string, p Patch, at time.Time) error {
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patchSet(p, at)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("lead.apply_patch", "lead %s not found", id)
	}
	return nil
}

func (r *LeadRepositoryImpl) SetInterestedVehicle(ctx context.Context, id, vehicleID string, at time.Time) error {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"interested_vehicle_id": vehicleID, "last_activity": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("lead.set_vehicle", "lead %s not found", id)
	}
	return nil
}

func (r *LeadRepositoryImpl) SetOwnerNameFor(ctx context.Context, ownerID, name string) (int64, error) {
	res, err := r.Collection.UpdateMany(ctx,
		bson.M{"owner_id": ownerID},
		bson.M{"$set": bson.M{"owner_name": name}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *LeadRepositoryImpl) SetDealershipNameFor(ctx context.Context, dealershipID, name string) (int64, error) {
	res, err := r.Collection.UpdateMany(ctx,
		bson.M{"dealership_id": dealershipID},
		bson.M{"$set": bson.M{"dealership_name": name}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *LeadRepositoryImpl) Delete(ctx context.Context, id string) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.NotFound("lead.delete", "lead %s not found", id)
	}
	return nil
}

// CountWon counts Ganado leads of ownerID that were won in [from, to).
func (r *LeadRepositoryImpl) CountWon(ctx context.Context, ownerID string, from, to time.Time) (int64, error) {
	return r.Collection.CountDocuments(ctx, wonQuery(ownerID, from, to))
}

func wonQuery(ownerID string, from, to time.Time) bson.M {
	return bson.M{
		"owner_id": ownerID,
		"stage":    models.StageGanado,
		"won_at":   bson.M{"$gte": from, "$lt": to},
	}
}

func (r *LeadRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "stage", Value: 1}, {Key: "won_at", Value: -1}}},
		{Keys: bson.D{{Key: "last_activity", Value: -1}}},
		{Keys: bson.D{{Key: "dealership_id", Value: 1}}},
	})
	return err
}
