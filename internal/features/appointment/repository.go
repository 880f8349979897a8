package appointment

import (
	"context"
	"time"

	"go-backoffice/internal/common/errs"
	"go-backoffice/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	FindByID(ctx context.Context, id string) (*Appointment, error)
	FindOpenByLead(ctx context.Context, leadID string, now time.Time) ([]Appointment, error)
	ListByOwner(ctx context.Context, ownerID string, from, to time.Time) ([]Appointment, error)
	ApplyMirror(ctx context.Context, ids []string, m Mirror) (int64, error)
	Delete(ctx context.Context, id string) error
	DeleteByLead(ctx context.Context, leadID string) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type AppointmentRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAppointmentRepository(mongodb *database.MongodbDB) AppointmentRepository {
	return &AppointmentRepositoryImpl{
		Collection: mongodb.DB.Collection("appointments"),
	}
}

func (r *AppointmentRepositoryImpl) Create(ctx context.Context, a *Appointment) error {
	_, err := r.Collection.InsertOne(ctx, a)
	return err
}

func (r *AppointmentRepositoryImpl) FindByID(ctx context.Context, id string) (*Appointment, error) {
	var a Appointment
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("appointment.find", "appointment %s not found", id)
		}
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepositoryImpl) find(ctx context.Context, query bson.M) ([]Appointment, error) {
	cursor, err := r.Collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []Appointment
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AppointmentRepositoryImpl) FindOpenByLead(ctx context.Context, leadID string, now time.Time) ([]Appointment, error) {
	return r.find(ctx, bson.M{"lead_id": leadID, "end_time": bson.M{"$gte": now}})
}

func (r *AppointmentRepositoryImpl) ListByOwner(ctx context.Context, ownerID string, from, to time.Time) ([]Appointment, error) {
	return r.find(ctx, bson.M{
		"owner_id":   ownerID,
		"start_time": bson.M{"$gte": from, "$lt": to},
	})
}

func mirrorSet(m Mirror) bson.M {
	set := bson.M{}
	if m.OwnerID != nil {
		set["owner_id"] = *m.OwnerID
	}
	if m.Stage != nil {
		set["stage"] = *m.Stage
	}
	if m.LeadName != nil {
		set["lead_name"] = *m.LeadName
	}
	return set
}

// ApplyMirror rewrites the mirrored fields on exactly the given appointments.
func (r *AppointmentRepositoryImpl) ApplyMirror(ctx context.Context, ids []string, m Mirror) (int64, error) {
	if len(ids) == 0 || m.IsEmpty() {
		return 0, nil
	}
	res, err := r.Collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": mirrorSet(m)},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (r *AppointmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.NotFound("appointment.delete", "appointment %s not found", id)
	}
	return nil
}

func (r *AppointmentRepositoryImpl) DeleteByLead(ctx context.Context, leadID string) (int64, error) {
	res, err := r.Collection.DeleteMany(ctx, bson.M{"lead_id": leadID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *AppointmentRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "lead_id", Value: 1}, {Key: "end_time", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "start_time", Value: 1}}},
	})
	return err
}
