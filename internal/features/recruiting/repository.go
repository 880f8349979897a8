package recruiting

import (
	"context"
	"errors"
	"time"

	"go-backoffice/internal/common/errs"
	"go-backoffice/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrStatusChanged means the candidate no longer has the status the update was based on.
var ErrStatusChanged = errors.New("candidate status changed concurrently")

type CandidateRepository interface {
	Create(ctx context.Context, c *Candidate) error
	FindByID(ctx context.Context, id string) (*Candidate, error)
	List(ctx context.Context, status Status, limit, offset int64) ([]Candidate, error)
	UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) error
	ListStale(ctx context.Context, changedBefore time.Time) ([]Candidate, error)
	EnsureIndexes(ctx context.Context) error
}

type CandidateRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewCandidateRepository(mongodb *database.MongodbDB) CandidateRepository {
	return &CandidateRepositoryImpl{
		Collection: mongodb.DB.Collection("candidates"),
	}
}

func (r *CandidateRepositoryImpl) Create(ctx context.Context, c *Candidate) error {
	_, err := r.Collection.InsertOne(ctx, c)
	return err
}

func (r *CandidateRepositoryImpl) FindByID(ctx context.Context, id string) (*Candidate, error) {
	var c Candidate
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.NotFound("candidate.find", "candidate %s not found", id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *CandidateRepositoryImpl) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]Candidate, error) {
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	candidates := []Candidate{}
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *CandidateRepositoryImpl) List(ctx context.Context, status Status, limit, offset int64) ([]Candidate, error) {
	query := bson.M{}
	if status != "" {
		query["pipeline_status"] = status
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "last_status_change_date", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)
	return r.find(ctx, query, opts)
}

// UpdateStatus only matches while the stored status is still from.
func (r *CandidateRepositoryImpl) UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) error {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "pipeline_status": from},
		bson.M{"$set": bson.M{"pipeline_status": to, "last_status_change_date": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStatusChanged
	}
	return nil
}

func (r *CandidateRepositoryImpl) ListStale(ctx context.Context, changedBefore time.Time) ([]Candidate, error) {
	query := bson.M{
		"pipeline_status":         bson.M{"$in": []Status{StatusApproved, StatusOnboarding}},
		"last_status_change_date": bson.M{"$lt": changedBefore},
	}
	return r.find(ctx, query, options.Find().SetSort(bson.D{{Key: "last_status_change_date", Value: 1}}))
}

func (r *CandidateRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "pipeline_status", Value: 1}, {Key: "last_status_change_date", Value: 1}},
	})
	return err
}
