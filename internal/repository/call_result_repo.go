package repository

import (
	"context"
	"hireflow/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const callResultsCollection = "call_results"

// CallResultRepo handles MongoDB operations for finished calls and feedback
type CallResultRepo interface {
	Create(ctx context.Context, res *model.CallResult) error
	GetBySession(ctx context.Context, sessionID string) (*model.CallResult, error)
	// Summary returns the number of results and their average rating
	Summary(ctx context.Context, recruiterID string) (int64, float64, error)
}

type callResultRepo struct {
	collection *mongo.Collection
}

// NewCallResultRepo creates a new call result repository
func NewCallResultRepo(db *mongo.Database) CallResultRepo {
	return &callResultRepo{
		collection: db.Collection(callResultsCollection),
	}
}

func (r *callResultRepo) Create(ctx context.Context, res *model.CallResult) error {
	_, err := r.collection.InsertOne(ctx, res)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *callResultRepo) GetBySession(ctx context.Context, sessionID string) (*model.CallResult, error) {
	var res model.CallResult
	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *callResultRepo) Summary(ctx context.Context, recruiterID string) (int64, float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"recruiterId": recruiterID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"avg":   bson.M{"$avg": "$rating"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Count int64   `bson:"count"`
		Avg   float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Count, rows[0].Avg, nil
}
