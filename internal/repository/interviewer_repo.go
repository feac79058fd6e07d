package repository

import (
	"context"
	"hireflow/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const interviewersCollection = "interviewers"

// InterviewerRepo handles MongoDB operations for interviewer personas
type InterviewerRepo interface {
	Create(ctx context.Context, iv *model.Interviewer) error
	GetByID(ctx context.Context, id string) (*model.Interviewer, error)
	ListByRecruiter(ctx context.Context, recruiterID string) ([]*model.Interviewer, error)
	Update(ctx context.Context, iv *model.Interviewer) error
	Delete(ctx context.Context, id string) (bool, error)
}

type interviewerRepo struct {
	collection *mongo.Collection
}

// NewInterviewerRepo creates a new interviewer repository
func NewInterviewerRepo(db *mongo.Database) InterviewerRepo {
	return &interviewerRepo{
		collection: db.Collection(interviewersCollection),
	}
}

func (r *interviewerRepo) Create(ctx context.Context, iv *model.Interviewer) error {
	_, err := r.collection.InsertOne(ctx, iv)
	return err
}

func (r *interviewerRepo) GetByID(ctx context.Context, id string) (*model.Interviewer, error) {
	var iv model.Interviewer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&iv)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

func (r *interviewerRepo) ListByRecruiter(ctx context.Context, recruiterID string) ([]*model.Interviewer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"recruiterId": recruiterID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []*model.Interviewer{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *interviewerRepo) Update(ctx context.Context, iv *model.Interviewer) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": iv.ID}, iv)
	return err
}

func (r *interviewerRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
