package repository

import (
	"context"
	"hireflow/internal/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const interviewsCollection = "interviews"

// InterviewRepo handles MongoDB operations for scheduled interviews
type InterviewRepo interface {
	Create(ctx context.Context, iv *model.Interview) error
	GetByID(ctx context.Context, id string) (*model.Interview, error)
	GetByShareCode(ctx context.Context, code string) (*model.Interview, error)
	List(ctx context.Context, recruiterID string, status model.InterviewStatus, offset, limit int) ([]*model.Interview, int64, error)
	UpdateStatus(ctx context.Context, id string, status model.InterviewStatus) error
	AddInvitee(ctx context.Context, id string, inv model.Invitee) error
	Count(ctx context.Context, recruiterID string, status model.InterviewStatus) (int64, error)
}

type interviewRepo struct {
	collection *mongo.Collection
}

// NewInterviewRepo creates a new interview repository
func NewInterviewRepo(db *mongo.Database) InterviewRepo {
	return &interviewRepo{
		collection: db.Collection(interviewsCollection),
	}
}

func (r *interviewRepo) Create(ctx context.Context, iv *model.Interview) error {
	_, err := r.collection.InsertOne(ctx, iv)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *interviewRepo) GetByID(ctx context.Context, id string) (*model.Interview, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *interviewRepo) GetByShareCode(ctx context.Context, code string) (*model.Interview, error) {
	return r.findOne(ctx, bson.M{"shareCode": code})
}

func (r *interviewRepo) findOne(ctx context.Context, filter bson.M) (*model.Interview, error) {
	var iv model.Interview
	err := r.collection.FindOne(ctx, filter).Decode(&iv)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

func statusFilter(recruiterID string, status model.InterviewStatus) bson.M {
	filter := bson.M{"recruiterId": recruiterID}
	if status != "" {
		filter["status"] = status
	}
	return filter
}

func (r *interviewRepo) List(ctx context.Context, recruiterID string, status model.InterviewStatus, offset, limit int) ([]*model.Interview, int64, error) {
	filter := statusFilter(recruiterID, status)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	out := []*model.Interview{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *interviewRepo) UpdateStatus(ctx context.Context, id string, status model.InterviewStatus) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	return err
}

func (r *interviewRepo) AddInvitee(ctx context.Context, id string, inv model.Invitee) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$addToSet": bson.M{"invitees": inv},
			"$set":      bson.M{"updatedAt": time.Now()},
		},
	)
	return err
}

func (r *interviewRepo) Count(ctx context.Context, recruiterID string, status model.InterviewStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, statusFilter(recruiterID, status))
}
