package repository

import (
	"context"
	"hireflow/internal/model"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const jobsCollection = "jobs"

// JobRepo handles MongoDB operations for job postings
type JobRepo interface {
	Create(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, id string) (*model.Job, error)
	List(ctx context.Context, recruiterID string, f model.JobFilter) ([]*model.Job, int64, error)
	Update(ctx context.Context, job *model.Job) error
	Delete(ctx context.Context, id string) (bool, error)
	AddRound(ctx context.Context, jobID string, round model.Round) error
	IncInterviews(ctx context.Context, jobID string, delta int) error
	Count(ctx context.Context, recruiterID string, status model.JobStatus) (int64, error)
}

type jobRepo struct {
	collection *mongo.Collection
}

// NewJobRepo creates a new job repository
func NewJobRepo(db *mongo.Database) JobRepo {
	return &jobRepo{
		collection: db.Collection(jobsCollection),
	}
}

func (r *jobRepo) Create(ctx context.Context, job *model.Job) error {
	_, err := r.collection.InsertOne(ctx, job)
	return err
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	var job model.Job
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func jobFilter(recruiterID string, f model.JobFilter) bson.M {
	filter := bson.M{"recruiterId": recruiterID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"domain": re},
			bson.M{"skills": re},
		}
	}
	return filter
}

func (r *jobRepo) List(ctx context.Context, recruiterID string, f model.JobFilter) ([]*model.Job, int64, error) {
	filter := jobFilter(recruiterID, f)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(f.Offset)).
		SetLimit(int64(f.Limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	jobs := []*model.Job{}
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *jobRepo) Update(ctx context.Context, job *model.Job) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": job.ID}, job)
	return err
}

func (r *jobRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *jobRepo) AddRound(ctx context.Context, jobID string, round model.Round) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": jobID},
		bson.M{
			"$push": bson.M{"rounds": round},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	return err
}

func (r *jobRepo) IncInterviews(ctx context.Context, jobID string, delta int) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": jobID},
		bson.M{"$inc": bson.M{"interviews": delta}},
	)
	return err
}

func (r *jobRepo) Count(ctx context.Context, recruiterID string, status model.JobStatus) (int64, error) {
	filter := bson.M{"recruiterId": recruiterID}
	if status != "" {
		filter["status"] = status
	}
	return r.collection.CountDocuments(ctx, filter)
}
