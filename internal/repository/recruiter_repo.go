package repository

import (
	"context"
	"errors"
	"hireflow/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const recruitersCollection = "recruiters"

// ErrDuplicate is returned when a unique index rejects an insert
var ErrDuplicate = errors.New("duplicate record")

// RecruiterRepo handles MongoDB operations for recruiter accounts
type RecruiterRepo interface {
	Create(ctx context.Context, r *model.Recruiter) error
	GetByID(ctx context.Context, id string) (*model.Recruiter, error)
	GetByEmail(ctx context.Context, email string) (*model.Recruiter, error)
	GetByPhone(ctx context.Context, phone string) (*model.Recruiter, error)
}

type recruiterRepo struct {
	collection *mongo.Collection
}

// NewRecruiterRepo creates a new recruiter repository
func NewRecruiterRepo(db *mongo.Database) RecruiterRepo {
	return &recruiterRepo{
		collection: db.Collection(recruitersCollection),
	}
}

func (r *recruiterRepo) Create(ctx context.Context, rec *model.Recruiter) error {
	_, err := r.collection.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *recruiterRepo) GetByID(ctx context.Context, id string) (*model.Recruiter, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *recruiterRepo) GetByEmail(ctx context.Context, email string) (*model.Recruiter, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *recruiterRepo) GetByPhone(ctx context.Context, phone string) (*model.Recruiter, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *recruiterRepo) findOne(ctx context.Context, filter bson.M) (*model.Recruiter, error) {
	var rec model.Recruiter
	err := r.collection.FindOne(ctx, filter).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
