package repository

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories query on. Failures are
// logged; the service still works without them, only slower.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	createIndex(ctx, db.Collection(recruitersCollection), bson.D{{Key: "email", Value: 1}}, true)
	createIndex(ctx, db.Collection(recruitersCollection), bson.D{{Key: "phone", Value: 1}}, true)

	createIndex(ctx, db.Collection(jobsCollection), bson.D{
		{Key: "recruiterId", Value: 1},
		{Key: "createdAt", Value: -1},
	}, false)
	createIndex(ctx, db.Collection(jobsCollection), bson.D{
		{Key: "recruiterId", Value: 1},
		{Key: "status", Value: 1},
	}, false)

	createIndex(ctx, db.Collection(interviewersCollection), bson.D{{Key: "recruiterId", Value: 1}}, false)

	createIndex(ctx, db.Collection(interviewsCollection), bson.D{{Key: "shareCode", Value: 1}}, true)
	createIndex(ctx, db.Collection(interviewsCollection), bson.D{
		{Key: "recruiterId", Value: 1},
		{Key: "status", Value: 1},
		{Key: "createdAt", Value: -1},
	}, false)

	createIndex(ctx, db.Collection(callResultsCollection), bson.D{{Key: "sessionId", Value: 1}}, true)
	createIndex(ctx, db.Collection(callResultsCollection), bson.D{{Key: "recruiterId", Value: 1}}, false)

	log.Println("Mongo indexes ensured")
}

func createIndex(ctx context.Context, coll *mongo.Collection, keys bson.D, unique bool) {
	opts := options.Index().SetUnique(unique)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts})
	if err != nil {
		log.Printf("Warning: failed to create index on %s: %v", coll.Name(), err)
	}
}
