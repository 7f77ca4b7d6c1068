// Package mongorepos implements the repositories on MongoDB.
package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/trezcool/studentportal/core"
)

// Collections
const (
	usersCollection         = "users"
	announcementsCollection = "announcements"
	quizzesCollection       = "quizzes"
)

// Connect opens a client to conf.Database.URI and waits for the server to answer.
func Connect(ctx context.Context, conf *core.Config) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(conf.Database.URI).
		SetAppName(conf.AppName).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err = ping(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, client.Database(conf.Database.Name), nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, client *mongo.Client) error {
	var err error
	maxAttempts := 10
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = client.Ping(ctx, readpref.Primary()); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
	return errors.Wrap(err, "DB ping timeout")
}

// EnsureIndexes creates the indexes used by the repositories. Existing indexes are left untouched.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		announcementsCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "priority", Value: 1}, {Key: "isActive", Value: 1}}},
		},
		quizzesCollection: {
			{Keys: bson.D{{Key: "startDate", Value: 1}, {Key: "endDate", Value: 1}}},
			{Keys: bson.D{{Key: "subject", Value: 1}, {Key: "isActive", Value: 1}}},
			{Keys: bson.D{{Key: "instructor", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "creating %s indexes", coll)
		}
	}
	return nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, core.ErrInvalidID
	}
	return oid, nil
}

// findOptions returns the sort/skip/limit options of a page.
func findOptions(page core.PageRequest, sort bson.D) *options.FindOptions {
	opts := options.Find().SetSort(sort).SetSkip(int64(page.Offset()))
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}
	return opts
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// utc normalizes times decoded from BSON, which come back in the local zone.
func utc(t time.Time) time.Time { return t.UTC() }
