package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectRetryInterval = 2 * time.Second

type mongoStore struct {
	db *mongo.Database
}

// Connect establishes the shared document-store connection, retrying
// indefinitely until the database accepts a ping. This only runs at process
// startup; individual requests are never retried.
func Connect(ctx context.Context, uri, dbName string, log *logrus.Logger) (Store, error) {
	for {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = client.Ping(pingCtx, nil)
			cancel()
			if err == nil {
				log.Info("connected to document store")
				return &mongoStore{db: client.Database(dbName)}, nil
			}
			_ = client.Disconnect(ctx)
		}

		log.WithError(err).Warnf("document store connection failed, retrying in %s", connectRetryInterval)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectRetryInterval):
		}
	}
}

func (s *mongoStore) FindOne(ctx context.Context, collection string, filter bson.M, out interface{}) error {
	err := s.db.Collection(collection).FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNoDocuments
	}
	if err != nil {
		return fmt.Errorf("failed to find document in %s: %w", collection, err)
	}
	return nil
}

func (s *mongoStore) Find(ctx context.Context, collection string, filter bson.M, out interface{}) error {
	cursor, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode documents from %s: %w", collection, err)
	}
	return nil
}

func (s *mongoStore) CountDocuments(ctx context.Context, collection string, filter bson.M) (int64, error) {
	count, err := s.db.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents in %s: %w", collection, err)
	}
	return count, nil
}

func (s *mongoStore) InsertOne(ctx context.Context, collection string, doc interface{}) (primitive.ObjectID, error) {
	result, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T in %s", result.InsertedID, collection)
	}
	return id, nil
}

func (s *mongoStore) ReplaceOne(ctx context.Context, collection string, filter bson.M, doc interface{}) (int64, error) {
	result, err := s.db.Collection(collection).ReplaceOne(ctx, filter, doc)
	if err != nil {
		return 0, fmt.Errorf("failed to replace document in %s: %w", collection, err)
	}
	return result.MatchedCount, nil
}

func (s *mongoStore) DeleteOne(ctx context.Context, collection string, filter bson.M) (int64, error) {
	result, err := s.db.Collection(collection).DeleteOne(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete document from %s: %w", collection, err)
	}
	return result.DeletedCount, nil
}
