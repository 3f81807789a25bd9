package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stalberm/business-directory-api/internal/store"
)

// mockStore implements store.Store with overridable func fields. Calls
// without an override fall back to "nothing stored" behavior.
type mockStore struct {
	findOneFunc    func(ctx context.Context, collection string, filter bson.M, out interface{}) error
	findFunc       func(ctx context.Context, collection string, filter bson.M, out interface{}) error
	countFunc      func(ctx context.Context, collection string, filter bson.M) (int64, error)
	insertOneFunc  func(ctx context.Context, collection string, doc interface{}) (primitive.ObjectID, error)
	replaceOneFunc func(ctx context.Context, collection string, filter bson.M, doc interface{}) (int64, error)
	deleteOneFunc  func(ctx context.Context, collection string, filter bson.M) (int64, error)
}

var _ store.Store = (*mockStore)(nil)

func (m *mockStore) FindOne(ctx context.Context, collection string, filter bson.M, out interface{}) error {
	if m.findOneFunc != nil {
		return m.findOneFunc(ctx, collection, filter, out)
	}
	return store.ErrNoDocuments
}

func (m *mockStore) Find(ctx context.Context, collection string, filter bson.M, out interface{}) error {
	if m.findFunc != nil {
		return m.findFunc(ctx, collection, filter, out)
	}
	return nil
}

func (m *mockStore) CountDocuments(ctx context.Context, collection string, filter bson.M) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, collection, filter)
	}
	return 0, nil
}

func (m *mockStore) InsertOne(ctx context.Context, collection string, doc interface{}) (primitive.ObjectID, error) {
	if m.insertOneFunc != nil {
		return m.insertOneFunc(ctx, collection, doc)
	}
	return primitive.NewObjectID(), nil
}

func (m *mockStore) ReplaceOne(ctx context.Context, collection string, filter bson.M, doc interface{}) (int64, error) {
	if m.replaceOneFunc != nil {
		return m.replaceOneFunc(ctx, collection, filter, doc)
	}
	return 0, errors.New("not implemented")
}

func (m *mockStore) DeleteOne(ctx context.Context, collection string, filter bson.M) (int64, error) {
	if m.deleteOneFunc != nil {
		return m.deleteOneFunc(ctx, collection, filter)
	}
	return 0, errors.New("not implemented")
}
