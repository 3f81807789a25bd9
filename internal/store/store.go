// Package store provides the document-store adapter backing the directory
// API. Records are schemaless documents keyed by a hex ObjectID and
// filterable by any stored field.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names used across the API.
const (
	CollectionUsers      = "users"
	CollectionBusinesses = "businesses"
	CollectionReviews    = "reviews"
	CollectionPhotos     = "photos"
)

// ErrNoDocuments is returned by FindOne when no document matches the filter.
var ErrNoDocuments = errors.New("store: no matching documents")

// Store is the opaque document collection interface. All blocking calls take
// a context and must complete before any decision is made on their result.
type Store interface {
	// FindOne decodes the first document matching filter into out.
	// Returns ErrNoDocuments when nothing matches.
	FindOne(ctx context.Context, collection string, filter bson.M, out interface{}) error

	// Find decodes all documents matching filter into out, which must be a
	// pointer to a slice.
	Find(ctx context.Context, collection string, filter bson.M, out interface{}) error

	// CountDocuments returns the number of documents matching filter.
	CountDocuments(ctx context.Context, collection string, filter bson.M) (int64, error)

	// InsertOne stores doc and returns its generated id.
	InsertOne(ctx context.Context, collection string, doc interface{}) (primitive.ObjectID, error)

	// ReplaceOne replaces the document matching filter with doc and returns
	// the number of matched documents.
	ReplaceOne(ctx context.Context, collection string, filter bson.M, doc interface{}) (int64, error)

	// DeleteOne removes the document matching filter and returns the number
	// of deleted documents.
	DeleteOne(ctx context.Context, collection string, filter bson.M) (int64, error)
}
