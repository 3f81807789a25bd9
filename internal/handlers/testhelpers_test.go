package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/stalberm/business-directory-api/internal/config"
	"github.com/stalberm/business-directory-api/internal/handlers"
	"github.com/stalberm/business-directory-api/internal/models"
	"github.com/stalberm/business-directory-api/internal/routes"
	"github.com/stalberm/business-directory-api/internal/service"
	"github.com/stalberm/business-directory-api/internal/store"
)

const testSecret = "test-secret-key-at-least-32-chars-long"

// fakeStore is an in-memory document store supporting the filters the
// handlers actually issue.
type fakeStore struct {
	users      map[primitive.ObjectID]models.User
	businesses map[primitive.ObjectID]models.Business
	reviews    map[primitive.ObjectID]models.Review
	photos     map[primitive.ObjectID]models.Photo
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      map[primitive.ObjectID]models.User{},
		businesses: map[primitive.ObjectID]models.Business{},
		reviews:    map[primitive.ObjectID]models.Review{},
		photos:     map[primitive.ObjectID]models.Photo{},
	}
}

func (f *fakeStore) matchUser(u models.User, filter bson.M) bool {
	if id, ok := filter["_id"].(primitive.ObjectID); ok && u.ID != id {
		return false
	}
	if email, ok := filter["email"].(string); ok && u.Email != email {
		return false
	}
	return true
}

func (f *fakeStore) matchBusiness(b models.Business, filter bson.M) bool {
	if id, ok := filter["_id"].(primitive.ObjectID); ok && b.ID != id {
		return false
	}
	if owner, ok := filter["ownerid"].(string); ok && b.OwnerID != owner {
		return false
	}
	return true
}

func (f *fakeStore) matchReview(r models.Review, filter bson.M) bool {
	if id, ok := filter["_id"].(primitive.ObjectID); ok && r.ID != id {
		return false
	}
	if userID, ok := filter["userid"].(string); ok && r.UserID != userID {
		return false
	}
	if businessID, ok := filter["businessid"].(string); ok && r.BusinessID != businessID {
		return false
	}
	return true
}

func (f *fakeStore) matchPhoto(p models.Photo, filter bson.M) bool {
	if id, ok := filter["_id"].(primitive.ObjectID); ok && p.ID != id {
		return false
	}
	if userID, ok := filter["userid"].(string); ok && p.UserID != userID {
		return false
	}
	if businessID, ok := filter["businessid"].(string); ok && p.BusinessID != businessID {
		return false
	}
	return true
}

func (f *fakeStore) FindOne(_ context.Context, collection string, filter bson.M, out interface{}) error {
	switch collection {
	case store.CollectionUsers:
		for _, u := range f.users {
			if f.matchUser(u, filter) {
				*out.(*models.User) = u
				return nil
			}
		}
	case store.CollectionBusinesses:
		for _, b := range f.businesses {
			if f.matchBusiness(b, filter) {
				*out.(*models.Business) = b
				return nil
			}
		}
	case store.CollectionReviews:
		for _, r := range f.reviews {
			if f.matchReview(r, filter) {
				*out.(*models.Review) = r
				return nil
			}
		}
	case store.CollectionPhotos:
		for _, p := range f.photos {
			if f.matchPhoto(p, filter) {
				*out.(*models.Photo) = p
				return nil
			}
		}
	}
	return store.ErrNoDocuments
}

func (f *fakeStore) Find(_ context.Context, collection string, filter bson.M, out interface{}) error {
	switch collection {
	case store.CollectionBusinesses:
		result := out.(*[]models.Business)
		for _, b := range f.businesses {
			if f.matchBusiness(b, filter) {
				*result = append(*result, b)
			}
		}
	case store.CollectionReviews:
		result := out.(*[]models.Review)
		for _, r := range f.reviews {
			if f.matchReview(r, filter) {
				*result = append(*result, r)
			}
		}
	case store.CollectionPhotos:
		result := out.(*[]models.Photo)
		for _, p := range f.photos {
			if f.matchPhoto(p, filter) {
				*result = append(*result, p)
			}
		}
	}
	return nil
}

func (f *fakeStore) CountDocuments(_ context.Context, collection string, filter bson.M) (int64, error) {
	var count int64
	switch collection {
	case store.CollectionUsers:
		for _, u := range f.users {
			if f.matchUser(u, filter) {
				count++
			}
		}
	case store.CollectionBusinesses:
		for _, b := range f.businesses {
			if f.matchBusiness(b, filter) {
				count++
			}
		}
	case store.CollectionReviews:
		for _, r := range f.reviews {
			if f.matchReview(r, filter) {
				count++
			}
		}
	case store.CollectionPhotos:
		for _, p := range f.photos {
			if f.matchPhoto(p, filter) {
				count++
			}
		}
	}
	return count, nil
}

func (f *fakeStore) InsertOne(_ context.Context, collection string, doc interface{}) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	switch collection {
	case store.CollectionUsers:
		u := doc.(models.User)
		u.ID = id
		f.users[id] = u
	case store.CollectionBusinesses:
		b := doc.(models.Business)
		b.ID = id
		f.businesses[id] = b
	case store.CollectionReviews:
		r := doc.(models.Review)
		r.ID = id
		f.reviews[id] = r
	case store.CollectionPhotos:
		p := doc.(models.Photo)
		p.ID = id
		f.photos[id] = p
	}
	return id, nil
}

func (f *fakeStore) ReplaceOne(_ context.Context, collection string, filter bson.M, doc interface{}) (int64, error) {
	id, ok := filter["_id"].(primitive.ObjectID)
	if !ok {
		return 0, nil
	}
	switch collection {
	case store.CollectionBusinesses:
		if _, exists := f.businesses[id]; exists {
			b := doc.(models.Business)
			b.ID = id
			f.businesses[id] = b
			return 1, nil
		}
	case store.CollectionReviews:
		if _, exists := f.reviews[id]; exists {
			r := doc.(models.Review)
			r.ID = id
			f.reviews[id] = r
			return 1, nil
		}
	case store.CollectionPhotos:
		if _, exists := f.photos[id]; exists {
			p := doc.(models.Photo)
			p.ID = id
			f.photos[id] = p
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) DeleteOne(_ context.Context, collection string, filter bson.M) (int64, error) {
	id, ok := filter["_id"].(primitive.ObjectID)
	if !ok {
		return 0, nil
	}
	switch collection {
	case store.CollectionBusinesses:
		if _, exists := f.businesses[id]; exists {
			delete(f.businesses, id)
			return 1, nil
		}
	case store.CollectionReviews:
		if _, exists := f.reviews[id]; exists {
			delete(f.reviews, id)
			return 1, nil
		}
	case store.CollectionPhotos:
		if _, exists := f.photos[id]; exists {
			delete(f.photos, id)
			return 1, nil
		}
	}
	return 0, nil
}

// addUser seeds a user with a bcrypt hash of password and returns its id.
func (f *fakeStore) addUser(t *testing.T, name, email, password string, admin bool) primitive.ObjectID {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash seed password: %v", err)
	}
	id := primitive.NewObjectID()
	f.users[id] = models.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Admin:        admin,
	}
	return id
}

// addBusiness seeds a business owned by ownerID and returns its id.
func (f *fakeStore) addBusiness(ownerID string) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.businesses[id] = models.Business{
		ID:          id,
		OwnerID:     ownerID,
		Name:        "Juniper Cafe",
		Address:     "123 Main St",
		City:        "Corvallis",
		State:       "OR",
		Zip:         "97330",
		Phone:       "541-555-0100",
		Category:    "Restaurant",
		Subcategory: "Cafe",
	}
	return id
}

// addReview seeds a review by userID of businessID and returns its id.
func (f *fakeStore) addReview(userID, businessID string) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.reviews[id] = models.Review{
		ID:         id,
		UserID:     userID,
		BusinessID: businessID,
		Dollars:    2,
		Stars:      4.5,
		Review:     "Great coffee",
	}
	return id
}

// addPhoto seeds a photo by userID of businessID and returns its id.
func (f *fakeStore) addPhoto(userID, businessID string) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.photos[id] = models.Photo{
		ID:         id,
		UserID:     userID,
		BusinessID: businessID,
		Caption:    "Front entrance",
	}
	return id
}

// testServer is the full route table wired against a fake store.
type testServer struct {
	router *gin.Engine
	store  *fakeStore
	tokens service.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	st := newFakeStore()
	hasher := service.NewPasswordHasher(bcrypt.MinCost)
	tokens := service.NewTokenService(testSecret, time.Hour)
	auth := service.NewAuthService(st, hasher, tokens, log)
	policy := service.NewAuthorizationPolicy(st)

	router := gin.New()
	routes.Setup(router, routes.Handlers{
		Users:      handlers.NewUserHandler(auth, policy, st, log),
		Businesses: handlers.NewBusinessHandler(st, policy, log),
		Reviews:    handlers.NewReviewHandler(st, policy, log),
		Photos:     handlers.NewPhotoHandler(st, policy, log),
		Health:     handlers.NewHealthHandler(),
	}, tokens, nil, &config.Config{RateLimitWindow: time.Minute, RateLimitMax: 10}, log)

	return &testServer{router: router, store: st, tokens: tokens}
}

// tokenFor issues a bearer token for the given user id.
func (s *testServer) tokenFor(t *testing.T, id primitive.ObjectID) string {
	t.Helper()
	token, err := s.tokens.Issue(id.Hex())
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

// do performs a JSON request; a non-empty token is sent as a bearer header.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body %q: %v", w.Body.String(), err)
	}
	return body
}

func validBusinessBody(ownerID string) map[string]interface{} {
	return map[string]interface{}{
		"ownerid":     ownerID,
		"name":        "Juniper Cafe",
		"address":     "123 Main St",
		"city":        "Corvallis",
		"state":       "OR",
		"zip":         "97330",
		"phone":       "541-555-0100",
		"category":    "Restaurant",
		"subcategory": "Cafe",
	}
}
