package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/stalberm/business-directory-api/internal/models"
	"github.com/stalberm/business-directory-api/internal/store"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses do not reveal whether the email exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEmail is returned when registration finds the email
	// already in use.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrAdminRequired is returned when a non-admin caller requests the
	// admin flag at registration.
	ErrAdminRequired = errors.New("admin privileges required")
)

// AuthService handles registration and login.
type AuthService interface {
	// Login verifies the credentials and returns a bearer token whose
	// subject is the user's id.
	Login(ctx context.Context, email, password string) (string, error)

	// Register creates a user and returns its id. The admin flag is only
	// honored when the caller is an admin; a non-admin requesting it is
	// rejected with ErrAdminRequired.
	Register(ctx context.Context, name, email, password string, admin, callerIsAdmin bool) (string, error)
}

type authService struct {
	store  store.Store
	hasher PasswordHasher
	tokens TokenService
	log    *logrus.Logger
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(st store.Store, hasher PasswordHasher, tokens TokenService, log *logrus.Logger) AuthService {
	return &authService{
		store:  st,
		hasher: hasher,
		tokens: tokens,
		log:    log,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	var user models.User
	err := s.store.FindOne(ctx, store.CollectionUsers, bson.M{"email": email}, &user)
	if errors.Is(err, store.ErrNoDocuments) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up user by email: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

func (s *authService) Register(ctx context.Context, name, email, password string, admin, callerIsAdmin bool) (string, error) {
	if admin && !callerIsAdmin {
		return "", ErrAdminRequired
	}

	// Best-effort uniqueness pre-check. Two concurrent registrations for the
	// same email are not serialized here; see DESIGN.md.
	count, err := s.store.CountDocuments(ctx, store.CollectionUsers, bson.M{"email": email})
	if err != nil {
		return "", fmt.Errorf("failed to check for existing email: %w", err)
	}
	if count > 0 {
		return "", ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Admin:        admin,
	}
	id, err := s.store.InsertOne(ctx, store.CollectionUsers, user)
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": id.Hex(), "admin": admin}).Info("user registered")
	return id.Hex(), nil
}
