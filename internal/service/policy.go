package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stalberm/business-directory-api/internal/models"
	"github.com/stalberm/business-directory-api/internal/store"
)

// AuthorizationPolicy is the owner-or-admin decision consulted by every
// mutating or user-scoped endpoint. Plain single-resource reads are public
// and never consult it.
type AuthorizationPolicy interface {
	// IsAdmin reports whether the subject's user record carries the admin
	// flag. It never fails: an unparseable id, a missing record, or a store
	// fault all degrade to false.
	IsAdmin(ctx context.Context, subjectID string) bool

	// Authorize reports whether the subject may act on a resource whose
	// owner field is ownerID. Admins are allowed unconditionally; otherwise
	// the subject and owner ids are compared as opaque strings.
	Authorize(ctx context.Context, subjectID, ownerID string) bool
}

type policy struct {
	store store.Store
}

// NewAuthorizationPolicy creates an AuthorizationPolicy backed by the users
// collection.
func NewAuthorizationPolicy(st store.Store) AuthorizationPolicy {
	return &policy{store: st}
}

func (p *policy) IsAdmin(ctx context.Context, subjectID string) bool {
	id, err := primitive.ObjectIDFromHex(subjectID)
	if err != nil {
		return false
	}

	var user models.User
	if err := p.store.FindOne(ctx, store.CollectionUsers, bson.M{"_id": id}, &user); err != nil {
		// Degrade to deny: a stale credential or a store fault is treated
		// as non-admin, not as an error.
		return false
	}
	return user.Admin
}

func (p *policy) Authorize(ctx context.Context, subjectID, ownerID string) bool {
	if subjectID != "" && subjectID == ownerID {
		return true
	}
	return p.IsAdmin(ctx, subjectID)
}
