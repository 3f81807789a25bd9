// Package models contains the document models stored by the directory API.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is an identity record. The password hash is never serialized to
// clients; the admin flag is settable only through an admin-authenticated
// registration.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Admin        bool               `bson:"admin" json:"admin"`
}
