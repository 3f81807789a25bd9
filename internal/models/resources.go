package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Business is a directory entry. OwnerID holds the hex id of the owning
// user as an opaque string; the authorization policy compares it verbatim
// against the token subject.
type Business struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     string             `bson:"ownerid" json:"ownerid"`
	Name        string             `bson:"name" json:"name"`
	Address     string             `bson:"address" json:"address"`
	City        string             `bson:"city" json:"city"`
	State       string             `bson:"state" json:"state"`
	Zip         string             `bson:"zip" json:"zip"`
	Phone       string             `bson:"phone" json:"phone"`
	Category    string             `bson:"category" json:"category"`
	Subcategory string             `bson:"subcategory" json:"subcategory"`
	Website     string             `bson:"website,omitempty" json:"website,omitempty"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
}

// Review is a user's rating of a business. UserID is the owner field.
type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"userid" json:"userid"`
	BusinessID string             `bson:"businessid" json:"businessid"`
	Dollars    int                `bson:"dollars" json:"dollars"`
	Stars      float64            `bson:"stars" json:"stars"`
	Review     string             `bson:"review,omitempty" json:"review,omitempty"`
}

// Photo is a user-submitted photo of a business. UserID is the owner field.
type Photo struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"userid" json:"userid"`
	BusinessID string             `bson:"businessid" json:"businessid"`
	Caption    string             `bson:"caption,omitempty" json:"caption,omitempty"`
}
