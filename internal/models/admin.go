package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Admin struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Username  string               `bson:"username" json:"username"`
	Email     string               `bson:"email" json:"email"`
	Password  string               `bson:"password,omitempty" json:"-"`
	ImageLink string               `bson:"imageLink,omitempty" json:"imageLink,omitempty"`
	Courses   []primitive.ObjectID `bson:"courses" json:"courses"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}
