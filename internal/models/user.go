package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Username         string               `bson:"username" json:"username"`
	Email            string               `bson:"email" json:"email"`
	Password         string               `bson:"password,omitempty" json:"-"`
	ImageLink        string               `bson:"imageLink,omitempty" json:"imageLink,omitempty"`
	PurchasedCourses []primitive.ObjectID `bson:"purchasedCourses" json:"purchasedCourses"`
	Cart             []primitive.ObjectID `bson:"cart" json:"cart"`
	CreatedAt        time.Time            `bson:"createdAt" json:"createdAt"`
}

// Profile is the public view of a user
type Profile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	ImageLink string `json:"imageLink,omitempty"`
}

// Profile returns the fields a user may see about themselves
func (u *User) Profile() Profile {
	return Profile{Username: u.Username, Email: u.Email, ImageLink: u.ImageLink}
}

// InCart reports whether courseID is already in the cart
func (u *User) InCart(courseID primitive.ObjectID) bool {
	return containsID(u.Cart, courseID)
}

// HasPurchased reports whether courseID was purchased
func (u *User) HasPurchased(courseID primitive.ObjectID) bool {
	return containsID(u.PurchasedCourses, courseID)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
