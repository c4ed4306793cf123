package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Course struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Price       float64              `bson:"price" json:"price"`
	ImageLink   string               `bson:"imageLink,omitempty" json:"imageLink,omitempty"`
	IsPublished bool                 `bson:"isPublished" json:"isPublished"`
	Creator     primitive.ObjectID   `bson:"creator" json:"creator"`
	Students    []primitive.ObjectID `bson:"students" json:"students"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}

// CourseUpdate lists the fields an admin may change; nil fields are untouched.
type CourseUpdate struct {
	Title       *string
	Description *string
	Price       *float64
	ImageLink   *string
	IsPublished *bool
}

// Empty reports whether the update changes nothing
func (u CourseUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Price == nil && u.ImageLink == nil && u.IsPublished == nil
}

// Apply copies the set fields onto c
func (u CourseUpdate) Apply(c *Course) {
	if u.Title != nil {
		c.Title = *u.Title
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Price != nil {
		c.Price = *u.Price
	}
	if u.ImageLink != nil {
		c.ImageLink = *u.ImageLink
	}
	if u.IsPublished != nil {
		c.IsPublished = *u.IsPublished
	}
}

// CourseFilter narrows course listings; zero value matches everything.
type CourseFilter struct {
	Creator   *primitive.ObjectID
	Published *bool
}

// Matches reports whether c passes the filter
func (f CourseFilter) Matches(c *Course) bool {
	if f.Creator != nil && c.Creator != *f.Creator {
		return false
	}
	if f.Published != nil && c.IsPublished != *f.Published {
		return false
	}
	return true
}
