package db

import (
	"context"
	"errors"

	"github.com/arzan03/CourseHub/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store errors shared by every implementation
var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Store is the record store holding the users, admins and courses
// collections. Methods called with the context handed to a WithTransaction
// callback take part in that transaction.
type Store interface {
	InsertAdmin(ctx context.Context, admin *models.Admin) error
	FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	SetAdminUsername(ctx context.Context, id primitive.ObjectID, username string) error
	SetAdminImage(ctx context.Context, id primitive.ObjectID, link string) error
	LinkAdminCourse(ctx context.Context, adminID, courseID primitive.ObjectID) error
	UnlinkAdminCourse(ctx context.Context, adminID, courseID primitive.ObjectID) error

	InsertUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetUserUsername(ctx context.Context, id primitive.ObjectID, username string) error
	SetUserImage(ctx context.Context, id primitive.ObjectID, link string) error
	AddPurchasedCourse(ctx context.Context, userID, courseID primitive.ObjectID) error
	// AddToCart returns false when the course was already in the cart.
	AddToCart(ctx context.Context, userID, courseID primitive.ObjectID) (bool, error)
	RemoveFromCart(ctx context.Context, userID, courseID primitive.ObjectID) error
	RemoveFromAllCarts(ctx context.Context, courseID primitive.ObjectID) error

	InsertCourse(ctx context.Context, course *models.Course) error
	FindCourseByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error)
	FindCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	// FindCoursesByIDs resolves ids in order, skipping ids with no course.
	FindCoursesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Course, error)
	UpdateCourse(ctx context.Context, id primitive.ObjectID, update models.CourseUpdate) (*models.Course, error)
	DeleteCourse(ctx context.Context, id primitive.ObjectID) error
	AddCourseStudent(ctx context.Context, courseID, userID primitive.ObjectID) error

	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// orderByIDs returns courses in the order of ids, one entry per id that
// resolves.
func orderByIDs(ids []primitive.ObjectID, courses []models.Course) []models.Course {
	byID := make(map[primitive.ObjectID]models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	ordered := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

func emptyIfNil(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	return ids
}
