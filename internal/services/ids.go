package services

import (
	"errors"
	"fmt"

	"github.com/arzan03/CourseHub/internal/apperrors"
	"github.com/arzan03/CourseHub/internal/db"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func parseID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", apperrors.ErrInvalidID, id)
	}
	return objID, nil
}

// storeError turns db.ErrNotFound into notFound and wraps anything else.
func storeError(err error, notFound error, action string) error {
	if errors.Is(err, db.ErrNotFound) {
		return notFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
