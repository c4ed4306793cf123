package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arzan03/CourseHub/internal/apperrors"
	"github.com/arzan03/CourseHub/internal/db"
	"github.com/arzan03/CourseHub/internal/models"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CourseInput holds the fields of a new course
type CourseInput struct {
	Title       string
	Description string
	Price       float64
	ImageLink   string
	IsPublished bool
}

// AdminService implements the admin profile and course management operations
type AdminService struct {
	store  db.Store
	images *ImageService
	logger zerolog.Logger
}

// NewAdminService creates an AdminService
func NewAdminService(store db.Store, images *ImageService, logger zerolog.Logger) *AdminService {
	return &AdminService{store: store, images: images, logger: logger}
}

// Profile returns the admin identified by email
func (s *AdminService) Profile(ctx context.Context, email string) (*models.Admin, error) {
	admin, err := s.store.FindAdminByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, apperrors.ErrAdminNotFound, "load admin")
	}
	return admin, nil
}

// UpdateProfile overwrites the admin's username
func (s *AdminService) UpdateProfile(ctx context.Context, email, username string) error {
	admin, err := s.Profile(ctx, email)
	if err != nil {
		return err
	}
	if err := s.store.SetAdminUsername(ctx, admin.ID, username); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return apperrors.AlreadyExists("Username already taken")
		}
		return storeError(err, apperrors.ErrAdminNotFound, "update admin")
	}
	return nil
}

// SetProfileImage uploads a new profile image and stores its link
func (s *AdminService) SetProfileImage(ctx context.Context, email string, upload Upload) (string, error) {
	admin, err := s.Profile(ctx, email)
	if err != nil {
		return "", err
	}
	return s.images.Store(ctx, "admins/"+admin.ID.Hex(), upload, func(link string) error {
		if err := s.store.SetAdminImage(ctx, admin.ID, link); err != nil {
			return storeError(err, apperrors.ErrAdminNotFound, "update admin image")
		}
		return nil
	})
}

// CreateCourse stores a course owned by the admin and links it to the
// admin's course list in one transaction.
func (s *AdminService) CreateCourse(ctx context.Context, email string, input CourseInput) (*models.Course, error) {
	admin, err := s.Profile(ctx, email)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		ImageLink:   input.ImageLink,
		IsPublished: input.IsPublished,
		Creator:     admin.ID,
		Students:    []primitive.ObjectID{},
		CreatedAt:   time.Now().UTC(),
	}

	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.InsertCourse(ctx, course); err != nil {
			return fmt.Errorf("failed to save course: %w", err)
		}
		if err := s.store.LinkAdminCourse(ctx, admin.ID, course.ID); err != nil {
			return fmt.Errorf("failed to link course to admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("admin_id", admin.ID.Hex()).Str("course_id", course.ID.Hex()).Msg("Course created")
	return course, nil
}

// ListCourses returns every course created by the admin
func (s *AdminService) ListCourses(ctx context.Context, email string) ([]models.Course, error) {
	admin, err := s.Profile(ctx, email)
	if err != nil {
		return nil, err
	}
	courses, err := s.store.FindCourses(ctx, models.CourseFilter{Creator: &admin.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// UpdateCourse applies update to a course the admin owns
func (s *AdminService) UpdateCourse(ctx context.Context, email, courseID string, update models.CourseUpdate) (*models.Course, error) {
	admin, course, err := s.ownedCourse(ctx, email, courseID)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateCourse(ctx, course.ID, update)
	if err != nil {
		return nil, storeError(err, apperrors.ErrCourseNotFound, "update course")
	}

	s.logger.Info().Str("admin_id", admin.ID.Hex()).Str("course_id", course.ID.Hex()).Msg("Course updated")
	return updated, nil
}

// DeleteCourse removes a course the admin owns, unlinks it from the admin and
// drops it from every cart.
func (s *AdminService) DeleteCourse(ctx context.Context, email, courseID string) error {
	admin, course, err := s.ownedCourse(ctx, email, courseID)
	if err != nil {
		return err
	}

	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.DeleteCourse(ctx, course.ID); err != nil {
			return storeError(err, apperrors.ErrCourseNotFound, "delete course")
		}
		if err := s.store.UnlinkAdminCourse(ctx, admin.ID, course.ID); err != nil {
			return storeError(err, apperrors.ErrAdminNotFound, "unlink course from admin")
		}
		if err := s.store.RemoveFromAllCarts(ctx, course.ID); err != nil {
			return fmt.Errorf("failed to remove course from carts: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("admin_id", admin.ID.Hex()).Str("course_id", course.ID.Hex()).Msg("Course deleted")
	return nil
}

// SetCourseImage uploads an image for a course the admin owns
func (s *AdminService) SetCourseImage(ctx context.Context, email, courseID string, upload Upload) (*models.Course, error) {
	_, course, err := s.ownedCourse(ctx, email, courseID)
	if err != nil {
		return nil, err
	}

	var updated *models.Course
	_, err = s.images.Store(ctx, "courses/"+course.ID.Hex(), upload, func(link string) error {
		c, err := s.store.UpdateCourse(ctx, course.ID, models.CourseUpdate{ImageLink: &link})
		if err != nil {
			return storeError(err, apperrors.ErrCourseNotFound, "update course image")
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *AdminService) ownedCourse(ctx context.Context, email, courseID string) (*models.Admin, *models.Course, error) {
	id, err := parseID(courseID)
	if err != nil {
		return nil, nil, err
	}

	admin, err := s.Profile(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	course, err := s.store.FindCourseByID(ctx, id)
	if err != nil {
		return nil, nil, storeError(err, apperrors.ErrCourseNotFound, "load course")
	}
	if course.Creator != admin.ID {
		return nil, nil, apperrors.Forbidden("You do not own this course")
	}
	return admin, course, nil
}
