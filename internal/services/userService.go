package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/arzan03/CourseHub/internal/apperrors"
	"github.com/arzan03/CourseHub/internal/db"
	"github.com/arzan03/CourseHub/internal/models"
	"github.com/rs/zerolog"
)

// UserService implements browsing, purchasing and the cart for users
type UserService struct {
	store  db.Store
	images *ImageService
	logger zerolog.Logger
}

// NewUserService creates a UserService
func NewUserService(store db.Store, images *ImageService, logger zerolog.Logger) *UserService {
	return &UserService{store: store, images: images, logger: logger}
}

func (s *UserService) user(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound, "load user")
	}
	return user, nil
}

func (s *UserService) course(ctx context.Context, courseID string) (*models.Course, error) {
	id, err := parseID(courseID)
	if err != nil {
		return nil, err
	}
	course, err := s.store.FindCourseByID(ctx, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrCourseNotFound, "load course")
	}
	return course, nil
}

// Profile returns the public profile; the password is never exposed.
func (s *UserService) Profile(ctx context.Context, email string) (models.Profile, error) {
	user, err := s.user(ctx, email)
	if err != nil {
		return models.Profile{}, err
	}
	return user.Profile(), nil
}

// UpdateProfile overwrites the user's username
func (s *UserService) UpdateProfile(ctx context.Context, email, username string) error {
	user, err := s.user(ctx, email)
	if err != nil {
		return err
	}
	if err := s.store.SetUserUsername(ctx, user.ID, username); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return apperrors.AlreadyExists("Username already taken")
		}
		return storeError(err, apperrors.ErrUserNotFound, "update user")
	}
	return nil
}

// SetProfileImage uploads a new profile image and stores its link
func (s *UserService) SetProfileImage(ctx context.Context, email string, upload Upload) (string, error) {
	user, err := s.user(ctx, email)
	if err != nil {
		return "", err
	}
	return s.images.Store(ctx, "users/"+user.ID.Hex(), upload, func(link string) error {
		if err := s.store.SetUserImage(ctx, user.ID, link); err != nil {
			return storeError(err, apperrors.ErrUserNotFound, "update user image")
		}
		return nil
	})
}

// BrowseCourses returns every course. A non-nil published narrows the list
// by the isPublished flag.
func (s *UserService) BrowseCourses(ctx context.Context, published *bool) ([]models.Course, error) {
	courses, err := s.store.FindCourses(ctx, models.CourseFilter{Published: published})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// GetCourse returns a single course
func (s *UserService) GetCourse(ctx context.Context, courseID string) (*models.Course, error) {
	return s.course(ctx, courseID)
}

// Purchase records the course as purchased and adds the user to the course's
// students. Repeated purchases keep a single entry. The cart is not touched.
func (s *UserService) Purchase(ctx context.Context, email, courseID string) error {
	user, err := s.user(ctx, email)
	if err != nil {
		return err
	}
	course, err := s.course(ctx, courseID)
	if err != nil {
		return err
	}
	if user.HasPurchased(course.ID) {
		return nil
	}

	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.AddPurchasedCourse(ctx, user.ID, course.ID); err != nil {
			return storeError(err, apperrors.ErrUserNotFound, "record purchase")
		}
		if err := s.store.AddCourseStudent(ctx, course.ID, user.ID); err != nil {
			return storeError(err, apperrors.ErrCourseNotFound, "enroll student")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.ID.Hex()).Str("course_id", course.ID.Hex()).Msg("Course purchased")
	return nil
}

// PurchasedCourses resolves the user's purchased course ids in order
func (s *UserService) PurchasedCourses(ctx context.Context, email string) ([]models.Course, error) {
	user, err := s.user(ctx, email)
	if err != nil {
		return nil, err
	}
	courses, err := s.store.FindCoursesByIDs(ctx, user.PurchasedCourses)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve purchased courses: %w", err)
	}
	return courses, nil
}

// AddToCart appends the course to the cart, failing if it is already there
func (s *UserService) AddToCart(ctx context.Context, email, courseID string) error {
	user, err := s.user(ctx, email)
	if err != nil {
		return err
	}
	course, err := s.course(ctx, courseID)
	if err != nil {
		return err
	}

	added, err := s.store.AddToCart(ctx, user.ID, course.ID)
	if err != nil {
		return storeError(err, apperrors.ErrUserNotFound, "update cart")
	}
	if !added {
		return apperrors.ErrAlreadyInCart
	}
	return nil
}

// RemoveFromCart drops the course from the cart. Ids that are not in the
// cart, including malformed ones, are a no-op.
func (s *UserService) RemoveFromCart(ctx context.Context, email, courseID string) error {
	user, err := s.user(ctx, email)
	if err != nil {
		return err
	}
	id, err := parseID(courseID)
	if err != nil {
		return nil
	}
	if err := s.store.RemoveFromCart(ctx, user.ID, id); err != nil {
		return storeError(err, apperrors.ErrUserNotFound, "update cart")
	}
	return nil
}

// Cart resolves the user's cart in order
func (s *UserService) Cart(ctx context.Context, email string) ([]models.Course, error) {
	user, err := s.user(ctx, email)
	if err != nil {
		return nil, err
	}
	courses, err := s.store.FindCoursesByIDs(ctx, user.Cart)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart: %w", err)
	}
	return courses, nil
}
