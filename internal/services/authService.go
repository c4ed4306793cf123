package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arzan03/CourseHub/internal/apperrors"
	"github.com/arzan03/CourseHub/internal/db"
	"github.com/arzan03/CourseHub/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles signup and login for both actor types
type AuthService struct {
	store      db.Store
	tokens     *TokenIssuer
	bcryptCost int
	logger     zerolog.Logger
}

// NewAuthService creates an AuthService. A bcryptCost of zero uses bcrypt.DefaultCost.
func NewAuthService(store db.Store, tokens *TokenIssuer, bcryptCost int, logger zerolog.Logger) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{store: store, tokens: tokens, bcryptCost: bcryptCost, logger: logger}
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NormalizeEmail trims and lowercases an email so lookups are consistent
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignupAdmin stores a new admin and returns an admin token
func (s *AuthService) SignupAdmin(ctx context.Context, username, email, password string) (string, error) {
	email = NormalizeEmail(email)

	_, err := s.store.FindAdminByEmail(ctx, email)
	if err == nil {
		return "", apperrors.AlreadyExists("Admin already exists")
	}
	if !errors.Is(err, db.ErrNotFound) {
		return "", fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		Username:  username,
		Email:     email,
		Password:  hash,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.InsertAdmin(ctx, admin); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return "", apperrors.AlreadyExists("Admin already exists")
		}
		return "", fmt.Errorf("failed to save admin: %w", err)
	}

	s.logger.Info().Str("admin_id", admin.ID.Hex()).Msg("Admin signed up")
	return s.tokens.IssueAdminToken(email)
}

// LoginAdmin checks admin credentials and returns an admin token
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)

	admin, err := s.store.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", apperrors.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up admin: %w", err)
	}

	if !VerifyPassword(password, admin.Password) {
		return "", apperrors.ErrInvalidCredentials
	}

	return s.tokens.IssueAdminToken(admin.Email)
}

// SignupUser stores a new user and returns a user token
func (s *AuthService) SignupUser(ctx context.Context, username, email, password string) (string, error) {
	email = NormalizeEmail(email)

	_, err := s.store.FindUserByEmail(ctx, email)
	if err == nil {
		return "", apperrors.AlreadyExists("User already exists")
	}
	if !errors.Is(err, db.ErrNotFound) {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  hash,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.InsertUser(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return "", apperrors.AlreadyExists("User already exists")
		}
		return "", fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.Hex()).Msg("User signed up")
	return s.tokens.IssueUserToken(email)
}

// LoginUser checks user credentials and returns a user token
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", apperrors.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !VerifyPassword(password, user.Password) {
		return "", apperrors.ErrInvalidCredentials
	}

	return s.tokens.IssueUserToken(user.Email)
}
