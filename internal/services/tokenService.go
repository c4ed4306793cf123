package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/arzan03/CourseHub/internal/apperrors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleAdmin is the role claim carried by admin tokens
const RoleAdmin = "admin"

// Claims is the token payload. Role is empty for user tokens.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenConfig configures a TokenIssuer
type TokenConfig struct {
	Secret        string
	Issuer        string
	AdminTokenTTL time.Duration
	// Zero means user tokens carry no exp claim.
	UserTokenTTL time.Duration
}

// TokenIssuer signs and verifies HS256 bearer tokens
type TokenIssuer struct {
	config TokenConfig
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer
func NewTokenIssuer(config TokenConfig) *TokenIssuer {
	return &TokenIssuer{config: config, now: time.Now}
}

// IssueAdminToken signs an admin token with role and expiry
func (t *TokenIssuer) IssueAdminToken(email string) (string, error) {
	return t.Issue(email, RoleAdmin, t.config.AdminTokenTTL)
}

// IssueUserToken signs a user token without a role
func (t *TokenIssuer) IssueUserToken(email string) (string, error) {
	return t.Issue(email, "", t.config.UserTokenTTL)
}

// Issue signs claims for email and role; ttl <= 0 omits the expiry.
func (t *TokenIssuer) Issue(email, role string, ttl time.Duration) (string, error) {
	if email == "" {
		return "", fmt.Errorf("token subject email is empty")
	}

	now := t.now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   t.config.Issuer,
			ID:       uuid.New().String(),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(t.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the claims
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(t.config.Secret), nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}
