package services

import (
	"strings"
	"testing"
	"time"

	"github.com/arzan03/CourseHub/internal/apperrors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminTokenCarriesRoleAndExpiry(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: "s", AdminTokenTTL: 24 * time.Hour})

	token, err := issuer.IssueAdminToken("a@x.com")
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
	assert.NotEmpty(t, claims.ID)
}

func TestUserTokenHasNoRoleOrExpiry(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: "s", AdminTokenTTL: time.Hour})

	token, err := issuer.IssueUserToken("u@x.com")
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Empty(t, claims.Role)
	assert.Nil(t, claims.ExpiresAt)
}

func TestVerifyRejectsTamperedAndForeignTokens(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: "s", AdminTokenTTL: time.Hour})
	other := NewTokenIssuer(TokenConfig{Secret: "other", AdminTokenTTL: time.Hour})

	token, err := issuer.IssueAdminToken("a@x.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = issuer.Verify(tampered)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	foreign, err := other.IssueAdminToken("a@x.com")
	require.NoError(t, err)
	_, err = issuer.Verify(foreign)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: "s", AdminTokenTTL: time.Hour})
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := issuer.IssueAdminToken("a@x.com")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: "s"})

	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Email: "a@x.com", Role: RoleAdmin})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Verify(signed)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}
