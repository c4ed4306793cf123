package services

import (
	"context"
	"testing"

	"github.com/arzan03/CourseHub/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAdminRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, err := env.auth.SignupAdmin(ctx, "a", "a@x.com", "p")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	token, err = env.auth.SignupAdmin(ctx, "b", "A@x.com", "p")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Empty(t, token)
}

func TestSignupAdminRejectsDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.SignupAdmin(ctx, "a", "a@x.com", "p")
	require.NoError(t, err)

	_, err = env.auth.SignupAdmin(ctx, "a", "other@x.com", "p")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestSignupStoresHashedPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.signupUser(t, "u", "u@x.com")

	user, err := env.store.FindUserByEmail(ctx, "u@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password", user.Password)
	assert.True(t, VerifyPassword("password", user.Password))
}

func TestUserAndAdminMayShareEmail(t *testing.T) {
	env := newTestEnv(t)

	env.signupAdmin(t, "a", "same@x.com")
	env.signupUser(t, "u", "same@x.com")
}

func TestLoginAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.signupAdmin(t, "a", "a@x.com")

	token, err := env.auth.LoginAdmin(ctx, "a@x.com", "password")
	require.NoError(t, err)

	claims, err := env.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.NotNil(t, claims.ExpiresAt)

	_, err = env.auth.LoginAdmin(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = env.auth.LoginAdmin(ctx, "nobody@x.com", "password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.signupUser(t, "u", "u@x.com")

	token, err := env.auth.LoginUser(ctx, "u@x.com", "password")
	require.NoError(t, err)

	claims, err := env.tokens.Verify(token)
	require.NoError(t, err)
	assert.Empty(t, claims.Role)
	assert.Nil(t, claims.ExpiresAt)

	// Admin credentials do not work against the user collection.
	env.signupAdmin(t, "a", "a@x.com")
	_, err = env.auth.LoginUser(ctx, "a@x.com", "password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
