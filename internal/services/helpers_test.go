package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/arzan03/CourseHub/internal/db"
	"github.com/arzan03/CourseHub/internal/logger"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeImages struct {
	objects map[string][]byte
}

func (f *fakeImages) Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.objects[objectName] = data
	return "http://images.test/" + objectName, nil
}

func (f *fakeImages) Remove(ctx context.Context, objectName string) error {
	delete(f.objects, objectName)
	return nil
}

type testEnv struct {
	store  *db.MemoryStore
	tokens *TokenIssuer
	auth   *AuthService
	admins *AdminService
	users  *UserService
	images *fakeImages
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := db.NewMemoryStore()
	tokens := NewTokenIssuer(TokenConfig{Secret: "test-secret", Issuer: "test", AdminTokenTTL: 24 * time.Hour})
	images := &fakeImages{objects: map[string][]byte{}}
	imageService := NewImageService(images)
	lgr := logger.Nop()

	return &testEnv{
		store:  store,
		tokens: tokens,
		auth:   NewAuthService(store, tokens, bcrypt.MinCost, lgr),
		admins: NewAdminService(store, imageService, lgr),
		users:  NewUserService(store, imageService, lgr),
		images: images,
	}
}

func (e *testEnv) signupAdmin(t *testing.T, username, email string) {
	t.Helper()
	_, err := e.auth.SignupAdmin(context.Background(), username, email, "password")
	require.NoError(t, err)
}

func (e *testEnv) signupUser(t *testing.T, username, email string) {
	t.Helper()
	_, err := e.auth.SignupUser(context.Background(), username, email, "password")
	require.NoError(t, err)
}
