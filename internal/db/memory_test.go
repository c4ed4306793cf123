package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arzan03/CourseHub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryStoreUniqueEmail(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.InsertUser(ctx, &models.User{Username: "a", Email: "a@x.com"}))
	err := s.InsertUser(ctx, &models.User{Username: "b", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	// Admins live in their own collection.
	assert.NoError(t, s.InsertAdmin(ctx, &models.Admin{Username: "a", Email: "a@x.com"}))
}

func TestMemoryStoreCart(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	user := &models.User{Username: "u", Email: "u@x.com"}
	require.NoError(t, s.InsertUser(ctx, user))
	courseID := primitive.NewObjectID()

	added, err := s.AddToCart(ctx, user.ID, courseID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddToCart(ctx, user.ID, courseID)
	require.NoError(t, err)
	assert.False(t, added)

	require.NoError(t, s.RemoveFromCart(ctx, user.ID, primitive.NewObjectID()))
	got, err := s.FindUserByEmail(ctx, "u@x.com")
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{courseID}, got.Cart)

	_, err = s.AddToCart(ctx, primitive.NewObjectID(), courseID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreFindCoursesByIDsKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := &models.Course{Title: "first", CreatedAt: time.Now()}
	second := &models.Course{Title: "second", CreatedAt: time.Now().Add(time.Second)}
	require.NoError(t, s.InsertCourse(ctx, first))
	require.NoError(t, s.InsertCourse(ctx, second))

	courses, err := s.FindCoursesByIDs(ctx, []primitive.ObjectID{second.ID, primitive.NewObjectID(), first.ID})
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "second", courses[0].Title)
	assert.Equal(t, "first", courses[1].Title)

	all, err := s.FindCourses(ctx, models.CourseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "first", all[0].Title)
}

func TestMemoryStoreTransactionRollback(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	admin := &models.Admin{Username: "a", Email: "a@x.com"}
	require.NoError(t, s.InsertAdmin(ctx, admin))

	boom := errors.New("boom")
	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		course := &models.Course{Title: "t", Creator: admin.ID}
		if err := s.InsertCourse(ctx, course); err != nil {
			return err
		}
		if err := s.LinkAdminCourse(ctx, admin.ID, course.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	courses, err := s.FindCourses(ctx, models.CourseFilter{})
	require.NoError(t, err)
	assert.Empty(t, courses)

	got, err := s.FindAdminByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, got.Courses)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	user := &models.User{Username: "u", Email: "u@x.com"}
	require.NoError(t, s.InsertUser(ctx, user))

	got, err := s.FindUserByEmail(ctx, "u@x.com")
	require.NoError(t, err)
	got.Cart = append(got.Cart, primitive.NewObjectID())

	again, err := s.FindUserByEmail(ctx, "u@x.com")
	require.NoError(t, err)
	assert.Empty(t, again.Cart)
}

func TestMemoryStoreRollbackKeepsOutsideWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	admin := &models.Admin{Username: "a", Email: "a@x.com"}
	require.NoError(t, s.InsertAdmin(ctx, admin))
	bob := &models.User{Username: "bob", Email: "bob@x.com"}
	require.NoError(t, s.InsertUser(ctx, bob))
	courseID := primitive.NewObjectID()

	started := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- s.WithTransaction(ctx, func(ctx context.Context) error {
			if err := s.LinkAdminCourse(ctx, admin.ID, courseID); err != nil {
				return err
			}
			close(started)
			<-release
			return errors.New("boom")
		})
	}()
	<-started

	cartDone := make(chan error, 1)
	go func() {
		_, err := s.AddToCart(ctx, bob.ID, courseID)
		cartDone <- err
	}()

	select {
	case <-cartDone:
		t.Fatal("write outside the transaction finished before it ended")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.Error(t, <-txDone)
	require.NoError(t, <-cartDone)

	got, err := s.FindUserByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{courseID}, got.Cart)

	gotAdmin, err := s.FindAdminByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, gotAdmin.Courses)
}
