package db

import (
	"context"
	"sort"
	"sync"

	"github.com/arzan03/CourseHub/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process Store used for local development and tests.
// Transactions are serialized against every other write and roll back to a
// snapshot on error.
type MemoryStore struct {
	txMu sync.Mutex

	mu      sync.RWMutex
	users   map[primitive.ObjectID]*models.User
	admins  map[primitive.ObjectID]*models.Admin
	courses map[primitive.ObjectID]*models.Course
}

// NewMemoryStore returns an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[primitive.ObjectID]*models.User),
		admins:  make(map[primitive.ObjectID]*models.Admin),
		courses: make(map[primitive.ObjectID]*models.Course),
	}
}

type memorySnapshot struct {
	users   map[primitive.ObjectID]*models.User
	admins  map[primitive.ObjectID]*models.Admin
	courses map[primitive.ObjectID]*models.Course
}

func (s *MemoryStore) snapshot() memorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := memorySnapshot{
		users:   make(map[primitive.ObjectID]*models.User, len(s.users)),
		admins:  make(map[primitive.ObjectID]*models.Admin, len(s.admins)),
		courses: make(map[primitive.ObjectID]*models.Course, len(s.courses)),
	}
	for id, u := range s.users {
		snap.users[id] = copyUser(u)
	}
	for id, a := range s.admins {
		snap.admins[id] = copyAdmin(a)
	}
	for id, c := range s.courses {
		snap.courses[id] = copyCourse(c)
	}
	return snap
}

func (s *MemoryStore) restore(snap memorySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.admins = snap.admins
	s.courses = snap.courses
}

type memoryTxKey struct{}

// lockWrites holds txMu for a write made outside a transaction, so a
// rollback can never discard it. Writes inside the transaction already
// hold the lock.
func (s *MemoryStore) lockWrites(ctx context.Context) func() {
	if ctx.Value(memoryTxKey{}) == s {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

func (s *MemoryStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, memoryTxKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) InsertAdmin(ctx context.Context, admin *models.Admin) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer s.lockWrites(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.admins {
		if a.Email == admin.Email || a.Username == admin.Username {
			return ErrDuplicate
		}
	}
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	admin.Courses = emptyIfNil(admin.Courses)
	s.admins[admin.ID] = copyAdmin(admin)
	return nil
}

func (s *MemoryStore) FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.admins {
		if a.Email == email {
			return copyAdmin(a), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) SetAdminUsername(ctx context.Context, id primitive.ObjectID, username string) error {
	return s.mutateAdmin(ctx, id, func(a *models.Admin) error {
		for otherID, other := range s.admins {
			if otherID != id && other.Username == username {
				return ErrDuplicate
			}
		}
		a.Username = username
		return nil
	})
}

func (s *MemoryStore) SetAdminImage(ctx context.Context, id primitive.ObjectID, link string) error {
	return s.mutateAdmin(ctx, id, func(a *models.Admin) error {
		a.ImageLink = link
		return nil
	})
}

func (s *MemoryStore) LinkAdminCourse(ctx context.Context, adminID, courseID primitive.ObjectID) error {
	return s.mutateAdmin(ctx, adminID, func(a *models.Admin) error {
		a.Courses = addToSet(a.Courses, courseID)
		return nil
	})
}

func (s *MemoryStore) UnlinkAdminCourse(ctx context.Context, adminID, courseID primitive.ObjectID) error {
	return s.mutateAdmin(ctx, adminID, func(a *models.Admin) error {
		a.Courses = pull(a.Courses, courseID)
		return nil
	})
}

func (s *MemoryStore) mutateAdmin(ctx context.Context, id primitive.ObjectID, fn func(a *models.Admin) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer s.lockWrites(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.admins[id]
	if !ok {
		return ErrNotFound
	}
	return fn(a)
}

func (s *MemoryStore) InsertUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer s.lockWrites(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Cart = emptyIfNil(user.Cart)
	user.PurchasedCourses = emptyIfNil(user.PurchasedCourses)
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) SetUserUsername(ctx context.Context, id primitive.ObjectID, username string) error {
	return s.mutateUser(ctx, id, func(u *models.User) error {
		for otherID, other := range s.users {
			if otherID != id && other.Username == username {
				return ErrDuplicate
			}
		}
		u.Username = username
		return nil
	})
}

func (s *MemoryStore) SetUserImage(ctx context.Context, id primitive.ObjectID, link string) error {
	return s.mutateUser(ctx, id, func(u *models.User) error {
		u.ImageLink = link
		return nil
	})
}

func (s *MemoryStore) AddPurchasedCourse(ctx context.Context, userID, courseID primitive.ObjectID) error {
	return s.mutateUser(ctx, userID, func(u *models.User) error {
		u.PurchasedCourses = addToSet(u.PurchasedCourses, courseID)
		return nil
	})
}

func (s *MemoryStore) AddToCart(ctx context.Context, userID, courseID primitive.ObjectID) (bool, error) {
	added := false
	err := s.mutateUser(ctx, userID, func(u *models.User) error {
		if u.InCart(courseID) {
			return nil
		}
		u.Cart = append(u.Cart, courseID)
		added = true
		return nil
	})
	return added, err
}

func (s *MemoryStore) RemoveFromCart(ctx context.Context, userID, courseID primitive.ObjectID) error {
	return s.mutateUser(ctx, userID, func(u *models.User) error {
		u.Cart = pull(u.Cart, courseID)
		return nil
	})
}

func (s *MemoryStore) RemoveFromAllCarts(ctx context.Context, courseID primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer s.lockWrites(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		u.Cart = pull(u.Cart, courseID)
	}
	return nil
}

func (s *MemoryStore) mutateUser(ctx context.Context, id primitive.ObjectID, fn func(u *models.User) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer s.lockWrites(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	return fn(u)
}

func (s *MemoryStore) InsertCourse(ctx context.Context, course *models.Course) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer s.lockWrites(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	if course.ID.IsZero() {
		course.ID = primitive.NewObjectID()
	}
	if _, exists := s.courses[course.ID]; exists {
		return ErrDuplicate
	}
	course.Students = emptyIfNil(course.Students)
	s.courses[course.ID] = copyCourse(course)
	return nil
}

func (s *MemoryStore) FindCourseByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyCourse(c), nil
}

func (s *MemoryStore) FindCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := []models.Course{}
	for _, c := range s.courses {
		if filter.Matches(c) {
			courses = append(courses, *copyCourse(c))
		}
	}
	sortCourses(courses)
	return courses, nil
}

func (s *MemoryStore) FindCoursesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.courses[id]; ok {
			courses = append(courses, *copyCourse(c))
		}
	}
	return courses, nil
}

func (s *MemoryStore) UpdateCourse(ctx context.Context, id primitive.ObjectID, update models.CourseUpdate) (*models.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer s.lockWrites(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, ErrNotFound
	}
	update.Apply(c)
	return copyCourse(c), nil
}

func (s *MemoryStore) DeleteCourse(ctx context.Context, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer s.lockWrites(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return ErrNotFound
	}
	delete(s.courses, id)
	return nil
}

func (s *MemoryStore) AddCourseStudent(ctx context.Context, courseID, userID primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer s.lockWrites(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[courseID]
	if !ok {
		return ErrNotFound
	}
	c.Students = addToSet(c.Students, userID)
	return nil
}

func sortCourses(courses []models.Course) {
	sort.SliceStable(courses, func(i, j int) bool {
		if courses[i].CreatedAt.Equal(courses[j].CreatedAt) {
			return courses[i].ID.Hex() < courses[j].ID.Hex()
		}
		return courses[i].CreatedAt.Before(courses[j].CreatedAt)
	})
}

func addToSet(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

func pull(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func copyIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.Cart = copyIDs(u.Cart)
	c.PurchasedCourses = copyIDs(u.PurchasedCourses)
	return &c
}

func copyAdmin(a *models.Admin) *models.Admin {
	c := *a
	c.Courses = copyIDs(a.Courses)
	return &c
}

func copyCourse(course *models.Course) *models.Course {
	c := *course
	c.Students = copyIDs(course.Students)
	return &c
}
