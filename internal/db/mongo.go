package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arzan03/CourseHub/internal/models"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	UsersCollection   = "users"
	AdminsCollection  = "admins"
	CoursesCollection = "courses"
)

// MongoStore implements Store on top of a MongoDB database
type MongoStore struct {
	client       *mongo.Client
	users        *mongo.Collection
	admins       *mongo.Collection
	courses      *mongo.Collection
	transactions bool
	logger       zerolog.Logger
}

// MongoOptions configures ConnectMongoDB
type MongoOptions struct {
	URI      string
	Database string
	// Transactions enables multi-document transactions (replica set only).
	Transactions bool
	Logger       zerolog.Logger
}

// ConnectMongoDB opens the connection, pings it and ensures indexes
func ConnectMongoDB(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb connection failed: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	database := client.Database(opts.Database)
	s := &MongoStore{
		client:       client,
		users:        database.Collection(UsersCollection),
		admins:       database.Collection(AdminsCollection),
		courses:      database.Collection(CoursesCollection),
		transactions: opts.Transactions,
		logger:       opts.Logger,
	}

	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	s.logger.Info().Str("database", opts.Database).Bool("transactions", opts.Transactions).Msg("Connected to MongoDB")
	return s, nil
}

// EnsureIndexes creates the unique email/username indexes and the creator
// index used by admin course listings.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	unique := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := s.users.Indexes().CreateMany(ctx, unique); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	if _, err := s.admins.Indexes().CreateMany(ctx, unique); err != nil {
		return fmt.Errorf("failed to create admin indexes: %w", err)
	}
	_, err := s.courses.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "creator", Value: 1}}})
	if err != nil {
		return fmt.Errorf("failed to create course indexes: %w", err)
	}
	return nil
}

// WithTransaction runs fn inside a session transaction when transactions are
// enabled, otherwise it simply calls fn.
func (s *MongoStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.transactions {
		return fn(ctx)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) InsertAdmin(ctx context.Context, admin *models.Admin) error {
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	admin.Courses = emptyIfNil(admin.Courses)
	_, err := s.admins.InsertOne(ctx, admin)
	return mapWriteError(err)
}

func (s *MongoStore) FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.admins.FindOne(ctx, bson.M{"email": email}).Decode(&admin); err != nil {
		return nil, mapReadError(err)
	}
	return &admin, nil
}

func (s *MongoStore) SetAdminUsername(ctx context.Context, id primitive.ObjectID, username string) error {
	return s.updateOne(ctx, s.admins, id, bson.M{"$set": bson.M{"username": username}})
}

func (s *MongoStore) SetAdminImage(ctx context.Context, id primitive.ObjectID, link string) error {
	return s.updateOne(ctx, s.admins, id, bson.M{"$set": bson.M{"imageLink": link}})
}

func (s *MongoStore) LinkAdminCourse(ctx context.Context, adminID, courseID primitive.ObjectID) error {
	return s.updateOne(ctx, s.admins, adminID, bson.M{"$addToSet": bson.M{"courses": courseID}})
}

func (s *MongoStore) UnlinkAdminCourse(ctx context.Context, adminID, courseID primitive.ObjectID) error {
	return s.updateOne(ctx, s.admins, adminID, bson.M{"$pull": bson.M{"courses": courseID}})
}

func (s *MongoStore) InsertUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Cart = emptyIfNil(user.Cart)
	user.PurchasedCourses = emptyIfNil(user.PurchasedCourses)
	_, err := s.users.InsertOne(ctx, user)
	return mapWriteError(err)
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, mapReadError(err)
	}
	return &user, nil
}

func (s *MongoStore) SetUserUsername(ctx context.Context, id primitive.ObjectID, username string) error {
	return s.updateOne(ctx, s.users, id, bson.M{"$set": bson.M{"username": username}})
}

func (s *MongoStore) SetUserImage(ctx context.Context, id primitive.ObjectID, link string) error {
	return s.updateOne(ctx, s.users, id, bson.M{"$set": bson.M{"imageLink": link}})
}

func (s *MongoStore) AddPurchasedCourse(ctx context.Context, userID, courseID primitive.ObjectID) error {
	return s.updateOne(ctx, s.users, userID, bson.M{"$addToSet": bson.M{"purchasedCourses": courseID}})
}

func (s *MongoStore) AddToCart(ctx context.Context, userID, courseID primitive.ObjectID) (bool, error) {
	// The $ne guard makes the check and the push a single atomic update.
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID, "cart": bson.M{"$ne": courseID}},
		bson.M{"$push": bson.M{"cart": courseID}},
	)
	if err != nil {
		return false, mapWriteError(err)
	}
	if res.MatchedCount == 1 {
		return true, nil
	}

	count, err := s.users.CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, ErrNotFound
	}
	return false, nil
}

func (s *MongoStore) RemoveFromCart(ctx context.Context, userID, courseID primitive.ObjectID) error {
	return s.updateOne(ctx, s.users, userID, bson.M{"$pull": bson.M{"cart": courseID}})
}

func (s *MongoStore) RemoveFromAllCarts(ctx context.Context, courseID primitive.ObjectID) error {
	_, err := s.users.UpdateMany(ctx,
		bson.M{"cart": courseID},
		bson.M{"$pull": bson.M{"cart": courseID}},
	)
	return mapWriteError(err)
}

func (s *MongoStore) InsertCourse(ctx context.Context, course *models.Course) error {
	if course.ID.IsZero() {
		course.ID = primitive.NewObjectID()
	}
	course.Students = emptyIfNil(course.Students)
	_, err := s.courses.InsertOne(ctx, course)
	return mapWriteError(err)
}

func (s *MongoStore) FindCourseByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	var course models.Course
	if err := s.courses.FindOne(ctx, bson.M{"_id": id}).Decode(&course); err != nil {
		return nil, mapReadError(err)
	}
	return &course, nil
}

func (s *MongoStore) FindCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	query := bson.M{}
	if filter.Creator != nil {
		query["creator"] = *filter.Creator
	}
	if filter.Published != nil {
		query["isPublished"] = *filter.Published
	}
	return s.findCourses(ctx, query)
}

func (s *MongoStore) FindCoursesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Course, error) {
	if len(ids) == 0 {
		return []models.Course{}, nil
	}
	courses, err := s.findCourses(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return orderByIDs(ids, courses), nil
}

func (s *MongoStore) findCourses(ctx context.Context, query bson.M) ([]models.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.courses.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	courses := []models.Course{}
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *MongoStore) UpdateCourse(ctx context.Context, id primitive.ObjectID, update models.CourseUpdate) (*models.Course, error) {
	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.ImageLink != nil {
		set["imageLink"] = *update.ImageLink
	}
	if update.IsPublished != nil {
		set["isPublished"] = *update.IsPublished
	}
	if len(set) == 0 {
		return s.FindCourseByID(ctx, id)
	}

	var course models.Course
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.courses.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&course)
	if err != nil {
		return nil, mapReadError(err)
	}
	return &course, nil
}

func (s *MongoStore) DeleteCourse(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.courses.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) AddCourseStudent(ctx context.Context, courseID, userID primitive.ObjectID) error {
	return s.updateOne(ctx, s.courses, courseID, bson.M{"$addToSet": bson.M{"students": userID}})
}

func (s *MongoStore) updateOne(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, update bson.M) error {
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return mapWriteError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func mapReadError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
