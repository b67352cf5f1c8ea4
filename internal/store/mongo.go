package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the MongoDB-backed Store. A single client is shared by all
// requests.
type MongoStore struct {
	services *mongo.Collection
	bookings *mongo.Collection
	users    *mongo.Collection
	doctors  *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		services: db.Collection(ServicesCollection),
		bookings: db.Collection(BookingCollection),
		users:    db.Collection(UserCollection),
		doctors:  db.Collection(DoctorsCollection),
	}
}

// EnsureIndexes creates the unique indexes the store relies on. The booking
// index is what turns a concurrent second booking into ErrDuplicate.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	_, err := s.bookings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "treatment", Value: 1},
			{Key: "date", Value: 1},
			{Key: "patient", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("treatment_date_patient_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create booking index: %w", err)
	}

	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create user index: %w", err)
	}
	return nil
}

func (s *MongoStore) ListServices(ctx context.Context) ([]models.Service, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	services := make([]models.Service, 0)
	if err := findAll(ctx, s.services, bson.M{}, &services); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (s *MongoStore) ListServiceNames(ctx context.Context) ([]models.ServiceName, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	names := make([]models.ServiceName, 0)
	opts := options.Find().SetProjection(bson.M{"name": 1})
	if err := findAll(ctx, s.services, bson.M{}, &names, opts); err != nil {
		return nil, fmt.Errorf("failed to list service names: %w", err)
	}
	return names, nil
}

func (s *MongoStore) InsertBooking(ctx context.Context, b *models.Booking) (InsertResult, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if _, err := s.bookings.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return InsertResult{}, ErrDuplicate
		}
		return InsertResult{}, fmt.Errorf("failed to insert booking: %w", err)
	}
	return InsertResult{Acknowledged: true, InsertedID: b.ID}, nil
}

func (s *MongoStore) FindBooking(ctx context.Context, treatment, date, patient string) (*models.Booking, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{"treatment": treatment, "date": date, "patient": patient}
	var b models.Booking
	if err := s.bookings.FindOne(ctx, filter).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &b, nil
}

func (s *MongoStore) ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	bookings := make([]models.Booking, 0)
	if err := findAll(ctx, s.bookings, bson.M{"date": date}, &bookings); err != nil {
		return nil, fmt.Errorf("failed to list bookings for date %q: %w", date, err)
	}
	return bookings, nil
}

func (s *MongoStore) ListBookingsByPatient(ctx context.Context, patient string) ([]models.Booking, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	bookings := make([]models.Booking, 0)
	if err := findAll(ctx, s.bookings, bson.M{"patient": patient}, &bookings); err != nil {
		return nil, fmt.Errorf("failed to list bookings for patient: %w", err)
	}
	return bookings, nil
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	users := make([]models.User, 0)
	if err := findAll(ctx, s.users, bson.M{}, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

func (s *MongoStore) UpsertUser(ctx context.Context, email string, profile models.UserProfile) (UpsertResult, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	set := bson.M{"email": email}
	// Only add fields to the update if they were provided in the request
	if profile.Name != "" {
		set["name"] = profile.Name
	}
	if profile.Phone != "" {
		set["phone"] = profile.Phone
	}

	opts := options.Update().SetUpsert(true)
	res, err := s.users.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set}, opts)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("failed to upsert user: %w", err)
	}
	return fromUpdateResult(res), nil
}

func (s *MongoStore) SetRole(ctx context.Context, email, role string) (UpsertResult, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	res, err := s.users.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return UpsertResult{}, fmt.Errorf("failed to set role: %w", err)
	}
	return fromUpdateResult(res), nil
}

func (s *MongoStore) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	doctors := make([]models.Doctor, 0)
	if err := findAll(ctx, s.doctors, bson.M{}, &doctors); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (s *MongoStore) InsertDoctor(ctx context.Context, d *models.Doctor) (InsertResult, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	if _, err := s.doctors.InsertOne(ctx, d); err != nil {
		return InsertResult{}, fmt.Errorf("failed to insert doctor: %w", err)
	}
	return InsertResult{Acknowledged: true, InsertedID: d.ID}, nil
}

func (s *MongoStore) DeleteDoctorByEmail(ctx context.Context, email string) (DeleteResult, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	res, err := s.doctors.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to delete doctor: %w", err)
	}
	return DeleteResult{DeletedCount: res.DeletedCount}, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}, opts ...*options.FindOptions) error {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func fromUpdateResult(res *mongo.UpdateResult) UpsertResult {
	return UpsertResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}
}
