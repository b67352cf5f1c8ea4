package store

import (
	"context"
	"errors"
	"time"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names used by the portal.
const (
	ServicesCollection = "services"
	BookingCollection  = "booking"
	UserCollection     = "user"
	DoctorsCollection  = "doctors"
)

const opTimeout = 5 * time.Second

var (
	// ErrNotFound is returned when a single-document lookup matches nothing.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate document")
)

// UpsertResult mirrors the fields of a MongoDB update result that callers see.
type UpsertResult struct {
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId,omitempty"`
}

type InsertResult struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

type ServiceStore interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	ListServiceNames(ctx context.Context) ([]models.ServiceName, error)
}

type BookingStore interface {
	// InsertBooking returns ErrDuplicate when a booking for the same
	// treatment, date and patient already exists.
	InsertBooking(ctx context.Context, b *models.Booking) (InsertResult, error)
	FindBooking(ctx context.Context, treatment, date, patient string) (*models.Booking, error)
	ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error)
	ListBookingsByPatient(ctx context.Context, patient string) ([]models.Booking, error)
}

type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	// FindUserByEmail returns ErrNotFound when no user has the email.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertUser(ctx context.Context, email string, profile models.UserProfile) (UpsertResult, error)
	// SetRole never creates a user; a missing email yields a zero MatchedCount.
	SetRole(ctx context.Context, email, role string) (UpsertResult, error)
}

type DoctorStore interface {
	ListDoctors(ctx context.Context) ([]models.Doctor, error)
	InsertDoctor(ctx context.Context, d *models.Doctor) (InsertResult, error)
	DeleteDoctorByEmail(ctx context.Context, email string) (DeleteResult, error)
}

// Store groups every collection the portal touches.
type Store interface {
	ServiceStore
	BookingStore
	UserStore
	DoctorStore
}

func newContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, opTimeout)
}
