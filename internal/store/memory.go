package store

import (
	"context"
	"sync"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type bookingKey struct {
	treatment, date, patient string
}

// MemoryStore keeps every collection in process. It honours the same
// uniqueness rules as MongoStore and backs local runs and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	services []models.Service
	bookings []models.Booking
	booked   map[bookingKey]int
	users    []models.User
	doctors  []models.Doctor
}

func NewMemoryStore(services ...models.Service) *MemoryStore {
	s := &MemoryStore{booked: make(map[bookingKey]int)}
	for _, svc := range services {
		if svc.ID.IsZero() {
			svc.ID = primitive.NewObjectID()
		}
		svc.Slots = append([]string(nil), svc.Slots...)
		s.services = append(s.services, svc)
	}
	return s
}

func (s *MemoryStore) ListServices(ctx context.Context) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Service, 0, len(s.services))
	for _, svc := range s.services {
		svc.Slots = append([]string(nil), svc.Slots...)
		out = append(out, svc)
	}
	return out, nil
}

func (s *MemoryStore) ListServiceNames(ctx context.Context) ([]models.ServiceName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ServiceName, 0, len(s.services))
	for _, svc := range s.services {
		out = append(out, models.ServiceName{ID: svc.ID, Name: svc.Name})
	}
	return out, nil
}

func (s *MemoryStore) InsertBooking(ctx context.Context, b *models.Booking) (InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := bookingKey{b.Treatment, b.Date, b.Patient}
	if _, exists := s.booked[key]; exists {
		return InsertResult{}, ErrDuplicate
	}
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	s.booked[key] = len(s.bookings)
	s.bookings = append(s.bookings, *b)
	return InsertResult{Acknowledged: true, InsertedID: b.ID}, nil
}

func (s *MemoryStore) FindBooking(ctx context.Context, treatment, date, patient string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.booked[bookingKey{treatment, date, patient}]
	if !ok {
		return nil, ErrNotFound
	}
	b := s.bookings[idx]
	return &b, nil
}

func (s *MemoryStore) ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error) {
	return s.filterBookings(func(b models.Booking) bool { return b.Date == date }), nil
}

func (s *MemoryStore) ListBookingsByPatient(ctx context.Context, patient string) ([]models.Booking, error) {
	return s.filterBookings(func(b models.Booking) bool { return b.Patient == patient }), nil
}

func (s *MemoryStore) filterBookings(keep func(models.Booking) bool) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Booking, 0)
	for _, b := range s.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]models.User, 0, len(s.users)), s.users...), nil
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.userIndex(email); i >= 0 {
		u := s.users[i]
		return &u, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpsertUser(ctx context.Context, email string, profile models.UserProfile) (UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(email)
	if i < 0 {
		u := models.User{ID: primitive.NewObjectID(), Email: email, Name: profile.Name, Phone: profile.Phone}
		s.users = append(s.users, u)
		return UpsertResult{UpsertedCount: 1, UpsertedID: u.ID}, nil
	}

	u := &s.users[i]
	modified := false
	if profile.Name != "" && profile.Name != u.Name {
		u.Name = profile.Name
		modified = true
	}
	if profile.Phone != "" && profile.Phone != u.Phone {
		u.Phone = profile.Phone
		modified = true
	}
	res := UpsertResult{MatchedCount: 1}
	if modified {
		res.ModifiedCount = 1
	}
	return res, nil
}

func (s *MemoryStore) SetRole(ctx context.Context, email, role string) (UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(email)
	if i < 0 {
		return UpsertResult{}, nil
	}
	res := UpsertResult{MatchedCount: 1}
	if s.users[i].Role != role {
		s.users[i].Role = role
		res.ModifiedCount = 1
	}
	return res, nil
}

// userIndex must be called with mu held.
func (s *MemoryStore) userIndex(email string) int {
	for i := range s.users {
		if s.users[i].Email == email {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]models.Doctor, 0, len(s.doctors)), s.doctors...), nil
}

func (s *MemoryStore) InsertDoctor(ctx context.Context, d *models.Doctor) (InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	s.doctors = append(s.doctors, *d)
	return InsertResult{Acknowledged: true, InsertedID: d.ID}, nil
}

func (s *MemoryStore) DeleteDoctorByEmail(ctx context.Context, email string) (DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doctors {
		if s.doctors[i].Email == email {
			s.doctors = append(s.doctors[:i], s.doctors[i+1:]...)
			return DeleteResult{DeletedCount: 1}, nil
		}
	}
	return DeleteResult{}, nil
}
