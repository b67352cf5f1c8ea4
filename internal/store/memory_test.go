package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_BookingTripleIsUnique(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := &models.Booking{Patient: "a@x.com", Treatment: "Cleaning", Date: "2024-01-01", Slot: "9am"}
	res, err := s.InsertBooking(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, first.ID, res.InsertedID)

	_, err = s.InsertBooking(ctx, &models.Booking{Patient: "a@x.com", Treatment: "Cleaning", Date: "2024-01-01", Slot: "10am"})
	assert.ErrorIs(t, err, ErrDuplicate)

	found, err := s.FindBooking(ctx, "Cleaning", "2024-01-01", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "9am", found.Slot)

	_, err = s.FindBooking(ctx, "Cleaning", "2024-01-02", "a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ConcurrentBookingsOnlyOneWins(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	created, duplicates := 0, 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.InsertBooking(ctx, &models.Booking{Patient: "a@x.com", Treatment: "Cleaning", Date: "2024-01-01", Slot: "9am"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrDuplicate):
				duplicates++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, 19, duplicates)
}

func TestMemoryStore_ListBookingsFilters(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, b := range []models.Booking{
		{Patient: "a@x.com", Treatment: "Cleaning", Date: "2024-01-01", Slot: "9am"},
		{Patient: "b@x.com", Treatment: "Cleaning", Date: "2024-01-01", Slot: "10am"},
		{Patient: "a@x.com", Treatment: "X-Ray", Date: "2024-01-02", Slot: "9am"},
	} {
		b := b
		_, err := s.InsertBooking(ctx, &b)
		require.NoError(t, err)
	}

	byDate, err := s.ListBookingsByDate(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	byPatient, err := s.ListBookingsByPatient(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, byPatient, 2)

	none, err := s.ListBookingsByDate(ctx, "01/01/2024")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryStore_UpsertUser(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	res, err := s.UpsertUser(ctx, "a@x.com", models.UserProfile{Name: "Ana"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.UpsertedCount)
	assert.NotNil(t, res.UpsertedID)

	res, err = s.UpsertUser(ctx, "a@x.com", models.UserProfile{Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, UpsertResult{MatchedCount: 1}, res)

	res, err = s.UpsertUser(ctx, "a@x.com", models.UserProfile{Phone: "555"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.ModifiedCount)

	u, err := s.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "555", u.Phone)
}

func TestMemoryStore_ServicesAreCopied(t *testing.T) {
	s := NewMemoryStore(models.Service{Name: "Cleaning", Slots: []string{"9am", "10am"}})
	ctx := context.Background()

	services, err := s.ListServices(ctx)
	require.NoError(t, err)
	services[0].Slots[0] = "changed"

	again, err := s.ListServices(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"9am", "10am"}, again[0].Slots)

	names, err := s.ListServiceNames(ctx)
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, again[0].ID, names[0].ID)
}
