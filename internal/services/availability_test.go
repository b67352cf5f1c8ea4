package services

import (
	"context"
	"testing"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"github.com/harentsoaR/doctors-portal-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_NoBookingsKeepsEverySlot(t *testing.T) {
	services := []models.Service{
		{Name: "Cleaning", Slots: []string{"9am", "10am", "11am"}},
		{Name: "Whitening", Slots: []string{"1pm", "2pm"}},
	}

	got := Reconcile(services, nil)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"9am", "10am", "11am"}, got[0].Slots)
	assert.Equal(t, []string{"1pm", "2pm"}, got[1].Slots)
}

func TestReconcile_RemovesOnlyMatchingTreatment(t *testing.T) {
	services := []models.Service{
		{Name: "Cleaning", Slots: []string{"9am", "10am", "11am"}},
		{Name: "Whitening", Slots: []string{"9am", "10am"}},
	}
	bookings := []models.Booking{
		{Treatment: "Cleaning", Slot: "10am"},
		{Treatment: "Cleaning", Slot: "9am"},
		{Treatment: "Filling", Slot: "10am"},
	}

	got := Reconcile(services, bookings)

	assert.Equal(t, []string{"11am"}, got[0].Slots)
	assert.Equal(t, []string{"9am", "10am"}, got[1].Slots)
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	services := []models.Service{{Name: "Cleaning", Slots: []string{"9am", "10am"}}}

	Reconcile(services, []models.Booking{{Treatment: "Cleaning", Slot: "9am"}})

	assert.Equal(t, []string{"9am", "10am"}, services[0].Slots)
}

func TestReconcile_FullyBookedServiceHasEmptySlots(t *testing.T) {
	services := []models.Service{{Name: "X-Ray", Slots: []string{"9am"}}}

	got := Reconcile(services, []models.Booking{{Treatment: "X-Ray", Slot: "9am"}})

	require.NotNil(t, got[0].Slots)
	assert.Empty(t, got[0].Slots)
}

func TestReconcile_NeverReturnsBookedSlot(t *testing.T) {
	services := []models.Service{
		{Name: "A", Slots: []string{"1", "2", "3", "4", "5"}},
		{Name: "B", Slots: []string{"1", "2", "3"}},
	}
	bookings := []models.Booking{
		{Treatment: "A", Slot: "2"},
		{Treatment: "A", Slot: "5"},
		{Treatment: "B", Slot: "1"},
		{Treatment: "B", Slot: "3"},
		{Treatment: "B", Slot: "9"},
	}

	for _, svc := range Reconcile(services, bookings) {
		for _, b := range bookings {
			if b.Treatment == svc.Name {
				assert.NotContains(t, svc.Slots, b.Slot, "service %s", svc.Name)
			}
		}
	}
}

func TestAvailable_CleaningScenario(t *testing.T) {
	st := store.NewMemoryStore(models.Service{Name: "Cleaning", Slots: []string{"9am", "10am", "11am"}})
	_, err := st.InsertBooking(context.Background(), &models.Booking{
		Patient: "a@x.com", Treatment: "Cleaning", Date: "2024-01-01", Slot: "10am",
	})
	require.NoError(t, err)

	svc := NewAvailabilityService(st, st)

	booked, err := svc.Available(context.Background(), "2024-01-01")
	require.NoError(t, err)
	require.Len(t, booked, 1)
	assert.Equal(t, []string{"9am", "11am"}, booked[0].Slots)

	free, err := svc.Available(context.Background(), "2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"9am", "10am", "11am"}, free[0].Slots)

	// Unparsed dates simply match nothing.
	odd, err := svc.Available(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"9am", "10am", "11am"}, odd[0].Slots)
}
