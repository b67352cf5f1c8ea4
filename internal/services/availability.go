package services

import (
	"context"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"github.com/harentsoaR/doctors-portal-api/internal/store"
)

// AvailabilityService answers "which slots are still free on this date".
type AvailabilityService struct {
	services store.ServiceStore
	bookings store.BookingStore
}

func NewAvailabilityService(services store.ServiceStore, bookings store.BookingStore) *AvailabilityService {
	return &AvailabilityService{services: services, bookings: bookings}
}

// Available returns every service with its booked slots for date removed.
// The date is compared verbatim with the stored booking dates.
func (a *AvailabilityService) Available(ctx context.Context, date string) ([]models.Service, error) {
	services, err := a.services.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := a.bookings.ListBookingsByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return Reconcile(services, bookings), nil
}

// Reconcile removes from each service the slots taken by bookings whose
// treatment equals the service name. Order is preserved and the inputs are
// left untouched.
func Reconcile(services []models.Service, bookings []models.Booking) []models.Service {
	booked := make(map[string]map[string]struct{})
	for _, b := range bookings {
		slots, ok := booked[b.Treatment]
		if !ok {
			slots = make(map[string]struct{})
			booked[b.Treatment] = slots
		}
		slots[b.Slot] = struct{}{}
	}

	out := make([]models.Service, 0, len(services))
	for _, svc := range services {
		taken := booked[svc.Name]
		available := make([]string, 0, len(svc.Slots))
		for _, slot := range svc.Slots {
			if _, isTaken := taken[slot]; !isTaken {
				available = append(available, slot)
			}
		}
		svc.Slots = available
		out = append(out, svc)
	}
	return out
}
