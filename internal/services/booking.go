package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"github.com/harentsoaR/doctors-portal-api/internal/store"
)

// Notifier queues a booking confirmation without waiting for delivery.
type Notifier interface {
	SendAppointmentConfirmation(booking models.Booking) bool
}

// BookingOutcome is either a freshly created booking or, when Duplicate is
// set, the booking that already held the treatment/date/patient triple.
type BookingOutcome struct {
	Duplicate bool
	Booking   models.Booking
	Result    store.InsertResult
}

type BookingRegistrar struct {
	bookings store.BookingStore
	notifier Notifier
}

// NewBookingRegistrar builds a registrar. notifier may be nil to disable
// confirmations.
func NewBookingRegistrar(bookings store.BookingStore, notifier Notifier) *BookingRegistrar {
	return &BookingRegistrar{bookings: bookings, notifier: notifier}
}

// Create inserts booking unless one already exists for the same treatment,
// date and patient. The store's unique index decides; a duplicate is a normal
// outcome, not an error.
func (r *BookingRegistrar) Create(ctx context.Context, booking models.Booking) (BookingOutcome, error) {
	res, err := r.bookings.InsertBooking(ctx, &booking)
	if errors.Is(err, store.ErrDuplicate) {
		existing, findErr := r.bookings.FindBooking(ctx, booking.Treatment, booking.Date, booking.Patient)
		if findErr != nil {
			return BookingOutcome{}, fmt.Errorf("failed to load existing booking: %w", findErr)
		}
		return BookingOutcome{Duplicate: true, Booking: *existing}, nil
	}
	if err != nil {
		return BookingOutcome{}, err
	}

	if r.notifier != nil {
		r.notifier.SendAppointmentConfirmation(booking)
	}
	return BookingOutcome{Booking: booking, Result: res}, nil
}

// ForPatient lists the bookings of one patient.
func (r *BookingRegistrar) ForPatient(ctx context.Context, patient string) ([]models.Booking, error) {
	return r.bookings.ListBookingsByPatient(ctx, patient)
}
