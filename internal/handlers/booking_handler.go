package handlers

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/doctors-portal-api/internal/middleware"
	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"github.com/harentsoaR/doctors-portal-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListServices returns the service names only.
func (h *Handler) ListServices(c *gin.Context) {
	names, err := h.Store.ListServiceNames(c.Request.Context())
	if err != nil {
		h.internalError(c, "failed to list services", err)
		return
	}
	c.JSON(http.StatusOK, names)
}

// GetAvailable returns every service with the slots still free on ?date=.
func (h *Handler) GetAvailable(c *gin.Context) {
	services, err := h.Availability.Available(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.internalError(c, "failed to compute availability", err)
		return
	}
	c.JSON(http.StatusOK, services)
}

// GetBookings lists the bookings of ?patient=, which must be the caller.
func (h *Handler) GetBookings(c *gin.Context) {
	patient := c.Query("patient")
	if patient != c.GetString(middleware.ContextEmailKey) {
		utils.JSONError(c, http.StatusForbidden, "Forbidden access", "")
		return
	}

	bookings, err := h.Bookings.ForPatient(c.Request.Context(), patient)
	if err != nil {
		h.internalError(c, "failed to list bookings", err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CreateBooking registers a booking. A second booking for the same
// treatment, date and patient is answered with success=false and the
// existing booking.
func (h *Handler) CreateBooking(c *gin.Context) {
	var booking models.Booking
	if err := c.ShouldBindJSON(&booking); err != nil {
		h.badRequest(c, err)
		return
	}
	if hasControlChars(booking.Patient, booking.PatientName, booking.Treatment, booking.Date, booking.Slot) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", "fields must not contain control characters")
		return
	}
	booking.ID = primitive.NilObjectID

	outcome, err := h.Bookings.Create(c.Request.Context(), booking)
	if err != nil {
		h.internalError(c, "failed to create booking", err)
		return
	}
	if outcome.Duplicate {
		c.JSON(http.StatusOK, gin.H{"success": false, "booking": outcome.Booking})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": outcome.Result, "booking": outcome.Booking})
}

// hasControlChars reports whether any value holds a control character.
// Booking fields are copied into confirmation email headers.
func hasControlChars(values ...string) bool {
	for _, v := range values {
		if strings.ContainsFunc(v, unicode.IsControl) {
			return true
		}
	}
	return false
}
