package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/luxedrive/internal/db"
	"github.com/ukydev/luxedrive/internal/events"
	"github.com/ukydev/luxedrive/internal/middleware"
	"github.com/ukydev/luxedrive/internal/models"
)

type BookingHandler struct {
	bookings db.BookingCollection
	notifier
}

func NewBookingHandler(bookings db.BookingCollection, publisher events.Publisher, logger log.FieldLogger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		notifier: notifier{publisher: publisher, log: logger},
	}
}

// Create books a car for the signed-in user. The total price is computed
// from the car's current daily rate and frozen on the booking.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "User context not found")
		return
	}

	var req models.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}
	if req.CarID == "" || req.StartDate == "" || req.EndDate == "" {
		writeError(w, http.StatusBadRequest, "carId, startDate and endDate are required")
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), claims.UserID, req.CarID, req.StartDate, req.EndDate)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	h.log.WithFields(log.Fields{
		"booking_id":  booking.ID,
		"user_id":     booking.UserID,
		"car_id":      booking.CarID,
		"total_price": booking.TotalPrice,
	}).Info("Booking created")
	h.emit(r.Context(), events.BookingCreated, booking)
	writeJSON(w, http.StatusCreated, booking)
}

// Mine lists the signed-in user's bookings with car details attached.
func (h *BookingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "User context not found")
		return
	}

	views, err := h.bookings.ListBookingsForUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// List returns every booking with car and user details attached.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.bookings.ListAllBookings(r.Context())
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.BookingStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	booking, err := h.bookings.SetBookingStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	h.emit(r.Context(), events.BookingStatusChanged, booking)
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	booking, err := h.bookings.SetPaymentStatus(r.Context(), r.PathValue("id"), req.PaymentStatus)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	h.emit(r.Context(), events.BookingPaymentChange, booking)
	writeJSON(w, http.StatusOK, booking)
}

// Stats returns the admin dashboard aggregates.
func (h *BookingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.bookings.Stats(r.Context())
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
