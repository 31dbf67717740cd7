package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ceylonexplorer/rental-api/api"
	"github.com/ceylonexplorer/rental-api/config"
	"github.com/ceylonexplorer/rental-api/models"
	"github.com/ceylonexplorer/rental-api/notifications"
	"github.com/ceylonexplorer/rental-api/store"
)

// Admin exported for testing purposes
type Admin struct {
	Store    *store.Store
	Notifier notifications.Notifier
}

type decisionRequest struct {
	AdminNote string `json:"adminNote"`
}

// BookingsByStatusHandler lists bookings by lifecycle status, defaulting to
// the review queue of PENDING requests.
func (a Admin) BookingsByStatusHandler(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = string(models.BookingStatusPending)
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	bookings, err := a.Store.FetchBookingsByStatus(ctx, models.BookingStatus(status))
	if err != nil {
		writeStoreError("failed to get bookings by status", w, err)
		return
	}
	if len(bookings) == 0 {
		bookings = []models.Booking{}
	}

	b, err := json.Marshal(bookings)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// BookingsByVehicleHandler lists the active bookings blocking a vehicle
func (a Admin) BookingsByVehicleHandler(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["vehicle_id"]

	zap.S().Debugf("vehicle_id: %v", vehicleID)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	bookings, err := a.Store.FetchBookingsForVehicle(ctx, vehicleID)
	if err != nil {
		writeStoreError("failed to get bookings by vehicle", w, err)
		return
	}
	if len(bookings) == 0 {
		bookings = []models.Booking{}
	}

	b, err := json.Marshal(bookings)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// BookingByIDHandler returns a booking by ID
func (a Admin) BookingByIDHandler(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["booking_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	booking, err := a.Store.FetchBookingByID(ctx, bookingID)
	if err != nil {
		writeStoreError("failed to get booking by ID", w, err)
		return
	}

	b, err := json.Marshal(booking)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ApproveBookingHandler moves a PENDING booking to APPROVED after
// re-validating its dates against every other active booking.
func (a Admin) ApproveBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["booking_id"]
	note := decodeDecision(r.Body)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	booking, err := a.Store.Approve(ctx, bookingID, note)
	if err != nil {
		writeStoreError("failed to approve booking", w, err)
		return
	}
	zap.S().Infow("booking approved", "bookingId", bookingID)
	go broadcastBookingEvent("booking_approved", *booking)

	b, err := json.Marshal(booking)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// RejectBookingHandler moves a PENDING booking to REJECTED
func (a Admin) RejectBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["booking_id"]
	note := decodeDecision(r.Body)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	booking, err := a.Store.Reject(ctx, bookingID, note)
	if err != nil {
		writeStoreError("failed to reject booking", w, err)
		return
	}
	zap.S().Infow("booking rejected", "bookingId", bookingID)
	go broadcastBookingEvent("booking_rejected", *booking)

	b, err := json.Marshal(booking)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// decodeDecision reads the optional admin note; an empty or invalid body is
// treated as no note.
func decodeDecision(body io.Reader) string {
	var req decisionRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return ""
	}
	return req.AdminNote
}
