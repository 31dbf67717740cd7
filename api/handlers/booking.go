package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ceylonexplorer/rental-api/config"
	"github.com/ceylonexplorer/rental-api/models"
	"github.com/ceylonexplorer/rental-api/notifications"
	"github.com/ceylonexplorer/rental-api/store"
)

// Booking exported for testing purposes
type Booking struct {
	Store    *store.Store
	Notifier notifications.Notifier
	Timeout  time.Duration
}

type createBookingResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type conflictResponse struct {
	Response models.MessageError `json:"response"`
	Conflict *models.Booking     `json:"conflict,omitempty"`
}

// CreateBookingHandler accepts a booking request from the storefront. The
// handler waits a bounded amount of time for the write: when the backend is
// slow the customer gets a 202 and the booking is assumed submitted, the same
// optimistic behavior the storefront promises in its confirmation message.
func (b Booking) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	var payload models.Booking
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = config.DefaultBookingCreateTimeout
	}
	waitCtx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	type createResult struct {
		id  string
		err error
	}
	done := make(chan createResult, 1)
	go func() {
		// detached from the request so a slow write can still land after
		// the handler has answered optimistically
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		id, err := b.Store.CreateBooking(ctx, payload)
		done <- createResult{id: id, err: err}
	}()

	w.Header().Set("Content-Type", "application/json")

	select {
	case res := <-done:
		if res.err != nil {
			if store.IsKind(res.err, store.KindTimeout) {
				b.acceptOptimistically(w, payload)
				return
			}
			writeStoreError("failed to create booking", w, res.err)
			return
		}
		go b.notifyCreated(res.id)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(createBookingResponse{
			ID:     res.id,
			Status: string(models.BookingStatusPending),
		})
	case <-waitCtx.Done():
		// the write is still in flight and may yet land, proceed as if it did
		b.acceptOptimistically(w, payload)
	}
}

func (b Booking) acceptOptimistically(w http.ResponseWriter, payload models.Booking) {
	zap.S().Warnw("booking write exceeded the wait budget, responding optimistically",
		"vehicleId", payload.VehicleID)
	payload.Status = models.BookingStatusPending
	go b.notifyPayload(payload)
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(createBookingResponse{
		Status:  string(models.BookingStatusPending),
		Message: "booking submitted, confirmation is still processing",
	})
}

// notifyCreated fetches the stored booking so the notification carries the
// computed name and price.
func (b Booking) notifyCreated(bookingID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	booking, err := b.Store.FetchBookingByID(ctx, bookingID)
	if err != nil {
		zap.S().Errorw("failed to load booking for notification", "bookingId", bookingID, "error", err)
		return
	}
	broadcastBookingEvent("booking_created", *booking)
	if err := b.Notifier.BookingCreated(*booking); err != nil {
		zap.S().Errorw("failed to notify staff of new booking", "bookingId", bookingID, "error", err)
	}
}

func (b Booking) notifyPayload(booking models.Booking) {
	broadcastBookingEvent("booking_created", booking)
	if err := b.Notifier.BookingCreated(booking); err != nil {
		zap.S().Errorw("failed to notify staff of new booking", "error", err)
	}
}

// writeStoreError maps a store error kind onto an HTTP status. Conflicts get
// a body carrying the blocking booking so the storefront can show its dates.
func writeStoreError(message string, w http.ResponseWriter, err error) {
	if conflict := store.ConflictingBooking(err); conflict != nil {
		zap.S().Infow(message, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(conflictResponse{
			Response: models.MessageError{Message: message, Error: err.Error()},
			Conflict: conflict,
		})
		return
	}

	status := http.StatusInternalServerError
	if kind, ok := store.KindOf(err); ok {
		switch kind {
		case store.KindValidation:
			status = http.StatusBadRequest
		case store.KindNotFound:
			status = http.StatusNotFound
		case store.KindBackendUnavailable:
			status = http.StatusServiceUnavailable
		case store.KindTimeout:
			status = http.StatusGatewayTimeout
		}
	}
	config.ErrorStatus(message, status, w, err)
}
