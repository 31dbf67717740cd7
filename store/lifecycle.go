package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ceylonexplorer/rental-api/models"
)

// Approve moves a PENDING booking to APPROVED. The booking's date range is
// re-validated against every other active booking for the vehicle first, so
// a pair of overlapping submissions that both slipped past the create-time
// check can never both end up APPROVED. Terminal bookings are rejected with
// a validation error and left untouched.
func (s *Store) Approve(ctx context.Context, bookingID, adminNote string) (*models.Booking, error) {
	booking, err := s.FetchBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusPending {
		return nil, newError(KindValidation,
			fmt.Sprintf("booking %q is already %s", bookingID, booking.Status))
	}

	availability, err := s.IsAvailable(ctx, booking.VehicleID, booking.StartDate, booking.EndDate, booking.ID)
	if err != nil {
		return nil, err
	}
	if !availability.Available {
		zap.S().Infow("approval blocked by overlapping booking",
			"bookingId", bookingID, "conflictingId", availability.Conflict.ID)
		return nil, conflictError(availability.Conflict)
	}

	if err := s.UpdateBookingStatus(ctx, bookingID, models.BookingStatusApproved, adminNote); err != nil {
		return nil, err
	}
	return s.FetchBookingByID(ctx, bookingID)
}

// Reject moves a PENDING booking to REJECTED. No conflict check is needed,
// rejecting only ever frees up dates.
func (s *Store) Reject(ctx context.Context, bookingID, adminNote string) (*models.Booking, error) {
	booking, err := s.FetchBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusPending {
		return nil, newError(KindValidation,
			fmt.Sprintf("booking %q is already %s", bookingID, booking.Status))
	}

	if err := s.UpdateBookingStatus(ctx, bookingID, models.BookingStatusRejected, adminNote); err != nil {
		return nil, err
	}
	return s.FetchBookingByID(ctx, bookingID)
}
