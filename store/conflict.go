package store

import (
	"context"

	"github.com/ceylonexplorer/rental-api/models"
)

// Availability is the outcome of a conflict check for one vehicle and range.
type Availability struct {
	Available bool            `json:"available"`
	Conflict  *models.Booking `json:"conflict,omitempty"`
}

// IsAvailable reports whether the vehicle is free for the inclusive date
// range. Only PENDING and APPROVED bookings count; excludeBookingID skips one
// booking so approval can re-validate a booking against everyone but itself.
// Conflicts among fallback bookings are detected the same way as remote ones.
func (s *Store) IsAvailable(ctx context.Context, vehicleID, startDate, endDate, excludeBookingID string) (Availability, error) {
	if !models.ValidDate(startDate) || !models.ValidDate(endDate) {
		return Availability{}, newError(KindValidation, "dates must be formatted YYYY-MM-DD")
	}
	if startDate > endDate {
		return Availability{}, newError(KindValidation, "end date must be the same as or after start date")
	}

	bookings, err := s.FetchBookingsForVehicle(ctx, vehicleID)
	if err != nil {
		return Availability{}, err
	}
	for i := range bookings {
		if bookings[i].ID == excludeBookingID {
			continue
		}
		if bookings[i].OverlapsRange(startDate, endDate) {
			return Availability{Available: false, Conflict: &bookings[i]}, nil
		}
	}
	return Availability{Available: true}, nil
}

// AnnotateAvailability marks each vehicle as available or booked for the
// given range using a single batch read of all active bookings.
func (s *Store) AnnotateAvailability(ctx context.Context, vehicles []models.Vehicle, startDate, endDate string) ([]models.VehicleAvailability, error) {
	if !models.ValidDate(startDate) || !models.ValidDate(endDate) {
		return nil, newError(KindValidation, "dates must be formatted YYYY-MM-DD")
	}
	if startDate > endDate {
		return nil, newError(KindValidation, "end date must be the same as or after start date")
	}

	bookings, err := s.FetchAllActiveBookings(ctx)
	if err != nil {
		return nil, err
	}

	byVehicle := make(map[string][]models.Booking, len(vehicles))
	for _, b := range bookings {
		byVehicle[b.VehicleID] = append(byVehicle[b.VehicleID], b)
	}

	out := make([]models.VehicleAvailability, 0, len(vehicles))
	for _, v := range vehicles {
		entry := models.VehicleAvailability{Vehicle: v, Available: true}
		for _, b := range byVehicle[v.ID] {
			if b.OverlapsRange(startDate, endDate) {
				entry.Available = false
				if b.EndDate > entry.BookedUntil {
					entry.BookedUntil = b.EndDate
				}
			}
		}
		out = append(out, entry)
	}
	return out, nil
}
