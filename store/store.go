package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ceylonexplorer/rental-api/databases"
	"github.com/ceylonexplorer/rental-api/models"
)

// Store is the booking data facade. Every operation tries the remote
// collections first and, where the contract allows it, degrades to the local
// fallback store when the backend is unreachable.
//
// There is no transaction around the read-check-write sequence in
// CreateBooking: two concurrent submissions for overlapping dates can both
// pass the conflict check and persist as PENDING. The approval re-validation
// in Approve is the accepted mitigation for that race.
type Store struct {
	Vehicles databases.VehicleDatabase
	Bookings databases.BookingDatabase
	Fallback FallbackStorage
}

// New creates a booking store facade over the given collections and fallback
func New(vehicles databases.VehicleDatabase, bookings databases.BookingDatabase, fallback FallbackStorage) *Store {
	return &Store{Vehicles: vehicles, Bookings: bookings, Fallback: fallback}
}

func activeStatusFilter() bson.M {
	return bson.M{"status": bson.M{"$in": models.ActiveStatuses}}
}

// FetchVehicles returns all active vehicles, sorted by price per day
// ascending. An empty or failed remote read yields the fixed fallback
// catalog, so the result is never empty.
func (s *Store) FetchVehicles(ctx context.Context) []models.Vehicle {
	vehicles, err := s.Vehicles.Find(ctx, bson.M{"active": true})
	if err != nil {
		zap.S().Warnw("failed to fetch vehicles, using fallback catalog", "error", err)
		vehicles = FallbackVehicles()
	}
	if len(vehicles) == 0 {
		zap.S().Warn("remote vehicles collection is empty, using fallback catalog")
		vehicles = FallbackVehicles()
	}
	sort.SliceStable(vehicles, func(i, j int) bool {
		return vehicles[i].PricePerDay < vehicles[j].PricePerDay
	})
	return vehicles
}

// FetchVehicleByID returns the vehicle or a NotFound error. This path has no
// fallback: it is only reached from a known-good listing.
func (s *Store) FetchVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	vehicle, err := s.Vehicles.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		if kind, ok := classifyRemote(err); ok {
			if kind == KindNotFound {
				return nil, wrapError(KindNotFound, fmt.Sprintf("vehicle %q not found", id), err)
			}
			return nil, wrapError(kind, "failed to fetch vehicle", err)
		}
		return nil, err
	}
	return vehicle, nil
}

// FetchBookingsForVehicle returns the vehicle's bookings with status PENDING
// or APPROVED, reading the same filter from the fallback store when the
// backend is unreachable.
func (s *Store) FetchBookingsForVehicle(ctx context.Context, vehicleID string) ([]models.Booking, error) {
	filter := activeStatusFilter()
	filter["vehicleId"] = vehicleID
	bookings, err := s.Bookings.Find(ctx, filter)
	if err != nil {
		if recoverable(err) {
			zap.S().Warnw("failed to fetch vehicle bookings, using fallback store",
				"vehicleId", vehicleID, "error", err)
			return s.fallbackFiltered(func(b models.Booking) bool {
				return b.VehicleID == vehicleID && b.Status.Active()
			})
		}
		return nil, err
	}
	return bookings, nil
}

// FetchAllActiveBookings returns every PENDING or APPROVED booking, used to
// precompute per-vehicle availability in one batch.
func (s *Store) FetchAllActiveBookings(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.Bookings.Find(ctx, activeStatusFilter())
	if err != nil {
		if recoverable(err) {
			zap.S().Warnw("failed to fetch active bookings, using fallback store", "error", err)
			return s.fallbackFiltered(func(b models.Booking) bool { return b.Status.Active() })
		}
		return nil, err
	}
	return bookings, nil
}

// FetchBookingsByStatus returns bookings in the given status, newest first
// remotely, store-insertion order in fallback mode.
func (s *Store) FetchBookingsByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	if !status.Valid() {
		return nil, newError(KindValidation, fmt.Sprintf("unknown booking status %q", status))
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	bookings, err := s.Bookings.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		if recoverable(err) {
			zap.S().Warnw("failed to fetch bookings by status, using fallback store",
				"status", status, "error", err)
			return s.fallbackFiltered(func(b models.Booking) bool { return b.Status == status })
		}
		return nil, err
	}
	return bookings, nil
}

// FetchBookingByID returns a single booking, checking the fallback store when
// the backend is unreachable or the id is unknown remotely.
func (s *Store) FetchBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.Bookings.FindOne(ctx, bson.M{"_id": id})
	if err == nil {
		return booking, nil
	}
	kind, ok := classifyRemote(err)
	if !ok || (kind != KindBackendUnavailable && kind != KindNotFound && kind != KindTimeout) {
		return nil, err
	}
	local, ferr := s.fallbackFiltered(func(b models.Booking) bool { return b.ID == id })
	if ferr != nil {
		return nil, ferr
	}
	if len(local) == 0 {
		return nil, wrapError(KindNotFound, fmt.Sprintf("booking %q not found", id), err)
	}
	return &local[0], nil
}

// CreateBooking validates the payload, re-checks conflicts against the
// vehicle's active bookings and persists the booking with status forced to
// PENDING and server-assigned timestamps. A conflict is always surfaced to
// the caller, never absorbed into the fallback path; an unreachable backend
// degrades to a fallback write with a locally generated id.
func (s *Store) CreateBooking(ctx context.Context, payload models.Booking) (string, error) {
	if payload.VehicleID == "" {
		return "", newError(KindValidation, "missing vehicleId")
	}
	if payload.StartDate == "" || payload.EndDate == "" {
		return "", newError(KindValidation, "missing startDate or endDate")
	}
	if !models.ValidDate(payload.StartDate) || !models.ValidDate(payload.EndDate) {
		return "", newError(KindValidation, "dates must be formatted YYYY-MM-DD")
	}
	if payload.StartDate > payload.EndDate {
		return "", newError(KindValidation, "end date must be the same as or after start date")
	}

	existing, err := s.FetchBookingsForVehicle(ctx, payload.VehicleID)
	if err != nil {
		return "", err
	}
	for i := range existing {
		if existing[i].OverlapsRange(payload.StartDate, payload.EndDate) {
			return "", conflictError(&existing[i])
		}
	}

	now := time.Now().UTC()
	booking := payload
	booking.ID = primitive.NewObjectID().Hex()
	booking.Status = models.BookingStatusPending
	booking.AdminNote = ""
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.ApprovedAt = nil
	s.priceFromCatalog(ctx, &booking)

	_, err = s.Bookings.InsertOne(ctx, booking)
	if err == nil {
		return booking.ID, nil
	}

	kind, ok := classifyRemote(err)
	switch {
	case ok && kind == KindBackendUnavailable:
		zap.S().Warnw("remote booking write failed, writing to fallback store", "error", err)
		return s.createFallback(booking)
	case ok && kind == KindTimeout:
		return "", wrapError(KindTimeout, "booking write did not complete in time", err)
	default:
		return "", err
	}
}

// UpdateBookingStatus writes the new status, admin note and update timestamp,
// plus an approval timestamp when transitioning to APPROVED. An unreachable
// backend applies the same mutation to the fallback record; an id missing
// from both stores is a NotFound error.
func (s *Store) UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus, adminNote string) error {
	if !status.Valid() {
		return newError(KindValidation, fmt.Sprintf("unknown booking status %q", status))
	}

	now := time.Now().UTC()
	set := bson.M{
		"status":    status,
		"adminNote": adminNote,
		"updatedAt": now,
	}
	if status == models.BookingStatusApproved {
		set["approvedAt"] = now
	}

	res, err := s.Bookings.UpdateOne(ctx, bson.M{"_id": bookingID}, bson.M{"$set": set})
	if err != nil {
		if kind, ok := classifyRemote(err); ok && kind == KindBackendUnavailable {
			zap.S().Warnw("remote status update failed, mutating fallback store",
				"bookingId", bookingID, "error", err)
			return s.updateFallback(bookingID, status, adminNote, now)
		}
		return err
	}
	if res != nil && res.MatchedCount == 0 {
		// unknown remotely; the booking may live only in the fallback store
		return s.updateFallback(bookingID, status, adminNote, now)
	}
	return nil
}

func (s *Store) createFallback(booking models.Booking) (string, error) {
	bookings, err := s.Fallback.Load()
	if err != nil {
		return "", err
	}
	booking.ID = "local-" + uuid.New().String()
	bookings = append(bookings, booking)
	if err := s.Fallback.Save(bookings); err != nil {
		return "", err
	}
	return booking.ID, nil
}

func (s *Store) updateFallback(bookingID string, status models.BookingStatus, adminNote string, now time.Time) error {
	bookings, err := s.Fallback.Load()
	if err != nil {
		return err
	}
	for i := range bookings {
		if bookings[i].ID != bookingID {
			continue
		}
		bookings[i].Status = status
		bookings[i].AdminNote = adminNote
		bookings[i].UpdatedAt = now
		if status == models.BookingStatusApproved {
			approvedAt := now
			bookings[i].ApprovedAt = &approvedAt
		}
		return s.Fallback.Save(bookings)
	}
	return newError(KindNotFound, fmt.Sprintf("booking %q not found", bookingID))
}

func (s *Store) fallbackFiltered(keep func(models.Booking) bool) ([]models.Booking, error) {
	bookings, err := s.Fallback.Load()
	if err != nil {
		return nil, err
	}
	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

// priceFromCatalog fills the denormalized vehicle name and the computed
// total price. The client-supplied total is never persisted: an unknown
// vehicle is stored with a zero price for staff to quote manually.
func (s *Store) priceFromCatalog(ctx context.Context, booking *models.Booking) {
	for _, v := range s.FetchVehicles(ctx) {
		if v.ID == booking.VehicleID {
			booking.VehicleName = v.Name
			booking.TotalPrice = models.TotalPrice(v.PricePerDay, booking.StartDate, booking.EndDate)
			return
		}
	}
	booking.TotalPrice = 0
}

// recoverable reports whether a remote read error may be served from the
// fallback store instead.
func recoverable(err error) bool {
	kind, ok := classifyRemote(err)
	return ok && (kind == KindBackendUnavailable || kind == KindTimeout)
}
