package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ceylonexplorer/rental-api/databases/mocks"
	"github.com/ceylonexplorer/rental-api/models"
)

func pendingBooking() *models.Booking {
	return &models.Booking{
		ID:        "b1",
		VehicleID: "toyota-axio",
		StartDate: "2026-06-03",
		EndDate:   "2026-06-07",
		Status:    models.BookingStatusPending,
	}
}

func TestApprove(t *testing.T) {
	now := time.Now().UTC()
	approved := *pendingBooking()
	approved.Status = models.BookingStatusApproved
	approved.ApprovedAt = &now

	bookingDB := mocks.NewBookingDatabase(t)
	bookingDB.On("FindOne", mock.Anything, mock.Anything).Return(pendingBooking(), nil).Once()
	// the re-validation only sees the booking being approved, which is excluded
	bookingDB.On("Find", mock.Anything, mock.Anything).
		Return([]models.Booking{*pendingBooking()}, nil)
	bookingDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	bookingDB.On("FindOne", mock.Anything, mock.Anything).Return(&approved, nil).Once()

	s := New(mocks.NewVehicleDatabase(t), bookingDB, NewMemoryStorage())

	got, err := s.Approve(context.Background(), "b1", "confirmed by phone")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusApproved, got.Status)
	require.NotNil(t, got.ApprovedAt)
}

func TestApproveBlockedByOverlap(t *testing.T) {
	other := models.Booking{
		ID:        "b2",
		VehicleID: "toyota-axio",
		StartDate: "2026-06-06",
		EndDate:   "2026-06-10",
		Status:    models.BookingStatusApproved,
	}

	bookingDB := mocks.NewBookingDatabase(t)
	bookingDB.On("FindOne", mock.Anything, mock.Anything).Return(pendingBooking(), nil)
	bookingDB.On("Find", mock.Anything, mock.Anything).
		Return([]models.Booking{*pendingBooking(), other}, nil)

	s := New(mocks.NewVehicleDatabase(t), bookingDB, NewMemoryStorage())

	_, err := s.Approve(context.Background(), "b1", "")
	require.True(t, IsKind(err, KindConflict))
	assert.Equal(t, "b2", ConflictingBooking(err).ID)
	bookingDB.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveTerminalBooking(t *testing.T) {
	rejected := pendingBooking()
	rejected.Status = models.BookingStatusRejected

	bookingDB := mocks.NewBookingDatabase(t)
	bookingDB.On("FindOne", mock.Anything, mock.Anything).Return(rejected, nil)

	s := New(mocks.NewVehicleDatabase(t), bookingDB, NewMemoryStorage())

	_, err := s.Approve(context.Background(), "b1", "")
	assert.True(t, IsKind(err, KindValidation))
	bookingDB.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestReject(t *testing.T) {
	rejected := *pendingBooking()
	rejected.Status = models.BookingStatusRejected
	rejected.AdminNote = "vehicle in service"

	bookingDB := mocks.NewBookingDatabase(t)
	bookingDB.On("FindOne", mock.Anything, mock.Anything).Return(pendingBooking(), nil).Once()
	bookingDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	bookingDB.On("FindOne", mock.Anything, mock.Anything).Return(&rejected, nil).Once()

	s := New(mocks.NewVehicleDatabase(t), bookingDB, NewMemoryStorage())

	got, err := s.Reject(context.Background(), "b1", "vehicle in service")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusRejected, got.Status)
	assert.Equal(t, "vehicle in service", got.AdminNote)
	assert.Nil(t, got.ApprovedAt)
}

func TestRejectTerminalBooking(t *testing.T) {
	approved := pendingBooking()
	approved.Status = models.BookingStatusApproved

	bookingDB := mocks.NewBookingDatabase(t)
	bookingDB.On("FindOne", mock.Anything, mock.Anything).Return(approved, nil)

	s := New(mocks.NewVehicleDatabase(t), bookingDB, NewMemoryStorage())

	_, err := s.Reject(context.Background(), "b1", "")
	assert.True(t, IsKind(err, KindValidation))
}
