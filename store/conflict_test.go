package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ceylonexplorer/rental-api/databases/mocks"
	"github.com/ceylonexplorer/rental-api/models"
)

func TestIsAvailable(t *testing.T) {
	existing := models.Booking{
		ID:        "b1",
		VehicleID: "toyota-axio",
		StartDate: "2026-06-03",
		EndDate:   "2026-06-07",
		Status:    models.BookingStatusPending,
	}

	tests := []struct {
		name      string
		start     string
		end       string
		exclude   string
		available bool
	}{
		{"disjoint before", "2026-06-01", "2026-06-02", "", true},
		{"disjoint after", "2026-06-08", "2026-06-10", "", true},
		{"shared boundary", "2026-06-07", "2026-06-09", "", false},
		{"contained", "2026-06-04", "2026-06-05", "", false},
		{"excluding the conflicting booking", "2026-06-04", "2026-06-05", "b1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingDB := mocks.NewBookingDatabase(t)
			bookingDB.On("Find", mock.Anything, mock.Anything).
				Return([]models.Booking{existing}, nil)
			s := New(mocks.NewVehicleDatabase(t), bookingDB, NewMemoryStorage())

			got, err := s.IsAvailable(context.Background(), "toyota-axio", tt.start, tt.end, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.available, got.Available)
			if !tt.available {
				require.NotNil(t, got.Conflict)
				assert.Equal(t, "b1", got.Conflict.ID)
			}
		})
	}
}

func TestIsAvailableRejectedNeverBlocks(t *testing.T) {
	// unreachable backend, so the check runs against the fallback store and
	// exercises the status filter directly
	bookingDB := mocks.NewBookingDatabase(t)
	bookingDB.On("Find", mock.Anything, mock.Anything).
		Return(nil, mongo.ErrClientDisconnected)

	rejected := models.Booking{
		ID:        "b1",
		VehicleID: "toyota-axio",
		StartDate: "2026-06-01",
		EndDate:   "2026-06-30",
		Status:    models.BookingStatusRejected,
	}
	s := New(mocks.NewVehicleDatabase(t), bookingDB, NewMemoryStorage(rejected))

	got, err := s.IsAvailable(context.Background(), "toyota-axio", "2026-06-10", "2026-06-12", "")
	require.NoError(t, err)
	assert.True(t, got.Available)
}

func TestIsAvailableInvalidRange(t *testing.T) {
	s := New(mocks.NewVehicleDatabase(t), mocks.NewBookingDatabase(t), NewMemoryStorage())

	_, err := s.IsAvailable(context.Background(), "toyota-axio", "2026-06-10", "10/06/2026", "")
	assert.True(t, IsKind(err, KindValidation))

	_, err = s.IsAvailable(context.Background(), "toyota-axio", "2026-06-12", "2026-06-10", "")
	assert.True(t, IsKind(err, KindValidation))
}

func TestAnnotateAvailability(t *testing.T) {
	bookingDB := mocks.NewBookingDatabase(t)
	bookingDB.On("Find", mock.Anything, mock.Anything).Return([]models.Booking{
		{ID: "b1", VehicleID: "toyota-axio", StartDate: "2026-06-03", EndDate: "2026-06-07", Status: models.BookingStatusApproved},
		{ID: "b2", VehicleID: "toyota-axio", StartDate: "2026-06-05", EndDate: "2026-06-09", Status: models.BookingStatusPending},
	}, nil)

	vehicles := []models.Vehicle{
		{ID: "toyota-axio", Name: "Toyota Axio", PricePerDay: 45},
		{ID: "toyota-hiace", Name: "Toyota Hiace", PricePerDay: 60},
	}
	s := New(mocks.NewVehicleDatabase(t), bookingDB, NewMemoryStorage())

	got, err := s.AnnotateAvailability(context.Background(), vehicles, "2026-06-05", "2026-06-06")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.False(t, got[0].Available)
	assert.Equal(t, "2026-06-09", got[0].BookedUntil)
	assert.True(t, got[1].Available)
	assert.Empty(t, got[1].BookedUntil)
}
