package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ceylonexplorer/rental-api/api/handlers"
	mocksdb "github.com/ceylonexplorer/rental-api/databases/mocks"
	"github.com/ceylonexplorer/rental-api/models"
	"github.com/ceylonexplorer/rental-api/notifications"
	"github.com/ceylonexplorer/rental-api/store"
)

func pendingFixture() *models.Booking {
	return &models.Booking{
		ID:        "b1",
		VehicleID: "toyota-axio",
		StartDate: "2026-06-03",
		EndDate:   "2026-06-07",
		Status:    models.BookingStatusPending,
	}
}

func decisionRequestBody(t *testing.T, note string) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(map[string]string{"adminNote": note})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestAdmin_ApproveBookingHandler(t *testing.T) {
	approved := *pendingFixture()
	approved.Status = models.BookingStatusApproved

	bookingDB := mocksdb.NewBookingDatabase(t)
	bookingDB.On("FindOne", mock.Anything, mock.Anything).Return(pendingFixture(), nil).Once()
	bookingDB.On("Find", mock.Anything, mock.Anything).
		Return([]models.Booking{*pendingFixture()}, nil)
	bookingDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	bookingDB.On("FindOne", mock.Anything, mock.Anything).Return(&approved, nil).Once()

	a := handlers.Admin{
		Store:    store.New(mocksdb.NewVehicleDatabase(t), bookingDB, store.NewMemoryStorage()),
		Notifier: notifications.Noop{},
	}

	req, err := http.NewRequest("PUT", "/api/v1/booking/b1/approve", decisionRequestBody(t, "confirmed"))
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"booking_id": "b1"})
	req.Header.Set("Authorization", "Bearer abc123")

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.ApproveBookingHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.Booking
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, models.BookingStatusApproved, resp.Status)
}

func TestAdmin_ApproveBookingHandlerConflict(t *testing.T) {
	other := models.Booking{
		ID:        "b2",
		VehicleID: "toyota-axio",
		StartDate: "2026-06-06",
		EndDate:   "2026-06-10",
		Status:    models.BookingStatusApproved,
	}

	bookingDB := mocksdb.NewBookingDatabase(t)
	bookingDB.On("FindOne", mock.Anything, mock.Anything).Return(pendingFixture(), nil)
	bookingDB.On("Find", mock.Anything, mock.Anything).
		Return([]models.Booking{*pendingFixture(), other}, nil)

	a := handlers.Admin{
		Store:    store.New(mocksdb.NewVehicleDatabase(t), bookingDB, store.NewMemoryStorage()),
		Notifier: notifications.Noop{},
	}

	req, err := http.NewRequest("PUT", "/api/v1/booking/b1/approve", decisionRequestBody(t, ""))
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"booking_id": "b1"})
	req.Header.Set("Authorization", "Bearer abc123")

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.ApproveBookingHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	bookingDB.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdmin_RejectBookingHandler(t *testing.T) {
	rejected := *pendingFixture()
	rejected.Status = models.BookingStatusRejected
	rejected.AdminNote = "vehicle in service"

	bookingDB := mocksdb.NewBookingDatabase(t)
	bookingDB.On("FindOne", mock.Anything, mock.Anything).Return(pendingFixture(), nil).Once()
	bookingDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	bookingDB.On("FindOne", mock.Anything, mock.Anything).Return(&rejected, nil).Once()

	a := handlers.Admin{
		Store:    store.New(mocksdb.NewVehicleDatabase(t), bookingDB, store.NewMemoryStorage()),
		Notifier: notifications.Noop{},
	}

	req, err := http.NewRequest("PUT", "/api/v1/booking/b1/reject", decisionRequestBody(t, "vehicle in service"))
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"booking_id": "b1"})
	req.Header.Set("Authorization", "Bearer abc123")

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.RejectBookingHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.Booking
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, models.BookingStatusRejected, resp.Status)
	assert.Equal(t, "vehicle in service", resp.AdminNote)
}

func TestAdmin_RejectBookingHandlerTerminal(t *testing.T) {
	approved := pendingFixture()
	approved.Status = models.BookingStatusApproved

	bookingDB := mocksdb.NewBookingDatabase(t)
	bookingDB.On("FindOne", mock.Anything, mock.Anything).Return(approved, nil)

	a := handlers.Admin{
		Store:    store.New(mocksdb.NewVehicleDatabase(t), bookingDB, store.NewMemoryStorage()),
		Notifier: notifications.Noop{},
	}

	req, err := http.NewRequest("PUT", "/api/v1/booking/b1/reject", decisionRequestBody(t, ""))
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"booking_id": "b1"})
	req.Header.Set("Authorization", "Bearer abc123")

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.RejectBookingHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdmin_BookingsByStatusHandler(t *testing.T) {
	bookingDB := mocksdb.NewBookingDatabase(t)
	bookingDB.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Booking{*pendingFixture()}, nil)

	a := handlers.Admin{
		Store:    store.New(mocksdb.NewVehicleDatabase(t), bookingDB, store.NewMemoryStorage()),
		Notifier: notifications.Noop{},
	}

	// no status param defaults to the PENDING review queue
	req, err := http.NewRequest("GET", "/api/v1/bookings", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer abc123")

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.BookingsByStatusHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp []models.Booking
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "b1", resp[0].ID)
}

func TestAdmin_BookingsByStatusHandlerUnknownStatus(t *testing.T) {
	a := handlers.Admin{
		Store:    store.New(mocksdb.NewVehicleDatabase(t), mocksdb.NewBookingDatabase(t), store.NewMemoryStorage()),
		Notifier: notifications.Noop{},
	}

	req, err := http.NewRequest("GET", "/api/v1/bookings?status=CANCELLED", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer abc123")

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.BookingsByStatusHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdmin_BookingByIDHandlerNotFound(t *testing.T) {
	bookingDB := mocksdb.NewBookingDatabase(t)
	bookingDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	a := handlers.Admin{
		Store:    store.New(mocksdb.NewVehicleDatabase(t), bookingDB, store.NewMemoryStorage()),
		Notifier: notifications.Noop{},
	}

	req, err := http.NewRequest("GET", "/api/v1/booking/missing", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"booking_id": "missing"})
	req.Header.Set("Authorization", "Bearer abc123")

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.BookingByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdmin_BookingsByVehicleHandler(t *testing.T) {
	bookingDB := mocksdb.NewBookingDatabase(t)
	bookingDB.On("Find", mock.Anything, mock.Anything).
		Return([]models.Booking{}, nil)

	a := handlers.Admin{
		Store:    store.New(mocksdb.NewVehicleDatabase(t), bookingDB, store.NewMemoryStorage()),
		Notifier: notifications.Noop{},
	}

	req, err := http.NewRequest("GET", "/api/v1/bookings/vehicle/toyota-axio", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"vehicle_id": "toyota-axio"})
	req.Header.Set("Authorization", "Bearer abc123")

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.BookingsByVehicleHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}
