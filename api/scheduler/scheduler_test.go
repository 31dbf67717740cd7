package scheduler_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ceylonexplorer/rental-api/api/scheduler"
	mocksdb "github.com/ceylonexplorer/rental-api/databases/mocks"
	"github.com/ceylonexplorer/rental-api/models"
	"github.com/ceylonexplorer/rental-api/store"
)

type recordingNotifier struct {
	mu      sync.Mutex
	digests [][]models.Booking
}

func (r *recordingNotifier) BookingCreated(models.Booking) error { return nil }

func (r *recordingNotifier) PendingDigest(bookings []models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.digests = append(r.digests, bookings)
	return nil
}

func TestScheduler_FlushFallback(t *testing.T) {
	seed := models.Booking{ID: "seed-1", VehicleID: "deepol-s05", Status: models.BookingStatusPending}
	local := models.Booking{
		ID:        "local-abc",
		VehicleID: "toyota-axio",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-03",
		Status:    models.BookingStatusPending,
	}
	fallback := store.NewMemoryStorage(seed, local)

	var inserted models.Booking
	bookingDB := mocksdb.NewBookingDatabase(t)
	insertResult := &mocksdb.InsertOneResultHelper{}
	bookingDB.On("InsertOne", mock.Anything, mock.AnythingOfType("models.Booking")).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).(models.Booking)
		}).
		Return(insertResult, nil).Once()

	s := scheduler.NewScheduler(bookingDB, fallback, nil, &recordingNotifier{})
	s.FlushFallback()

	// the local booking got a remote id, the seed was never pushed
	assert.Len(t, inserted.ID, 24)
	assert.Equal(t, "toyota-axio", inserted.VehicleID)

	remaining, err := fallback.Load()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "seed-1", remaining[0].ID)
}

func TestScheduler_FlushFallbackKeepsUnflushable(t *testing.T) {
	local := models.Booking{ID: "local-abc", VehicleID: "toyota-axio", Status: models.BookingStatusPending}
	fallback := store.NewMemoryStorage(local)

	bookingDB := mocksdb.NewBookingDatabase(t)
	bookingDB.On("InsertOne", mock.Anything, mock.AnythingOfType("models.Booking")).
		Return(nil, mongo.ErrClientDisconnected)

	s := scheduler.NewScheduler(bookingDB, fallback, nil, &recordingNotifier{})
	s.FlushFallback()

	remaining, err := fallback.Load()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "local-abc", remaining[0].ID)
}

// failOnceStorage fails the first Save so the flushed booking stays in the
// fallback store and the next run retries it.
type failOnceStorage struct {
	*store.MemoryStorage
	failed bool
}

func (f *failOnceStorage) Save(bookings []models.Booking) error {
	if !f.failed {
		f.failed = true
		return errors.New("mocked-error")
	}
	return f.MemoryStorage.Save(bookings)
}

func TestScheduler_FlushFallbackRetryIsIdempotent(t *testing.T) {
	local := models.Booking{
		ID:        "local-abc",
		VehicleID: "toyota-axio",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-03",
		Status:    models.BookingStatusPending,
	}
	fallback := &failOnceStorage{MemoryStorage: store.NewMemoryStorage(local)}

	var insertedIDs []string
	capture := func(args mock.Arguments) {
		insertedIDs = append(insertedIDs, args.Get(1).(models.Booking).ID)
	}

	bookingDB := mocksdb.NewBookingDatabase(t)
	insertResult := &mocksdb.InsertOneResultHelper{}
	bookingDB.On("InsertOne", mock.Anything, mock.AnythingOfType("models.Booking")).
		Run(capture).Return(insertResult, nil).Once()
	dupErr := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	bookingDB.On("InsertOne", mock.Anything, mock.AnythingOfType("models.Booking")).
		Run(capture).Return(nil, dupErr).Once()

	s := scheduler.NewScheduler(bookingDB, fallback, nil, &recordingNotifier{})

	// first run inserts remotely but the fallback save fails, so the booking
	// is still local on the second run
	s.FlushFallback()
	s.FlushFallback()

	require.Len(t, insertedIDs, 2)
	assert.Equal(t, insertedIDs[0], insertedIDs[1])
	assert.Len(t, insertedIDs[0], 24)

	remaining, err := fallback.Load()
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestScheduler_SendPendingDigest(t *testing.T) {
	pending := models.Booking{ID: "b1", VehicleID: "toyota-axio", Status: models.BookingStatusPending}

	bookingDB := mocksdb.NewBookingDatabase(t)
	bookingDB.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Booking{pending}, nil)

	st := store.New(mocksdb.NewVehicleDatabase(t), bookingDB, store.NewMemoryStorage())
	notifier := &recordingNotifier{}

	s := scheduler.NewScheduler(bookingDB, store.NewMemoryStorage(), st, notifier)
	s.SendPendingDigest()

	require.Len(t, notifier.digests, 1)
	require.Len(t, notifier.digests[0], 1)
	assert.Equal(t, "b1", notifier.digests[0][0].ID)
}

func TestScheduler_SendPendingDigestSkipsWhenEmpty(t *testing.T) {
	bookingDB := mocksdb.NewBookingDatabase(t)
	bookingDB.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Booking{}, nil)

	st := store.New(mocksdb.NewVehicleDatabase(t), bookingDB, store.NewMemoryStorage())
	notifier := &recordingNotifier{}

	s := scheduler.NewScheduler(bookingDB, store.NewMemoryStorage(), st, notifier)
	s.SendPendingDigest()

	assert.Empty(t, notifier.digests)
}

func TestScheduler_SendPendingDigestErrorTolerated(t *testing.T) {
	bookingDB := mocksdb.NewBookingDatabase(t)
	bookingDB.On("Find", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("mocked-error"))

	st := store.New(mocksdb.NewVehicleDatabase(t), bookingDB, store.NewMemoryStorage())
	notifier := &recordingNotifier{}

	s := scheduler.NewScheduler(bookingDB, store.NewMemoryStorage(), st, notifier)
	s.SendPendingDigest()

	assert.Empty(t, notifier.digests)
}
