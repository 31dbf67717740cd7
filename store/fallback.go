package store

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ceylonexplorer/rental-api/models"
)

// fallbackKey is the single fixed key the booking list is serialized under.
const fallbackKey = "fallback_bookings_v1"

// DefaultFallbackPath is used when no FALLBACK_STORE_PATH is configured
const DefaultFallbackPath = "fallback_bookings.json"

// FallbackStorage persists the local booking list used while the remote
// collections are unreachable. The list is process-local: bookings created or
// mutated in fallback mode are only visible to this instance.
type FallbackStorage interface {
	Load() ([]models.Booking, error)
	Save(bookings []models.Booking) error
}

// FileStorage keeps the booking list as one JSON document on disk, seeded
// with example bookings on first load.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

// NewFileStorage returns a file-backed fallback storage at path
func NewFileStorage(path string) *FileStorage {
	if path == "" {
		path = DefaultFallbackPath
	}
	return &FileStorage{path: path}
}

func (f *FileStorage) Load() ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		seed := SeedBookings()
		if err := f.write(seed); err != nil {
			return nil, err
		}
		zap.S().Infow("seeded fallback booking store", "path", f.path, "count", len(seed))
		return seed, nil
	}
	if err != nil {
		return nil, err
	}

	var doc map[string][]models.Booking
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc[fallbackKey], nil
}

func (f *FileStorage) Save(bookings []models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(bookings)
}

func (f *FileStorage) write(bookings []models.Booking) error {
	raw, err := json.MarshalIndent(map[string][]models.Booking{fallbackKey: bookings}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, raw, 0o600)
}

// MemoryStorage is an in-memory FallbackStorage for tests
type MemoryStorage struct {
	mu       sync.Mutex
	bookings []models.Booking
}

// NewMemoryStorage returns a memory-backed fallback storage holding seed
func NewMemoryStorage(seed ...models.Booking) *MemoryStorage {
	return &MemoryStorage{bookings: seed}
}

func (m *MemoryStorage) Load() ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Booking, len(m.bookings))
	copy(out, m.bookings)
	return out, nil
}

func (m *MemoryStorage) Save(bookings []models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = make([]models.Booking, len(bookings))
	copy(m.bookings, bookings)
	return nil
}

// SeedBookings returns the example bookings the fallback store starts with.
// Seed ids carry no "local-" prefix so the flush job never pushes them to the
// remote collections.
func SeedBookings() []models.Booking {
	now := time.Now().UTC()
	return []models.Booking{
		{
			ID:              "seed-1",
			VehicleID:       "deepol-s05",
			VehicleName:     "Deepol S05",
			StartDate:       "2026-06-15",
			EndDate:         "2026-06-20",
			CustomerName:    "John Doe",
			CustomerEmail:   "john@example.com",
			PhoneNumber:     "+94 77 123 4567",
			PickupLocation:  "Colombo",
			DropoffLocation: "Kandy",
			Notes:           "Looking for a reliable car.",
			Status:          models.BookingStatusPending,
			TotalPrice:      225,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:              "seed-2",
			VehicleID:       "toyota-axio",
			VehicleName:     "Toyota Axio",
			StartDate:       "2026-07-01",
			EndDate:         "2026-07-05",
			CustomerName:    "Jane Smith",
			CustomerEmail:   "jane@test.com",
			PhoneNumber:     "+94 71 987 6543",
			PickupLocation:  "Kandy",
			DropoffLocation: "Colombo",
			Notes:           "Airport transfer needed.",
			Status:          models.BookingStatusPending,
			TotalPrice:      180,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:              "seed-3",
			VehicleID:       "toyota-hiace",
			VehicleName:     "Toyota HiAce",
			StartDate:       "2026-05-10",
			EndDate:         "2026-05-12",
			CustomerName:    "Alice Brown",
			CustomerEmail:   "alice@test.com",
			PhoneNumber:     "+94 70 111 2222",
			PickupLocation:  "Galle",
			DropoffLocation: "Matara",
			Status:          models.BookingStatusApproved,
			TotalPrice:      120,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}
}
