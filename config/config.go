package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// DefaultBookingCreateTimeout bounds the remote write during booking creation.
// On expiry the submission flow proceeds optimistically.
const DefaultBookingCreateTimeout = 8 * time.Second

// Config holds the project config values
type Config struct {
	URL               string
	DatabaseName      string
	BaseURL           string
	Port              string
	FallbackStorePath string
	SendgridAPIKey    string
	StaffNotifyEmail  string
	BookingTimeout    time.Duration
}

// New sets up all config related services
func New() *Config {

	// load a local .env when present, real env always wins
	_ = godotenv.Load()

	//setup zap logger and replace default logger
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:               os.Getenv("DB_URI"),
		DatabaseName:      os.Getenv("DB_NAME"),
		BaseURL:           os.Getenv("BASE_URL"),
		Port:              os.Getenv("PORT"),
		FallbackStorePath: os.Getenv("FALLBACK_STORE_PATH"),
		SendgridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		StaffNotifyEmail:  os.Getenv("STAFF_NOTIFY_EMAIL"),
		BookingTimeout:    bookingTimeout(),
	}
}

func bookingTimeout() time.Duration {
	raw := os.Getenv("BOOKING_CREATE_TIMEOUT_SECONDS")
	if raw == "" {
		return DefaultBookingCreateTimeout
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		zap.S().Warnf("invalid BOOKING_CREATE_TIMEOUT_SECONDS %q, using default", raw)
		return DefaultBookingCreateTimeout
	}
	return time.Duration(secs) * time.Second
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	w.Write([]byte(fmt.Sprintf(`{"response": "%s, %v"}`, message, err)))
}
