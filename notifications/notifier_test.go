package notifications_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ceylonexplorer/rental-api/config"
	"github.com/ceylonexplorer/rental-api/models"
	"github.com/ceylonexplorer/rental-api/notifications"
)

func TestNewFromConfig(t *testing.T) {
	n := notifications.NewFromConfig(&config.Config{})
	assert.IsType(t, notifications.Noop{}, n)

	n = notifications.NewFromConfig(&config.Config{
		SendgridAPIKey:   "SG.test",
		StaffNotifyEmail: "staff@ceylonexplorer.lk",
	})
	assert.IsType(t, &notifications.EmailNotifier{}, n)
}

func TestNoopNeverErrors(t *testing.T) {
	n := notifications.Noop{}
	assert.NoError(t, n.BookingCreated(models.Booking{}))
	assert.NoError(t, n.PendingDigest(nil))
}
