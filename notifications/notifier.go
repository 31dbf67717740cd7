package notifications

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/ceylonexplorer/rental-api/config"
	"github.com/ceylonexplorer/rental-api/models"
	templates "github.com/ceylonexplorer/rental-api/templates/html"
)

// Notifier delivers staff-facing booking notifications. Implementations are
// best-effort: callers fire them off a goroutine and never block a request on
// delivery.
type Notifier interface {
	BookingCreated(booking models.Booking) error
	PendingDigest(bookings []models.Booking) error
}

// NewFromConfig returns a SendGrid-backed notifier when an API key and staff
// address are configured, otherwise a no-op one.
func NewFromConfig(conf *config.Config) Notifier {
	if conf.SendgridAPIKey == "" || conf.StaffNotifyEmail == "" {
		zap.S().Warn("sendgrid not configured, staff booking notifications disabled")
		return Noop{}
	}
	return &EmailNotifier{
		apiKey:     conf.SendgridAPIKey,
		staffEmail: conf.StaffNotifyEmail,
	}
}

// EmailNotifier sends booking notifications to the staff inbox via SendGrid
type EmailNotifier struct {
	apiKey     string
	staffEmail string
}

func (n *EmailNotifier) BookingCreated(booking models.Booking) error {
	subject := fmt.Sprintf("New booking request: %s (%s to %s)",
		booking.VehicleName, booking.StartDate, booking.EndDate)
	htmlContent := templates.RenderNewBookingEmail(
		booking.VehicleName,
		booking.CustomerName,
		booking.PhoneNumber,
		booking.StartDate,
		booking.EndDate,
		fmt.Sprintf("$%.2f", booking.TotalPrice),
	)
	plainText := fmt.Sprintf("New booking request for %s by %s, %s to %s, total $%.2f. Review it in the admin dashboard.",
		booking.VehicleName, booking.CustomerName, booking.StartDate, booking.EndDate, booking.TotalPrice)
	return n.send(subject, htmlContent, plainText)
}

func (n *EmailNotifier) PendingDigest(bookings []models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	rows := make([]templates.BookingEmailRow, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, templates.BookingEmailRow{
			VehicleName:  b.VehicleName,
			CustomerName: b.CustomerName,
			StartDate:    b.StartDate,
			EndDate:      b.EndDate,
			TotalPrice:   fmt.Sprintf("$%.2f", b.TotalPrice),
		})
	}
	subject := fmt.Sprintf("%d booking request(s) awaiting review", len(bookings))
	plainText := fmt.Sprintf("%d booking request(s) are still pending. Review them in the admin dashboard.", len(bookings))
	return n.send(subject, templates.RenderPendingDigestEmail(rows), plainText)
}

func (n *EmailNotifier) send(subject, htmlContent, plainText string) error {
	from := mail.NewEmail("Ceylon Explorer", "no-reply@ceylonexplorer.lk")
	to := mail.NewEmail("Ceylon Explorer Staff", n.staffEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(n.apiKey)
	response, err := client.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send staff notification", "error", err, "subject", subject)
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	zap.S().Infow("staff notification sent", "subject", subject)
	return nil
}

// Noop is used when SendGrid is not configured
type Noop struct{}

func (Noop) BookingCreated(models.Booking) error  { return nil }
func (Noop) PendingDigest([]models.Booking) error { return nil }
