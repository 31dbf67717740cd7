package templates

import (
	"fmt"
	"html"
	"strings"
)

// BookingEmailRow holds the per-booking fields rendered into digest tables
type BookingEmailRow struct {
	VehicleName  string
	CustomerName string
	StartDate    string
	EndDate      string
	TotalPrice   string
}

// RenderNewBookingEmail generates the HTML for the staff notification sent
// when a booking request comes in.
func RenderNewBookingEmail(vehicleName, customerName, phoneNumber, startDate, endDate, totalPrice string) string {
	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>New Booking Request - Ceylon Explorer</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f4f6f8; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
    .header { background: linear-gradient(135deg, #0d9488 0%%, #065f46 100%%); padding: 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 22px; font-weight: 700; }
    .content { padding: 30px; color: #1f2937; }
    .info-grid { display: table; width: 100%%; margin: 20px 0; }
    .info-row { display: table-row; }
    .info-label { display: table-cell; padding: 10px 15px 10px 0; color: #6b7280; font-size: 14px; width: 40%%; }
    .info-value { display: table-cell; padding: 10px 0; color: #111827; font-size: 14px; font-weight: 600; }
    .alert-box { background: rgba(13, 148, 136, 0.08); border: 1px solid rgba(13, 148, 136, 0.3); border-radius: 8px; padding: 15px; margin: 20px 0; }
    .alert-box p { margin: 0; color: #0d9488; font-size: 14px; }
    .footer { padding: 20px 30px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid #e5e7eb; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>🚐 New Booking Request</h1>
    </div>
    <div class="content">
      <p>A new booking request is waiting for review in the admin dashboard.</p>
      <div class="info-grid">
        <div class="info-row"><div class="info-label">Vehicle</div><div class="info-value">%s</div></div>
        <div class="info-row"><div class="info-label">Customer</div><div class="info-value">%s</div></div>
        <div class="info-row"><div class="info-label">Phone</div><div class="info-value">%s</div></div>
        <div class="info-row"><div class="info-label">Pick-up Date</div><div class="info-value">%s</div></div>
        <div class="info-row"><div class="info-label">Return Date</div><div class="info-value">%s</div></div>
        <div class="info-row"><div class="info-label">Total Price</div><div class="info-value">%s</div></div>
      </div>
      <div class="alert-box">
        <p>The booking stays PENDING until a staff member approves or rejects it.</p>
      </div>
    </div>
    <div class="footer">
      <p>&copy; Ceylon Explorer | <a href="https://www.ceylonexplorer.lk">ceylonexplorer.lk</a></p>
    </div>
  </div>
</body>
</html>`,
		html.EscapeString(vehicleName),
		html.EscapeString(customerName),
		html.EscapeString(phoneNumber),
		html.EscapeString(startDate),
		html.EscapeString(endDate),
		html.EscapeString(totalPrice))
}

// RenderPendingDigestEmail generates the HTML for the daily summary of
// bookings still waiting on a decision.
func RenderPendingDigestEmail(rows []BookingEmailRow) string {
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf(`        <tr>
          <td>%s</td>
          <td>%s</td>
          <td>%s &ndash; %s</td>
          <td>%s</td>
        </tr>
`,
			html.EscapeString(row.VehicleName),
			html.EscapeString(row.CustomerName),
			html.EscapeString(row.StartDate),
			html.EscapeString(row.EndDate),
			html.EscapeString(row.TotalPrice)))
	}

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>Pending Bookings Digest - Ceylon Explorer</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f4f6f8; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
    .header { background: linear-gradient(135deg, #0d9488 0%%, #065f46 100%%); padding: 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 22px; font-weight: 700; }
    .content { padding: 30px; color: #1f2937; }
    table { width: 100%%; border-collapse: collapse; font-size: 14px; }
    th { text-align: left; color: #6b7280; padding: 8px 6px; border-bottom: 2px solid #e5e7eb; }
    td { padding: 8px 6px; border-bottom: 1px solid #e5e7eb; color: #111827; }
    .footer { padding: 20px 30px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid #e5e7eb; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>📋 %d Booking(s) Awaiting Review</h1>
    </div>
    <div class="content">
      <p>These booking requests are still PENDING. Please approve or reject them in the admin dashboard.</p>
      <table>
        <tr>
          <th>Vehicle</th>
          <th>Customer</th>
          <th>Dates</th>
          <th>Total</th>
        </tr>
%s      </table>
    </div>
    <div class="footer">
      <p>&copy; Ceylon Explorer | <a href="https://www.ceylonexplorer.lk">ceylonexplorer.lk</a></p>
    </div>
  </div>
</body>
</html>`, len(rows), sb.String())
}
