package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the fixed booking date format. Because it is fixed-width and
// zero-padded, well-formed dates compare correctly as plain strings.
const DateLayout = "2006-01-02"

// DateRangesOverlap reports whether two inclusive YYYY-MM-DD date ranges
// intersect. A shared boundary day counts as an overlap. Behavior on malformed
// input is undefined; callers validate with ValidDate first.
func DateRangesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart <= bEnd && bStart <= aEnd
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ChargeableDays returns the number of days billed for an inclusive date range.
// A zero-length span (start == end) still charges one day.
func ChargeableDays(startDate, endDate string) int {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return 1
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return 1
	}
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// TotalPrice computes pricePerDay times the chargeable days of the range,
// rounded to cents. Decimal arithmetic avoids float drift on multi-week sums.
func TotalPrice(pricePerDay float64, startDate, endDate string) float64 {
	days := ChargeableDays(startDate, endDate)
	total := decimal.NewFromFloat(pricePerDay).Mul(decimal.NewFromInt(int64(days)))
	f, _ := total.Round(2).Float64()
	return f
}
