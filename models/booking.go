package models

import "time"

// BookingStatus is the lifecycle state of a booking
type BookingStatus string

// Booking lifecycle states. PENDING is the only non-terminal state: an admin
// moves a booking to APPROVED or REJECTED, never back.
const (
	BookingStatusPending  BookingStatus = "PENDING"
	BookingStatusApproved BookingStatus = "APPROVED"
	BookingStatusRejected BookingStatus = "REJECTED"
)

// ActiveStatuses are the statuses that count toward date conflicts.
// REJECTED bookings never conflict.
var ActiveStatuses = []BookingStatus{BookingStatusPending, BookingStatusApproved}

// Valid reports whether s is one of the known lifecycle states
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected:
		return true
	}
	return false
}

// Active reports whether a booking in this status blocks other bookings
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusApproved
}

// Booking holds the structure for the bookings collection in mongo. StartDate
// and EndDate are inclusive calendar dates stored as YYYY-MM-DD strings.
// Remote ids are ObjectID hex; fallback-created ids carry a "local-" prefix.
type Booking struct {
	ID              string        `json:"id" bson:"_id"`
	VehicleID       string        `json:"vehicleId" bson:"vehicleId"`
	VehicleName     string        `json:"vehicleName" bson:"vehicleName"`
	StartDate       string        `json:"startDate" bson:"startDate"`
	EndDate         string        `json:"endDate" bson:"endDate"`
	CustomerName    string        `json:"customerName" bson:"customerName"`
	CustomerEmail   string        `json:"customerEmail" bson:"customerEmail"`
	PhoneNumber     string        `json:"phoneNumber" bson:"phoneNumber"`
	PickupLocation  string        `json:"pickupLocation" bson:"pickupLocation"`
	DropoffLocation string        `json:"dropoffLocation" bson:"dropoffLocation"`
	Notes           string        `json:"notes,omitempty" bson:"notes,omitempty"`
	Status          BookingStatus `json:"status" bson:"status"`
	AdminNote       string        `json:"adminNote,omitempty" bson:"adminNote,omitempty"`
	TotalPrice      float64       `json:"totalPrice" bson:"totalPrice"`
	CreatedAt       time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt" bson:"updatedAt"`
	ApprovedAt      *time.Time    `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
}

// OverlapsRange reports whether the booking's date range intersects the given
// inclusive range.
func (b Booking) OverlapsRange(startDate, endDate string) bool {
	return DateRangesOverlap(startDate, endDate, b.StartDate, b.EndDate)
}

// IsLocal reports whether the booking was created in the fallback store
func (b Booking) IsLocal() bool {
	return len(b.ID) > 6 && b.ID[:6] == "local-"
}
