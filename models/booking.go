package models

import (
	"strings"
	"time"
)

// BookingStatus is the canonical lifecycle state of a booking. Persisted
// values are always the upper-case form; lower-case is display-only.
type BookingStatus string

const (
	StatusPending    BookingStatus = "PENDING"
	StatusConfirmed  BookingStatus = "CONFIRMED"
	StatusInProgress BookingStatus = "IN_PROGRESS"
	StatusCompleted  BookingStatus = "COMPLETED"
	StatusCancelled  BookingStatus = "CANCELLED"
	StatusRejected   BookingStatus = "REJECTED"
)

// ParseBookingStatus normalizes user input ("confirmed", "Confirmed") to the
// canonical enum. The bool reports whether the value is a known status.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusConfirmed:
		return StatusConfirmed, true
	case StatusInProgress:
		return StatusInProgress, true
	case StatusCompleted:
		return StatusCompleted, true
	case StatusCancelled:
		return StatusCancelled, true
	case StatusRejected:
		return StatusRejected, true
	}
	return "", false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRejected
}

// Booking is a customer's service request. Bookings are never deleted;
// cancellation is a state, not a removal.
type Booking struct {
	ID             string        `bson:"id" json:"id"`
	CustomerID     string        `bson:"customer_id" json:"customerId"`
	TechnicianID   string        `bson:"technician_id,omitempty" json:"technicianId,omitempty"` // empty until assigned
	ServiceID      string        `bson:"service_id" json:"serviceId"`
	LocationID     string        `bson:"location_id" json:"locationId"`
	AvailabilityID string        `bson:"availability_id,omitempty" json:"availabilityId,omitempty"`
	Status         BookingStatus `bson:"status" json:"status"`
	ScheduledAt    *time.Time    `bson:"scheduled_at,omitempty" json:"scheduledAt,omitempty"`
	EstimatedHours int           `bson:"estimated_hours,omitempty" json:"estimatedHours,omitempty"`
	TotalPrice     float64       `bson:"total_price" json:"totalPrice"`
	CustomerNotes  string        `bson:"customer_notes,omitempty" json:"customerNotes,omitempty"`
	CreatedAt      time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time     `bson:"updated_at" json:"updatedAt"`
	CompletedAt    *time.Time    `bson:"completed_at,omitempty" json:"completedAt,omitempty"` // set only on COMPLETED
	CancelledAt    *time.Time    `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"` // set only on CANCELLED
}

// BookingInput is the request body for creating a booking.
type BookingInput struct {
	ServiceID      string     `json:"serviceId" binding:"required"`
	LocationID     string     `json:"locationId" binding:"required"`
	AvailabilityID string     `json:"availabilityId"`
	TechnicianID   string     `json:"technicianId"`
	ScheduledAt    *time.Time `json:"scheduledAt"`
	EstimatedHours int        `json:"estimatedHours"`
	TotalPrice     float64    `json:"totalPrice"`
	CustomerNotes  string     `json:"customerNotes"`
}
