package bookingRepo

import (
	"errors"
	"time"

	"fieldserve/models"
)

// ErrNotFound is returned when no booking matches the given id.
var ErrNotFound = errors.New("booking not found")

// ErrPreconditionFailed is returned by UpdateConditional when the stored
// booking no longer matches the expected pre-image. Callers treat this as a
// lost race or an illegal transition, never as a silent no-op.
var ErrPreconditionFailed = errors.New("booking precondition failed")

// BookingFilter narrows a booking list query. Zero values mean "no filter".
type BookingFilter struct {
	CustomerID   string
	TechnicianID string
	Status       models.BookingStatus
	ServiceID    string
	Search       string // substring match on customer notes
	StartDate    *time.Time
	EndDate      *time.Time
}

// Precondition is the pre-image a conditional update must still match.
type Precondition struct {
	Status models.BookingStatus
	// TechnicianUnset requires the booking to have no assigned technician.
	TechnicianUnset bool
	// TechnicianID, when set, requires the booking to be assigned to exactly
	// this technician.
	TechnicianID string
}

// StatusChange is the field set written atomically with a transition.
type StatusChange struct {
	Status       models.BookingStatus
	TechnicianID string // written only when non-empty
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	UpdatedAt    time.Time
}

// BookingRepository defines persistence for bookings. Implementations must
// make UpdateConditional atomic: the status write and its precondition check
// happen in a single operation.
type BookingRepository interface {
	// Create inserts a new booking record.
	Create(booking *models.Booking) error
	// GetByID retrieves a booking by its unique ID.
	GetByID(id string) (*models.Booking, error)
	// List returns a page of bookings matching the filter plus the total
	// match count. page is 1-based.
	List(filter BookingFilter, page, limit int) ([]models.Booking, int64, error)
	// UpdateConditional applies change only if the stored booking still
	// matches pre, returning the updated booking. Returns
	// ErrPreconditionFailed when zero documents match.
	UpdateConditional(id string, pre Precondition, change StatusChange) (*models.Booking, error)
	// FindOverlapping returns active (CONFIRMED or IN_PROGRESS) bookings
	// assigned to the technician whose scheduled window overlaps
	// [start, end).
	FindOverlapping(technicianID string, start, end time.Time) ([]models.Booking, error)
}
