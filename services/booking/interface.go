package booking

import (
	"time"

	"fieldserve/models"
)

// ListQuery narrows and pages a booking list request.
type ListQuery struct {
	Page      int
	Limit     int
	Status    string
	Category  string
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

// BookingService is the application surface consumed by the HTTP handlers.
// Every method returns presentation views; persisted records never leave the
// service layer.
type BookingService interface {
	// Create opens a new PENDING booking for the principal.
	Create(p models.Principal, input models.BookingInput) (*models.BookingView, error)
	// Get returns one booking, subject to ownership checks.
	Get(p models.Principal, id string) (*models.BookingView, error)
	// List returns a page of bookings scoped to the principal unless ADMIN.
	List(p models.Principal, q ListQuery) (*models.Page, error)
	// ChangeStatus runs a guarded transition to the requested status.
	ChangeStatus(p models.Principal, id, status string) (*models.BookingView, error)
	// Cancel transitions the booking to CANCELLED; bookings are never hard
	// deleted.
	Cancel(p models.Principal, id string) (*models.BookingView, error)
	// AssignTechnician claims a technician for a pending booking (ADMIN).
	AssignTechnician(p models.Principal, id, technicianID string) (*models.BookingView, error)
}
