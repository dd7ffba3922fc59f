package technicianRepo

import (
	"errors"

	"fieldserve/models"
)

// ErrNotFound is returned when no technician matches the given id.
var ErrNotFound = errors.New("technician not found")

// EligibilityCriteria narrows the set of technicians surfaced to matching.
type EligibilityCriteria struct {
	// ServiceType, when set, is matched case-insensitively as a substring of
	// the technician's specialization.
	ServiceType string
}

// TechnicianRepository is the read/write surface of the technician directory.
// Matching only ever consumes FindEligible; the remaining methods back the
// technician self-service endpoints and admin tooling.
type TechnicianRepository interface {
	// GetByID retrieves a technician by its unique ID.
	GetByID(id string) (*models.Technician, error)
	// GetByUserID retrieves the technician profile owned by a user.
	GetByUserID(userID string) (*models.Technician, error)
	// FindEligible returns technicians that are approved, active, available
	// and carry coordinates, optionally filtered by service type.
	FindEligible(criteria EligibilityCriteria) ([]models.Technician, error)
	// Create inserts a new technician record.
	Create(technician *models.Technician) error
	// UpdateLocation stores fresh coordinates for the technician owned by
	// userID and stamps lastLocationUpdate.
	UpdateLocation(userID string, lat, lng float64) (*models.Technician, error)
	// SetAvailability flips the availability toggle for the technician owned
	// by userID.
	SetAvailability(userID string, available bool) (*models.Technician, error)
}
