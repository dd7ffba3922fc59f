package booking

import (
	"errors"
	"fmt"
	"time"

	bookingRepo "fieldserve/database/repository/booking"
	technicianRepo "fieldserve/database/repository/technician"
	"fieldserve/models"
	"fieldserve/utils"

	"go.uber.org/zap"
)

// AssignmentCoordinator claims a technician for a PENDING booking. Technician
// eligibility is re-checked at the moment of assignment, and the final write
// is conditional so that concurrent claims on the same booking cannot both
// succeed.
type AssignmentCoordinator struct {
	Bookings    bookingRepo.BookingRepository
	Technicians technicianRepo.TechnicianRepository
}

// Assign moves a PENDING, unassigned booking to CONFIRMED while atomically
// writing the technician id. Only ADMIN may call it.
func (c *AssignmentCoordinator) Assign(p models.Principal, bookingID, technicianID string) (*models.Booking, error) {
	booking, err := c.Bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("booking %s not found", bookingID))
		}
		utils.GetLogger().Error("failed to load booking for assignment",
			zap.String("bookingId", bookingID), zap.Error(err))
		return nil, NewUpstreamError(err)
	}

	if err := Authorize(p, ActionAssign, OwnershipOf(p, booking)); err != nil {
		return nil, err
	}

	technician, err := requireEligibleTechnician(c.Technicians, technicianID)
	if err != nil {
		return nil, err
	}

	// The technician must not already hold an active booking in an
	// overlapping window.
	if booking.ScheduledAt != nil {
		hours := booking.EstimatedHours
		if hours <= 0 {
			hours = 1
		}
		end := booking.ScheduledAt.Add(time.Duration(hours) * time.Hour)
		overlapping, err := c.Bookings.FindOverlapping(technician.ID, *booking.ScheduledAt, end)
		if err != nil {
			utils.GetLogger().Error("overlap lookup failed",
				zap.String("technicianId", technician.ID), zap.Error(err))
			return nil, NewUpstreamError(err)
		}
		if len(overlapping) > 0 {
			return nil, NewConflictError("technician already has a booking in that time window")
		}
	}

	// Single conditional write: commits only while the booking is still
	// PENDING and unassigned, so exactly one of two racing assignments wins.
	pre := bookingRepo.Precondition{Status: models.StatusPending, TechnicianUnset: true}
	change := bookingRepo.StatusChange{
		Status:       models.StatusConfirmed,
		TechnicianID: technician.ID,
		UpdatedAt:    time.Now().UTC(),
	}
	updated, err := c.Bookings.UpdateConditional(bookingID, pre, change)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrPreconditionFailed) {
			return nil, NewConflictError("booking is no longer pending or already has a technician")
		}
		utils.GetLogger().Error("assignment write failed",
			zap.String("bookingId", bookingID), zap.Error(err))
		return nil, NewUpstreamError(err)
	}
	return updated, nil
}

// requireEligibleTechnician loads the technician and checks eligibility at
// the moment of use; eligibility may have changed since discovery.
func requireEligibleTechnician(repo technicianRepo.TechnicianRepository, technicianID string) (*models.Technician, error) {
	if technicianID == "" {
		return nil, NewValidationError("technicianId is required")
	}
	technician, err := repo.GetByID(technicianID)
	if err != nil {
		if errors.Is(err, technicianRepo.ErrNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("technician %s not found", technicianID))
		}
		utils.GetLogger().Error("failed to load technician",
			zap.String("technicianId", technicianID), zap.Error(err))
		return nil, NewUpstreamError(err)
	}
	if technician.ApprovalStatus != models.ApprovalApproved || !technician.IsActive {
		return nil, NewValidationError("technician is not approved for assignments")
	}
	if !technician.IsAvailable {
		return nil, NewConflictError("technician is currently unavailable")
	}
	return technician, nil
}
