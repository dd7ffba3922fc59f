package booking

import (
	"errors"
	"fmt"
	"time"

	bookingRepo "fieldserve/database/repository/booking"
	"fieldserve/models"
	"fieldserve/utils"

	"go.uber.org/zap"
)

// transitionTable lists the permitted target states per current state and
// role. ADMIN is not listed: from any non-terminal state it may move to any
// other state, subject to the technician-presence check below.
var transitionTable = map[models.BookingStatus]map[models.Role][]models.BookingStatus{
	models.StatusPending: {
		models.RoleCustomer:   {models.StatusCancelled},
		models.RoleTechnician: {models.StatusConfirmed, models.StatusRejected},
	},
	models.StatusConfirmed: {
		models.RoleCustomer:   {models.StatusCancelled},
		models.RoleTechnician: {models.StatusInProgress, models.StatusCancelled},
	},
	models.StatusInProgress: {
		models.RoleCustomer:   {},
		models.RoleTechnician: {models.StatusCompleted, models.StatusCancelled},
	},
}

var allStatuses = []models.BookingStatus{
	models.StatusPending, models.StatusConfirmed, models.StatusInProgress,
	models.StatusCompleted, models.StatusCancelled, models.StatusRejected,
}

// AllowedTargets returns the target states a role may move a booking to from
// its current state. Terminal states have no outgoing edges for any role.
func AllowedTargets(current models.BookingStatus, role models.Role) []models.BookingStatus {
	if current.IsTerminal() {
		return nil
	}
	if role == models.RoleAdmin {
		var targets []models.BookingStatus
		for _, s := range allStatuses {
			if s != current {
				targets = append(targets, s)
			}
		}
		return targets
	}
	return transitionTable[current][role]
}

func transitionAllowed(current models.BookingStatus, role models.Role, target models.BookingStatus) bool {
	for _, t := range AllowedTargets(current, role) {
		if t == target {
			return true
		}
	}
	return false
}

// requiresTechnician reports whether a status is only valid on bookings with
// an assigned technician.
func requiresTechnician(s models.BookingStatus) bool {
	return s == models.StatusConfirmed || s == models.StatusInProgress || s == models.StatusCompleted
}

// StateMachine owns the transition table and guard evaluation for booking
// status changes.
type StateMachine struct {
	Repo bookingRepo.BookingRepository
}

// Transition moves a booking to the requested status on behalf of the
// principal. Guards run in order: existence, status syntax, authorization,
// table membership, then the conditional write carrying the side-effect
// timestamps. Any guard failure aborts with no partial write.
func (m *StateMachine) Transition(p models.Principal, bookingID, requested string) (*models.Booking, error) {
	current, err := m.Repo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("booking %s not found", bookingID))
		}
		utils.GetLogger().Error("failed to load booking", zap.String("bookingId", bookingID), zap.Error(err))
		return nil, NewUpstreamError(err)
	}

	target, ok := models.ParseBookingStatus(requested)
	if !ok {
		return nil, NewValidationError(fmt.Sprintf("unknown booking status %q", requested))
	}

	if err := Authorize(p, ActionTransition, OwnershipOf(p, current)); err != nil {
		return nil, err
	}

	if !transitionAllowed(current.Status, p.Role, target) {
		return nil, NewConflictError(fmt.Sprintf("cannot move booking from %s to %s as %s",
			current.Status, target, p.Role))
	}
	if requiresTechnician(target) && current.TechnicianID == "" {
		return nil, NewConflictError("booking has no assigned technician; assign one first")
	}

	change := bookingRepo.StatusChange{Status: target, UpdatedAt: time.Now().UTC()}
	now := change.UpdatedAt
	switch target {
	case models.StatusCompleted:
		change.CompletedAt = &now
	case models.StatusCancelled:
		change.CancelledAt = &now
	}

	// The pre-image filter makes the write all-or-nothing under concurrency:
	// a competing transition that landed first leaves zero matching rows.
	pre := bookingRepo.Precondition{Status: current.Status}
	updated, err := m.Repo.UpdateConditional(bookingID, pre, change)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrPreconditionFailed) {
			return nil, NewConflictError("booking was modified concurrently, please retry")
		}
		utils.GetLogger().Error("failed to update booking status",
			zap.String("bookingId", bookingID), zap.Error(err))
		return nil, NewUpstreamError(err)
	}
	return updated, nil
}
