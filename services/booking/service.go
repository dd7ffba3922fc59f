package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "fieldserve/database/repository/booking"
	technicianRepo "fieldserve/database/repository/technician"
	"fieldserve/models"
	"fieldserve/services/notification"
	"fieldserve/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService wires the state machine, assignment coordinator and
// projector behind the BookingService interface.
type DefaultBookingService struct {
	Bookings    bookingRepo.BookingRepository
	Technicians technicianRepo.TechnicianRepository
	Machine     *StateMachine
	Coordinator *AssignmentCoordinator
	Catalog     Catalog
	Notifier    notification.Notifier
}

// NewDefaultBookingService assembles the service with its collaborators.
func NewDefaultBookingService(
	bookings bookingRepo.BookingRepository,
	technicians technicianRepo.TechnicianRepository,
	catalog Catalog,
	notifier notification.Notifier,
) *DefaultBookingService {
	return &DefaultBookingService{
		Bookings:    bookings,
		Technicians: technicians,
		Machine:     &StateMachine{Repo: bookings},
		Coordinator: &AssignmentCoordinator{Bookings: bookings, Technicians: technicians},
		Catalog:     catalog,
		Notifier:    notifier,
	}
}

// Create opens a new booking in PENDING. A supplied technicianId is validated
// against the directory but does not confirm the booking; confirmation only
// happens through the technician accepting or an admin assignment.
func (s *DefaultBookingService) Create(p models.Principal, input models.BookingInput) (*models.BookingView, error) {
	if input.EstimatedHours < 0 {
		return nil, NewValidationError("estimatedHours must be a positive integer")
	}
	if input.TotalPrice < 0 {
		return nil, NewValidationError("totalPrice cannot be negative")
	}

	var technician *models.Technician
	if input.TechnicianID != "" {
		var err error
		technician, err = requireEligibleTechnician(s.Technicians, input.TechnicianID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:             uuid.New().String(),
		CustomerID:     p.ID,
		TechnicianID:   input.TechnicianID,
		ServiceID:      input.ServiceID,
		LocationID:     input.LocationID,
		AvailabilityID: input.AvailabilityID,
		Status:         models.StatusPending,
		ScheduledAt:    input.ScheduledAt,
		EstimatedHours: input.EstimatedHours,
		TotalPrice:     input.TotalPrice,
		CustomerNotes:  input.CustomerNotes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Bookings.Create(booking); err != nil {
		utils.GetLogger().Error("failed to persist booking", zap.Error(err))
		return nil, NewUpstreamError(err)
	}

	s.notify(p.ID, "Booking received",
		fmt.Sprintf("Your service request %s has been received and is pending confirmation.", booking.ID))

	view := ProjectBooking(booking, technician, s.Catalog)
	return &view, nil
}

func (s *DefaultBookingService) Get(p models.Principal, id string) (*models.BookingView, error) {
	booking, err := s.loadBooking(id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(p, ActionView, OwnershipOf(p, booking)); err != nil {
		return nil, err
	}
	view := ProjectBooking(booking, s.relatedTechnician(booking), s.Catalog)
	return &view, nil
}

func (s *DefaultBookingService) List(p models.Principal, q ListQuery) (*models.Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}

	filter := bookingRepo.BookingFilter{
		ServiceID: q.Category,
		Search:    q.Search,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	}
	if q.Status != "" {
		status, ok := models.ParseBookingStatus(q.Status)
		if !ok {
			return nil, NewValidationError(fmt.Sprintf("unknown booking status %q", q.Status))
		}
		filter.Status = status
	}

	// Non-admin callers only ever see their own bookings.
	if Authorize(p, ActionListAll, Ownership{}) != nil {
		switch p.Role {
		case models.RoleTechnician:
			filter.TechnicianID = p.ID
		default:
			filter.CustomerID = p.ID
		}
	}

	bookings, total, err := s.Bookings.List(filter, q.Page, q.Limit)
	if err != nil {
		utils.GetLogger().Error("failed to list bookings", zap.Error(err))
		return nil, NewUpstreamError(err)
	}

	technicians := s.relatedTechnicians(bookings)
	views := make([]models.BookingView, 0, len(bookings))
	for i := range bookings {
		views = append(views, ProjectBooking(&bookings[i], technicians[bookings[i].TechnicianID], s.Catalog))
	}
	page := models.NewPage(views, q.Page, q.Limit, total)
	return &page, nil
}

func (s *DefaultBookingService) ChangeStatus(p models.Principal, id, status string) (*models.BookingView, error) {
	updated, err := s.Machine.Transition(p, id, status)
	if err != nil {
		return nil, err
	}

	switch updated.Status {
	case models.StatusConfirmed:
		s.notify(updated.CustomerID, "Booking confirmed",
			fmt.Sprintf("Your booking %s has been confirmed.", updated.ID))
	case models.StatusCancelled:
		s.notify(updated.CustomerID, "Booking cancelled",
			fmt.Sprintf("Your booking %s has been cancelled.", updated.ID))
	case models.StatusCompleted:
		s.notify(updated.CustomerID, "Service completed",
			fmt.Sprintf("Your booking %s has been marked completed.", updated.ID))
	}

	view := ProjectBooking(updated, s.relatedTechnician(updated), s.Catalog)
	return &view, nil
}

func (s *DefaultBookingService) Cancel(p models.Principal, id string) (*models.BookingView, error) {
	return s.ChangeStatus(p, id, string(models.StatusCancelled))
}

func (s *DefaultBookingService) AssignTechnician(p models.Principal, id, technicianID string) (*models.BookingView, error) {
	updated, err := s.Coordinator.Assign(p, id, technicianID)
	if err != nil {
		return nil, err
	}

	s.notify(updated.CustomerID, "Technician assigned",
		fmt.Sprintf("A technician has been assigned to your booking %s.", updated.ID))
	s.notify(technicianID, "New assignment",
		fmt.Sprintf("You have been assigned booking %s.", updated.ID))

	view := ProjectBooking(updated, s.relatedTechnician(updated), s.Catalog)
	return &view, nil
}

func (s *DefaultBookingService) loadBooking(id string) (*models.Booking, error) {
	booking, err := s.Bookings.GetByID(id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("booking %s not found", id))
		}
		utils.GetLogger().Error("failed to load booking", zap.String("bookingId", id), zap.Error(err))
		return nil, NewUpstreamError(err)
	}
	return booking, nil
}

// relatedTechnician resolves the assigned technician for projection. Lookup
// failures degrade to an absent summary rather than failing the request.
func (s *DefaultBookingService) relatedTechnician(b *models.Booking) *models.Technician {
	if b.TechnicianID == "" {
		return nil
	}
	technician, err := s.Technicians.GetByID(b.TechnicianID)
	if err != nil {
		utils.GetLogger().Warn("could not resolve technician for view",
			zap.String("technicianId", b.TechnicianID), zap.Error(err))
		return nil
	}
	return technician
}

// relatedTechnicians batch-resolves the distinct technicians referenced by a
// page of bookings.
func (s *DefaultBookingService) relatedTechnicians(bookings []models.Booking) map[string]*models.Technician {
	out := make(map[string]*models.Technician)
	for i := range bookings {
		id := bookings[i].TechnicianID
		if id == "" {
			continue
		}
		if _, seen := out[id]; seen {
			continue
		}
		out[id] = s.relatedTechnician(&bookings[i])
	}
	return out
}

// notify hands a message to the delivery collaborator, best effort.
func (s *DefaultBookingService) notify(recipient, subject, body string) {
	if s.Notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Notifier.Notify(ctx, recipient, subject, body); err != nil {
		utils.GetLogger().Warn("notification delivery failed",
			zap.String("recipient", recipient), zap.Error(err))
	}
}
