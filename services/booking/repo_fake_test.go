package booking

import (
	"strings"
	"sync"
	"time"

	bookingRepo "fieldserve/database/repository/booking"
	technicianRepo "fieldserve/database/repository/technician"
	"fieldserve/models"
)

// fakeBookingRepo is an in-memory BookingRepository with the same
// conditional-update semantics as the mongo implementation.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *fakeBookingRepo) Create(b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = *b
	return nil
}

func (r *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	copy := b
	return &copy, nil
}

func (r *fakeBookingRepo) List(filter bookingRepo.BookingFilter, page, limit int) ([]models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []models.Booking
	for _, b := range r.bookings {
		if filter.CustomerID != "" && b.CustomerID != filter.CustomerID {
			continue
		}
		if filter.TechnicianID != "" && b.TechnicianID != filter.TechnicianID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.ServiceID != "" && b.ServiceID != filter.ServiceID {
			continue
		}
		matched = append(matched, b)
	}
	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeBookingRepo) UpdateConditional(id string, pre bookingRepo.Precondition, change bookingRepo.StatusChange) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrPreconditionFailed
	}
	if pre.Status != "" && b.Status != pre.Status {
		return nil, bookingRepo.ErrPreconditionFailed
	}
	if pre.TechnicianUnset && b.TechnicianID != "" {
		return nil, bookingRepo.ErrPreconditionFailed
	}
	if pre.TechnicianID != "" && b.TechnicianID != pre.TechnicianID {
		return nil, bookingRepo.ErrPreconditionFailed
	}
	b.Status = change.Status
	b.UpdatedAt = change.UpdatedAt
	if change.TechnicianID != "" {
		b.TechnicianID = change.TechnicianID
	}
	if change.CompletedAt != nil {
		b.CompletedAt = change.CompletedAt
	}
	if change.CancelledAt != nil {
		b.CancelledAt = change.CancelledAt
	}
	r.bookings[id] = b
	copy := b
	return &copy, nil
}

func (r *fakeBookingRepo) FindOverlapping(technicianID string, start, end time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.TechnicianID != technicianID {
			continue
		}
		if b.Status != models.StatusConfirmed && b.Status != models.StatusInProgress {
			continue
		}
		if b.ScheduledAt == nil {
			continue
		}
		hours := b.EstimatedHours
		if hours <= 0 {
			hours = 1
		}
		bEnd := b.ScheduledAt.Add(time.Duration(hours) * time.Hour)
		if b.ScheduledAt.Before(end) && bEnd.After(start) {
			out = append(out, b)
		}
	}
	return out, nil
}

// fakeTechnicianRepo is an in-memory TechnicianRepository.
type fakeTechnicianRepo struct {
	mu          sync.Mutex
	technicians map[string]models.Technician
}

func newFakeTechnicianRepo() *fakeTechnicianRepo {
	return &fakeTechnicianRepo{technicians: make(map[string]models.Technician)}
}

func (r *fakeTechnicianRepo) GetByID(id string) (*models.Technician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.technicians[id]
	if !ok {
		return nil, technicianRepo.ErrNotFound
	}
	copy := t
	return &copy, nil
}

func (r *fakeTechnicianRepo) GetByUserID(userID string) (*models.Technician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.technicians {
		if t.UserID == userID {
			copy := t
			return &copy, nil
		}
	}
	return nil, technicianRepo.ErrNotFound
}

func (r *fakeTechnicianRepo) FindEligible(criteria technicianRepo.EligibilityCriteria) ([]models.Technician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Technician
	for _, t := range r.technicians {
		if !t.Eligible() {
			continue
		}
		if criteria.ServiceType != "" &&
			!strings.Contains(strings.ToLower(t.Specialization), strings.ToLower(criteria.ServiceType)) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTechnicianRepo) Create(t *models.Technician) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.technicians[t.ID] = *t
	return nil
}

func (r *fakeTechnicianRepo) UpdateLocation(userID string, lat, lng float64) (*models.Technician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.technicians {
		if t.UserID == userID {
			now := time.Now().UTC()
			t.Latitude = &lat
			t.Longitude = &lng
			t.LastLocationUpdate = &now
			r.technicians[id] = t
			copy := t
			return &copy, nil
		}
	}
	return nil, technicianRepo.ErrNotFound
}

func (r *fakeTechnicianRepo) SetAvailability(userID string, available bool) (*models.Technician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.technicians {
		if t.UserID == userID {
			t.IsAvailable = available
			r.technicians[id] = t
			copy := t
			return &copy, nil
		}
	}
	return nil, technicianRepo.ErrNotFound
}

// test fixtures

func floatPtr(f float64) *float64 { return &f }

func approvedTechnician(id string, lat, lng float64) models.Technician {
	return models.Technician{
		ID:             id,
		UserID:         "user-" + id,
		Name:           "Tech " + id,
		Specialization: "Electrical",
		Rate:           15,
		IsActive:       true,
		IsAvailable:    true,
		ApprovalStatus: models.ApprovalApproved,
		Latitude:       floatPtr(lat),
		Longitude:      floatPtr(lng),
	}
}
