package booking

import (
	"fmt"
	"strings"

	"fieldserve/models"
)

// Placeholders used when a related technician profile is sparse.
const (
	placeholderName  = "Technician"
	placeholderPhone = "Not provided"
	placeholderImage = "/images/default-avatar.png"
	notScheduled     = "Not scheduled"
)

// ProjectBooking maps a persisted booking plus its related records into the
// response shape. Presentation only; it never mutates its inputs.
func ProjectBooking(b *models.Booking, technician *models.Technician, catalog Catalog) models.BookingView {
	view := models.BookingView{
		ID:             b.ID,
		Status:         strings.ToLower(string(b.Status)),
		Service:        b.ServiceID,
		Location:       b.LocationID,
		Price:          fmt.Sprintf("%.2f RWF", b.TotalPrice),
		Date:           notScheduled,
		Time:           notScheduled,
		EstimatedHours: b.EstimatedHours,
		CustomerNotes:  b.CustomerNotes,
		CreatedAt:      b.CreatedAt.Format("2006-01-02 15:04"),
		UpdatedAt:      b.UpdatedAt.Format("2006-01-02 15:04"),
	}

	if catalog != nil {
		if name, ok := catalog.ServiceName(b.ServiceID); ok {
			view.Service = name
		}
		if name, ok := catalog.LocationName(b.LocationID); ok {
			view.Location = name
		}
	}

	if b.ScheduledAt != nil {
		view.Date = b.ScheduledAt.Format("2 January 2006")
		view.Time = b.ScheduledAt.Format("3:04 PM")
	}

	if technician != nil {
		view.Technician = projectTechnician(technician)
	}
	return view
}

func projectTechnician(t *models.Technician) *models.TechnicianSummary {
	summary := &models.TechnicianSummary{
		ID:             t.ID,
		Name:           t.Name,
		Phone:          t.Phone,
		ProfileImage:   t.ProfileImage,
		Specialization: t.Specialization,
	}
	if summary.Name == "" {
		summary.Name = placeholderName
	}
	if summary.Phone == "" {
		summary.Phone = placeholderPhone
	}
	if summary.ProfileImage == "" {
		summary.ProfileImage = placeholderImage
	}
	return summary
}
