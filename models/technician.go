package models

import "time"

// ApprovalStatus is the admin-controlled vetting state of a technician.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// Technician is a field technician profile. Coordinates are pointers because
// a technician without a reported location is excluded from matching, not
// treated as being at (0, 0).
type Technician struct {
	ID                 string         `bson:"id" json:"id"`
	UserID             string         `bson:"user_id" json:"userId"`
	Name               string         `bson:"name" json:"name"`
	Phone              string         `bson:"phone,omitempty" json:"phone,omitempty"`
	ProfileImage       string         `bson:"profile_image,omitempty" json:"profileImage,omitempty"`
	Specialization     string         `bson:"specialization" json:"specialization"`
	Experience         int            `bson:"experience" json:"experience"` // years
	Rate               float64        `bson:"rate" json:"rate"`             // hourly
	IsActive           bool           `bson:"is_active" json:"isActive"`
	IsAvailable        bool           `bson:"is_available" json:"isAvailable"`
	ApprovalStatus     ApprovalStatus `bson:"approval_status" json:"approvalStatus"`
	Latitude           *float64       `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude          *float64       `bson:"longitude,omitempty" json:"longitude,omitempty"`
	LastLocationUpdate *time.Time     `bson:"last_location_update,omitempty" json:"lastLocationUpdate,omitempty"`
}

// Eligible reports whether the technician can be surfaced by matching:
// approved, active, available, and with known coordinates.
func (t *Technician) Eligible() bool {
	return t.ApprovalStatus == ApprovalApproved &&
		t.IsActive &&
		t.IsAvailable &&
		t.Latitude != nil && t.Longitude != nil
}
