package models

// TechnicianSummary is the denormalized technician block embedded in a
// booking view. Fields default to placeholders when the profile is sparse.
type TechnicianSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	ProfileImage   string `json:"profileImage"`
	Specialization string `json:"specialization,omitempty"`
}

// BookingView is the presentation shape of a booking. It is derived from the
// persisted record and never written back.
type BookingView struct {
	ID             string             `json:"id"`
	Status         string             `json:"status"` // lower-case display form
	Service        string             `json:"service"`
	Location       string             `json:"location"`
	Price          string             `json:"price"` // formatted with currency
	Date           string             `json:"date"`
	Time           string             `json:"time"`
	EstimatedHours int                `json:"estimatedHours,omitempty"`
	CustomerNotes  string             `json:"customerNotes,omitempty"`
	Technician     *TechnicianSummary `json:"technician,omitempty"`
	CreatedAt      string             `json:"createdAt"`
	UpdatedAt      string             `json:"updatedAt"`
}

// NearbyTechnician is one entry in a discovery response, ranked by distance.
type NearbyTechnician struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Specialization   string  `json:"specialization"`
	Rate             float64 `json:"rate"`
	Experience       int     `json:"experience"`
	ProfileImage     string  `json:"profileImage,omitempty"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	DistanceKm       float64 `json:"distanceKm"`
	EstimatedArrival string  `json:"estimatedArrival"`
}
