package models

// Page is the pagination envelope for list responses.
type Page struct {
	Items           any   `json:"items"`
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	TotalItems      int64 `json:"totalItems"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// NewPage computes the derived pagination fields from the raw counts.
// page is 1-based; limit must be positive.
func NewPage(items any, page, limit int, total int64) Page {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Page{
		Items:           items,
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalItems:      total,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1 && total > 0,
	}
}
