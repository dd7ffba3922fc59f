package models

// Role is the authenticated actor's role as asserted by the auth collaborator.
type Role string

const (
	RoleCustomer   Role = "CUSTOMER"
	RoleTechnician Role = "TECHNICIAN"
	RoleAdmin      Role = "ADMIN"
)

// Principal is the authenticated actor attached to every protected request.
// Credential issuance and session verification live outside this service; we
// only verify the bearer token and read these two claims.
type Principal struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}
