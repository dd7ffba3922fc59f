package booking

import "fieldserve/models"

// Action is an operation the Authorization Policy can rule on.
type Action string

const (
	ActionView       Action = "view"
	ActionListAll    Action = "list_all"
	ActionTransition Action = "transition"
	ActionAssign     Action = "assign"
)

// Ownership is the relationship between a principal and a booking.
type Ownership struct {
	IsOwner    bool // principal created the booking
	IsAssignee bool // principal is the assigned technician
}

// OwnershipOf derives the ownership context for a principal and booking.
func OwnershipOf(p models.Principal, b *models.Booking) Ownership {
	return Ownership{
		IsOwner:    b.CustomerID == p.ID,
		IsAssignee: b.TechnicianID != "" && b.TechnicianID == p.ID,
	}
}

// policyTable is the full authorization mapping. A missing entry denies.
// ADMIN is handled once in Authorize rather than repeated per row.
var policyTable = map[Action]map[models.Role]func(Ownership) bool{
	ActionView: {
		models.RoleCustomer:   func(o Ownership) bool { return o.IsOwner },
		models.RoleTechnician: func(o Ownership) bool { return o.IsAssignee },
	},
	ActionTransition: {
		models.RoleCustomer:   func(o Ownership) bool { return o.IsOwner },
		models.RoleTechnician: func(o Ownership) bool { return o.IsAssignee },
	},
	ActionAssign:  {}, // ADMIN only
	ActionListAll: {}, // ADMIN only
}

// Authorize is the single choke point for role/ownership checks. It is a pure
// function of its inputs and holds no state.
func Authorize(p models.Principal, action Action, o Ownership) error {
	if p.Role == models.RoleAdmin {
		return nil
	}
	if roleRules, ok := policyTable[action]; ok {
		if allow, ok := roleRules[p.Role]; ok && allow(o) {
			return nil
		}
	}
	return NewForbiddenError("you are not allowed to perform this action")
}
