package booking

import (
	"testing"
	"time"

	"fieldserve/models"
)

func seedBooking(repo *fakeBookingRepo, id string, status models.BookingStatus, customerID, technicianID string) models.Booking {
	now := time.Now().UTC()
	b := models.Booking{
		ID:           id,
		CustomerID:   customerID,
		TechnicianID: technicianID,
		ServiceID:    "1",
		LocationID:   "loc-1",
		Status:       status,
		TotalPrice:   50,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if status == models.StatusCompleted {
		b.CompletedAt = &now
	}
	if status == models.StatusCancelled {
		b.CancelledAt = &now
	}
	repo.bookings[id] = b
	return b
}

func TestCustomerCanCancelOwnPendingBooking(t *testing.T) {
	repo := newFakeBookingRepo()
	seedBooking(repo, "b1", models.StatusPending, "cust-1", "")
	m := &StateMachine{Repo: repo}

	updated, err := m.Transition(models.Principal{ID: "cust-1", Role: models.RoleCustomer}, "b1", "cancelled")
	if err != nil {
		t.Fatalf("expected cancel to succeed, got %v", err)
	}
	if updated.Status != models.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", updated.Status)
	}
	if updated.CancelledAt == nil {
		t.Error("cancelledAt was not set")
	}
	if updated.CompletedAt != nil {
		t.Error("completedAt must stay unset on cancellation")
	}
}

func TestCustomerCannotConfirmOwnBooking(t *testing.T) {
	repo := newFakeBookingRepo()
	seedBooking(repo, "b1", models.StatusPending, "cust-1", "tech-1")
	m := &StateMachine{Repo: repo}

	_, err := m.Transition(models.Principal{ID: "cust-1", Role: models.RoleCustomer}, "b1", "CONFIRMED")
	if err == nil {
		t.Fatal("expected conflict, got success")
	}
	if CodeOf(err) != CodeConflict {
		t.Errorf("code = %s, want %s", CodeOf(err), CodeConflict)
	}
}

func TestTechnicianCannotActOnUnassignedBooking(t *testing.T) {
	repo := newFakeBookingRepo()
	seedBooking(repo, "b1", models.StatusPending, "cust-1", "tech-1")
	m := &StateMachine{Repo: repo}

	_, err := m.Transition(models.Principal{ID: "tech-2", Role: models.RoleTechnician}, "b1", "CONFIRMED")
	if err == nil {
		t.Fatal("expected forbidden, got success")
	}
	if CodeOf(err) != CodeForbidden {
		t.Errorf("code = %s, want %s", CodeOf(err), CodeForbidden)
	}
}

func TestAssignedTechnicianLifecycle(t *testing.T) {
	repo := newFakeBookingRepo()
	seedBooking(repo, "b1", models.StatusPending, "cust-1", "tech-1")
	m := &StateMachine{Repo: repo}
	tech := models.Principal{ID: "tech-1", Role: models.RoleTechnician}

	for _, target := range []models.BookingStatus{
		models.StatusConfirmed, models.StatusInProgress, models.StatusCompleted,
	} {
		updated, err := m.Transition(tech, "b1", string(target))
		if err != nil {
			t.Fatalf("transition to %s failed: %v", target, err)
		}
		if updated.Status != target {
			t.Fatalf("status = %s, want %s", updated.Status, target)
		}
	}

	final, _ := repo.GetByID("b1")
	if final.CompletedAt == nil {
		t.Error("completedAt must be set on COMPLETED")
	}
	if final.CancelledAt != nil {
		t.Error("cancelledAt must stay unset on completion")
	}
}

func TestCancellingCompletedBookingFails(t *testing.T) {
	repo := newFakeBookingRepo()
	before := seedBooking(repo, "b1", models.StatusCompleted, "cust-1", "tech-1")
	m := &StateMachine{Repo: repo}

	_, err := m.Transition(models.Principal{ID: "cust-1", Role: models.RoleCustomer}, "b1", "CANCELLED")
	if err == nil {
		t.Fatal("expected conflict cancelling a completed booking")
	}
	if CodeOf(err) != CodeConflict {
		t.Errorf("code = %s, want %s", CodeOf(err), CodeConflict)
	}

	after, _ := repo.GetByID("b1")
	if after.Status != models.StatusCompleted {
		t.Errorf("status changed to %s", after.Status)
	}
	if after.CompletedAt == nil || !after.CompletedAt.Equal(*before.CompletedAt) {
		t.Error("completedAt was modified")
	}
}

func TestUnknownStatusIsValidationError(t *testing.T) {
	repo := newFakeBookingRepo()
	seedBooking(repo, "b1", models.StatusPending, "cust-1", "")
	m := &StateMachine{Repo: repo}

	_, err := m.Transition(models.Principal{ID: "cust-1", Role: models.RoleCustomer}, "b1", "SHIPPED")
	if CodeOf(err) != CodeValidation {
		t.Errorf("code = %s, want %s", CodeOf(err), CodeValidation)
	}
}

func TestMissingBookingIsNotFound(t *testing.T) {
	m := &StateMachine{Repo: newFakeBookingRepo()}
	_, err := m.Transition(models.Principal{ID: "cust-1", Role: models.RoleCustomer}, "nope", "CANCELLED")
	if CodeOf(err) != CodeNotFound {
		t.Errorf("code = %s, want %s", CodeOf(err), CodeNotFound)
	}
}

func TestAdminCannotConfirmWithoutTechnician(t *testing.T) {
	repo := newFakeBookingRepo()
	seedBooking(repo, "b1", models.StatusPending, "cust-1", "")
	m := &StateMachine{Repo: repo}

	_, err := m.Transition(models.Principal{ID: "admin-1", Role: models.RoleAdmin}, "b1", "CONFIRMED")
	if CodeOf(err) != CodeConflict {
		t.Errorf("code = %s, want %s", CodeOf(err), CodeConflict)
	}
}

func TestAdminMayRejectConfirmedBooking(t *testing.T) {
	repo := newFakeBookingRepo()
	seedBooking(repo, "b1", models.StatusConfirmed, "cust-1", "tech-1")
	m := &StateMachine{Repo: repo}

	updated, err := m.Transition(models.Principal{ID: "admin-1", Role: models.RoleAdmin}, "b1", "REJECTED")
	if err != nil {
		t.Fatalf("admin transition failed: %v", err)
	}
	if updated.Status != models.StatusRejected {
		t.Errorf("status = %s, want REJECTED", updated.Status)
	}
}

func TestTerminalStatesHaveNoOutgoingEdges(t *testing.T) {
	for _, terminal := range []models.BookingStatus{
		models.StatusCompleted, models.StatusCancelled, models.StatusRejected,
	} {
		for _, role := range []models.Role{models.RoleCustomer, models.RoleTechnician, models.RoleAdmin} {
			if targets := AllowedTargets(terminal, role); len(targets) != 0 {
				t.Errorf("AllowedTargets(%s, %s) = %v, want none", terminal, role, targets)
			}
		}
	}
}

func TestTransitionTableEdges(t *testing.T) {
	cases := []struct {
		current models.BookingStatus
		role    models.Role
		target  models.BookingStatus
		allowed bool
	}{
		{models.StatusPending, models.RoleCustomer, models.StatusCancelled, true},
		{models.StatusPending, models.RoleCustomer, models.StatusConfirmed, false},
		{models.StatusPending, models.RoleTechnician, models.StatusConfirmed, true},
		{models.StatusPending, models.RoleTechnician, models.StatusRejected, true},
		{models.StatusPending, models.RoleTechnician, models.StatusCompleted, false},
		{models.StatusConfirmed, models.RoleCustomer, models.StatusCancelled, true},
		{models.StatusConfirmed, models.RoleTechnician, models.StatusInProgress, true},
		{models.StatusConfirmed, models.RoleTechnician, models.StatusCancelled, true},
		{models.StatusInProgress, models.RoleCustomer, models.StatusCancelled, false},
		{models.StatusInProgress, models.RoleTechnician, models.StatusCompleted, true},
		{models.StatusInProgress, models.RoleTechnician, models.StatusCancelled, true},
		{models.StatusPending, models.RoleAdmin, models.StatusCompleted, true},
	}
	for _, tc := range cases {
		if got := transitionAllowed(tc.current, tc.role, tc.target); got != tc.allowed {
			t.Errorf("transitionAllowed(%s, %s, %s) = %v, want %v",
				tc.current, tc.role, tc.target, got, tc.allowed)
		}
	}
}
