package bookingRepo

import (
	"testing"
	"time"

	"fieldserve/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestListFilterBuildsQuery(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	query := listFilter(BookingFilter{
		CustomerID: "cust-1",
		Status:     models.StatusPending,
		Search:     "leaking",
		StartDate:  &start,
		EndDate:    &end,
	})

	if query["customer_id"] != "cust-1" {
		t.Errorf("customer_id = %v", query["customer_id"])
	}
	if query["status"] != models.StatusPending {
		t.Errorf("status = %v", query["status"])
	}
	if _, ok := query["technician_id"]; ok {
		t.Error("technician_id must be absent when unfiltered")
	}
	search, ok := query["customer_notes"].(bson.M)
	if !ok || search["$regex"] != "leaking" {
		t.Errorf("customer_notes = %v", query["customer_notes"])
	}
	window, ok := query["scheduled_at"].(bson.M)
	if !ok || window["$gte"] != start || window["$lte"] != end {
		t.Errorf("scheduled_at = %v", query["scheduled_at"])
	}
}

func TestListFilterEmptyIsUnconstrained(t *testing.T) {
	if query := listFilter(BookingFilter{}); len(query) != 0 {
		t.Errorf("empty filter produced constraints: %v", query)
	}
}

func TestPreconditionFilterExpressesPreImage(t *testing.T) {
	filter := preconditionFilter("b1", Precondition{Status: models.StatusPending, TechnicianUnset: true})
	if filter["id"] != "b1" {
		t.Errorf("id = %v", filter["id"])
	}
	if filter["status"] != models.StatusPending {
		t.Errorf("status = %v", filter["status"])
	}
	if _, ok := filter["technician_id"]; !ok {
		t.Error("technician-unset predicate missing from filter")
	}

	assigned := preconditionFilter("b1", Precondition{Status: models.StatusConfirmed, TechnicianID: "t1"})
	if assigned["technician_id"] != "t1" {
		t.Errorf("technician_id = %v", assigned["technician_id"])
	}
}

func TestChangeDocumentWritesTimestampsAtomically(t *testing.T) {
	now := time.Now().UTC()
	doc := changeDocument(StatusChange{
		Status:      models.StatusCompleted,
		CompletedAt: &now,
		UpdatedAt:   now,
	})
	if doc["status"] != models.StatusCompleted {
		t.Errorf("status = %v", doc["status"])
	}
	if doc["completed_at"] != now {
		t.Errorf("completed_at = %v", doc["completed_at"])
	}
	if _, ok := doc["cancelled_at"]; ok {
		t.Error("cancelled_at must not be written on completion")
	}
	if _, ok := doc["technician_id"]; ok {
		t.Error("technician_id must not be written unless set")
	}
}

func TestOverlapWindow(t *testing.T) {
	slot := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	booked := &models.Booking{ScheduledAt: &slot, EstimatedHours: 2}

	if !overlaps(booked, slot.Add(time.Hour), slot.Add(3*time.Hour)) {
		t.Error("intersecting windows reported disjoint")
	}
	if overlaps(booked, slot.Add(2*time.Hour), slot.Add(4*time.Hour)) {
		t.Error("adjacent windows reported overlapping")
	}
	if overlaps(&models.Booking{}, slot, slot.Add(time.Hour)) {
		t.Error("unscheduled booking reported overlapping")
	}
}
