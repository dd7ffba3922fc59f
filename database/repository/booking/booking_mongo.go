package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"fieldserve/config"
	"fieldserve/database"
	"fieldserve/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a BookingRepository backed by the "bookings"
// collection.
func NewMongoBookingRepo() BookingRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("bookings")
	return &MongoBookingRepo{coll: coll}
}

func repoContext() (context.Context, context.CancelFunc) {
	timeout := time.Duration(config.AppConfig.RepoTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoBookingRepo) Create(booking *models.Booking) error {
	ctx, cancel := repoContext()
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	ctx, cancel := repoContext()
	defer cancel()
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, err)
	}
	return &booking, nil
}

// listFilter translates a BookingFilter into a bson query document.
func listFilter(filter BookingFilter) bson.M {
	query := bson.M{}
	if filter.CustomerID != "" {
		query["customer_id"] = filter.CustomerID
	}
	if filter.TechnicianID != "" {
		query["technician_id"] = filter.TechnicianID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ServiceID != "" {
		query["service_id"] = filter.ServiceID
	}
	if filter.Search != "" {
		query["customer_notes"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}
	if filter.StartDate != nil || filter.EndDate != nil {
		window := bson.M{}
		if filter.StartDate != nil {
			window["$gte"] = *filter.StartDate
		}
		if filter.EndDate != nil {
			window["$lte"] = *filter.EndDate
		}
		query["scheduled_at"] = window
	}
	return query
}

func (r *MongoBookingRepo) List(filter BookingFilter, page, limit int) ([]models.Booking, int64, error) {
	ctx, cancel := repoContext()
	defer cancel()

	query := listFilter(filter)
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, 0, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, total, nil
}

// preconditionFilter builds the pre-image filter for a conditional update.
func preconditionFilter(id string, pre Precondition) bson.M {
	filter := bson.M{"id": id}
	if pre.Status != "" {
		filter["status"] = pre.Status
	}
	if pre.TechnicianUnset {
		filter["technician_id"] = bson.M{"$in": bson.A{nil, ""}}
	}
	if pre.TechnicianID != "" {
		filter["technician_id"] = pre.TechnicianID
	}
	return filter
}

// changeDocument builds the $set document for a status change.
func changeDocument(change StatusChange) bson.M {
	set := bson.M{
		"status":     change.Status,
		"updated_at": change.UpdatedAt,
	}
	if change.TechnicianID != "" {
		set["technician_id"] = change.TechnicianID
	}
	if change.CompletedAt != nil {
		set["completed_at"] = *change.CompletedAt
	}
	if change.CancelledAt != nil {
		set["cancelled_at"] = *change.CancelledAt
	}
	return set
}

// UpdateConditional performs the guarded transition as a single
// FindOneAndUpdate. The pre-image filter lives in the query, so two racing
// writers can never both match; the loser sees ErrPreconditionFailed.
func (r *MongoBookingRepo) UpdateConditional(id string, pre Precondition, change StatusChange) (*models.Booking, error) {
	ctx, cancel := repoContext()
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Booking
	err := r.coll.FindOneAndUpdate(ctx,
		preconditionFilter(id, pre),
		bson.M{"$set": changeDocument(change)},
		opts,
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPreconditionFailed
		}
		return nil, fmt.Errorf("failed to update booking with id %s: %w", id, err)
	}
	return &updated, nil
}

func (r *MongoBookingRepo) FindOverlapping(technicianID string, start, end time.Time) ([]models.Booking, error) {
	ctx, cancel := repoContext()
	defer cancel()

	filter := bson.M{
		"technician_id": technicianID,
		"status":        bson.M{"$in": bson.A{models.StatusConfirmed, models.StatusInProgress}},
		"scheduled_at":  bson.M{"$lt": end, "$gte": start.Add(-24 * time.Hour)},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		// The coarse query above over-fetches; apply the exact window check
		// using each booking's estimated duration.
		if overlaps(&b, start, end) {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

// overlaps reports whether the booking's scheduled window intersects
// [start, end). A booking without a schedule never conflicts.
func overlaps(b *models.Booking, start, end time.Time) bool {
	if b.ScheduledAt == nil {
		return false
	}
	hours := b.EstimatedHours
	if hours <= 0 {
		hours = 1
	}
	bStart := *b.ScheduledAt
	bEnd := bStart.Add(time.Duration(hours) * time.Hour)
	return bStart.Before(end) && bEnd.After(start)
}
