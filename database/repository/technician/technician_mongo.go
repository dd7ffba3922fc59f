package technicianRepo

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

// MongoTechnicianRepo implements TechnicianRepository using MongoDB.
type MongoTechnicianRepo struct {
	coll *mongo.Collection
}

// NewMongoTechnicianRepo creates a TechnicianRepository backed by the
// "technicians" collection.
func NewMongoTechnicianRepo() TechnicianRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("technicians")
	return &MongoTechnicianRepo{coll: coll}
}

func repoContext() (context.Context, context.CancelFunc) {
	timeout := time.Duration(config.AppConfig.RepoTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoTechnicianRepo) GetByID(id string) (*models.Technician, error) {
	ctx, cancel := repoContext()
	defer cancel()
	var technician models.Technician
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&technician); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch technician with id %s: %w", id, err)
	}
	return &technician, nil
}

func (r *MongoTechnicianRepo) GetByUserID(userID string) (*models.Technician, error) {
	ctx, cancel := repoContext()
	defer cancel()
	var technician models.Technician
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&technician); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch technician for user %s: %w", userID, err)
	}
	return &technician, nil
}

func (r *MongoTechnicianRepo) FindEligible(criteria EligibilityCriteria) ([]models.Technician, error) {
	ctx, cancel := repoContext()
	defer cancel()

	filter := bson.M{
		"approval_status": models.ApprovalApproved,
		"is_active":       true,
		"is_available":    true,
		"latitude":        bson.M{"$ne": nil},
		"longitude":       bson.M{"$ne": nil},
	}
	if criteria.ServiceType != "" {
		filter["specialization"] = bson.M{"$regex": criteria.ServiceType, "$options": "i"}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find eligible technicians: %w", err)
	}
	defer cursor.Close(ctx)

	var technicians []models.Technician
	for cursor.Next(ctx) {
		var t models.Technician
		if err := cursor.Decode(&t); err != nil {
			return nil, fmt.Errorf("failed to decode technician: %w", err)
		}
		technicians = append(technicians, t)
	}
	return technicians, nil
}

func (r *MongoTechnicianRepo) Create(technician *models.Technician) error {
	ctx, cancel := repoContext()
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, technician); err != nil {
		return fmt.Errorf("failed to create technician: %w", err)
	}
	return nil
}

func (r *MongoTechnicianRepo) UpdateLocation(userID string, lat, lng float64) (*models.Technician, error) {
	return r.patchByUser(userID, bson.M{
		"latitude":             lat,
		"longitude":            lng,
		"last_location_update": time.Now().UTC(),
	})
}

func (r *MongoTechnicianRepo) SetAvailability(userID string, available bool) (*models.Technician, error) {
	return r.patchByUser(userID, bson.M{"is_available": available})
}

func (r *MongoTechnicianRepo) patchByUser(userID string, set bson.M) (*models.Technician, error) {
	ctx, cancel := repoContext()
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Technician
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update technician for user %s: %w", userID, err)
	}
	return &updated, nil
}
