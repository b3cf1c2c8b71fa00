package staffRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"appointo/database"
	"appointo/models"
)

// ErrNotFound is returned when no staff member matches the query.
var ErrNotFound = errors.New("staff member not found")

// MongoStaffRepo is the production StaffRepository backed by MongoDB.
type MongoStaffRepo struct {
	coll *mongo.Collection
}

// NewMongoStaffRepo returns a Mongo-backed staff repository.
func NewMongoStaffRepo() *MongoStaffRepo {
	return &MongoStaffRepo{coll: database.GetCollection("staff")}
}

func (r *MongoStaffRepo) GetByID(ctx context.Context, tenantID, staffID string) (*models.Staff, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": staffID, "tenantId": tenantID}
	var staff models.Staff
	err := r.coll.FindOne(ctx, filter).Decode(&staff)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staff member: %w", err)
	}
	return &staff, nil
}

func (r *MongoStaffRepo) IsEligible(ctx context.Context, tenantID, staffID, serviceID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":         staffID,
		"tenantId":   tenantID,
		"serviceIds": serviceID,
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check staff eligibility: %w", err)
	}
	return n > 0, nil
}
