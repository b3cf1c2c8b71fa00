package serviceRepo

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

// ErrNotFound is returned when no service matches the query.
var ErrNotFound = errors.New("service not found")

// MongoServiceRepo is the production ServiceRepository backed by MongoDB.
type MongoServiceRepo struct {
	coll *mongo.Collection
}

// NewMongoServiceRepo returns a Mongo-backed service repository.
func NewMongoServiceRepo() *MongoServiceRepo {
	return &MongoServiceRepo{coll: database.GetCollection("services")}
}

func (r *MongoServiceRepo) GetByID(ctx context.Context, tenantID, serviceID string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": serviceID, "tenantId": tenantID}
	var svc models.Service
	err := r.coll.FindOne(ctx, filter).Decode(&svc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service: %w", err)
	}
	return &svc, nil
}

func (r *MongoServiceRepo) ListByTenant(ctx context.Context, tenantID string) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"tenantId": tenantID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("error decoding services: %w", err)
	}
	return services, nil
}
