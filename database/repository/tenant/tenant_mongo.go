package tenantRepo

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

// ErrNotFound is returned when no tenant matches the query.
var ErrNotFound = errors.New("tenant not found")

// MongoTenantRepo is the production TenantRepository backed by MongoDB.
type MongoTenantRepo struct {
	coll *mongo.Collection
}

// NewMongoTenantRepo returns a Mongo-backed tenant repository.
func NewMongoTenantRepo() *MongoTenantRepo {
	return &MongoTenantRepo{coll: database.GetCollection("tenants")}
}

func (r *MongoTenantRepo) GetByID(ctx context.Context, tenantID string) (*models.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tenant models.Tenant
	err := r.coll.FindOne(ctx, bson.M{"id": tenantID}).Decode(&tenant)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tenant: %w", err)
	}
	return &tenant, nil
}

func (r *MongoTenantRepo) GetPolicy(ctx context.Context, tenantID string) (*models.TenantPolicy, error) {
	tenant, err := r.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	policy := tenant.Policy()
	return &policy, nil
}
