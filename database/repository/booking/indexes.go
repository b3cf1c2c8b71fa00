package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateRequest signals that the unique (tenantId, requestId) index
// rejected an insert; the original booking for that request already exists.
var ErrDuplicateRequest = errors.New("booking for this requestId already exists")

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (r *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on booking ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Idempotency: one booking per (tenantId, requestId)
		{
			Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "requestId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_tenant_request"),
		},
		// Primary conflict-check query pattern
		{
			Keys: bson.D{
				{Key: "tenantId", Value: 1},
				{Key: "providerId", Value: 1},
				{Key: "status", Value: 1},
				{Key: "occupiedStart", Value: 1},
				{Key: "occupiedEnd", Value: 1},
			},
			Options: options.Index().SetName("tenant_provider_status_occupied_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
