package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"appointo/database"
	"appointo/models"
)

var (
	// ErrOverlapDetected is returned by InsertIfNoOverlap when an occupying
	// booking already holds part of the candidate interval at commit time.
	ErrOverlapDetected = errors.New("overlapping occupying booking exists")

	// ErrStatusChanged is returned by UpdateStatus when the booking's status
	// no longer matches the expected value.
	ErrStatusChanged = errors.New("booking status changed concurrently")

	// ErrNotFound is returned when no booking matches the query.
	ErrNotFound = errors.New("booking not found")
)

// MongoBookingRepo is the production BookingRepository backed by MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a Mongo-backed booking repository.
func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{coll: database.GetCollection("bookings")}
}

func (r *MongoBookingRepo) ListOccupying(ctx context.Context, tenantID, staffID string, from, to time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := occupyingOverlapFilter(tenantID, staffID, from, to)
	opts := options.Find().SetSort(bson.D{{Key: "occupiedStart", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch occupying bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) FindByRequestID(ctx context.Context, tenantID, requestID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"tenantId": tenantID, "requestId": requestID}
	var booking models.Booking
	err := r.coll.FindOne(ctx, filter).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up booking by requestId: %w", err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, tenantID, bookingID string, from, to models.BookingStatus) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"tenantId": tenantID, "id": bookingID, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing booking from a concurrent status change.
		if exists, err := r.GetByID(ctx, tenantID, bookingID); err == nil && exists != nil {
			return nil, ErrStatusChanged
		}
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, tenantID, bookingID)
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, tenantID, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"tenantId": tenantID, "id": bookingID}
	var booking models.Booking
	err := r.coll.FindOne(ctx, filter).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

// occupyingOverlapFilter matches APPROVED/CONFIRMED bookings whose half-open
// occupied interval intersects [from, to).
func occupyingOverlapFilter(tenantID, staffID string, from, to time.Time) bson.M {
	return bson.M{
		"tenantId":      tenantID,
		"providerId":    staffID,
		"status":        bson.M{"$in": models.OccupyingStatuses},
		"occupiedStart": bson.M{"$lt": to},
		"occupiedEnd":   bson.M{"$gt": from},
	}
}
