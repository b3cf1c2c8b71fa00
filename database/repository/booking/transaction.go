package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"appointo/models"
)

// InsertIfNoOverlap is the conditional write at the heart of double-booking
// prevention. Two concurrent requests can both pass validation against a stale
// availability snapshot; the transaction re-checks for occupying overlaps and
// inserts in one atomic step, so at most one of them commits.
func (r *MongoBookingRepo) InsertIfNoOverlap(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := occupyingOverlapFilter(booking.TenantID, booking.ProviderID, booking.OccupiedStart, booking.OccupiedEnd)
		n, err := r.coll.CountDocuments(sc, filter)
		if err != nil {
			return fmt.Errorf("overlap re-check failed: %w", err)
		}
		if n > 0 {
			return ErrOverlapDetected
		}
		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// Unique tenantId+requestId index fired: a concurrent retry of
				// the same request already committed.
				return ErrDuplicateRequest
			}
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}

	return nil
}

// UpdateStatusIfNoOverlap guards the transition of a booking into an occupying
// status. A PENDING booking does not hold its interval, so the overlap check at
// insert time cannot protect it; this transaction re-counts occupying overlaps
// and applies the guarded status write atomically, closing the window where two
// providers approve two overlapping pending bookings at once.
func (r *MongoBookingRepo) UpdateStatusIfNoOverlap(ctx context.Context, tenantID, bookingID string, from, to models.BookingStatus) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var updated models.Booking
	txnFn := func(sc mongo.SessionContext) error {
		var b models.Booking
		err := r.coll.FindOne(sc, bson.M{"tenantId": tenantID, "id": bookingID}).Decode(&b)
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to fetch booking: %w", err)
		}
		if b.Status != from {
			return ErrStatusChanged
		}

		filter := occupyingOverlapFilter(tenantID, b.ProviderID, b.OccupiedStart, b.OccupiedEnd)
		filter["id"] = bson.M{"$ne": bookingID}
		n, err := r.coll.CountDocuments(sc, filter)
		if err != nil {
			return fmt.Errorf("overlap re-check failed: %w", err)
		}
		if n > 0 {
			return ErrOverlapDetected
		}

		now := time.Now()
		res, err := r.coll.UpdateOne(sc,
			bson.M{"tenantId": tenantID, "id": bookingID, "status": from},
			bson.M{"$set": bson.M{"status": to, "updatedAt": now}})
		if err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrStatusChanged
		}
		b.Status = to
		b.UpdatedAt = now
		updated = b
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return nil, err
	}

	return &updated, nil
}
