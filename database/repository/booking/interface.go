package bookingRepo

import (
	"context"
	"time"

	"appointo/models"
)

// BookingRepository is the persistence port of the booking engine. It covers
// both the read side (occupied intervals, requestId dedupe) and the write side
// (conditional insert, guarded status updates).
type BookingRepository interface {
	// ListOccupying returns the APPROVED/CONFIRMED bookings for a staff member
	// whose occupied intervals intersect [from, to), ordered by occupiedStart.
	ListOccupying(ctx context.Context, tenantID, staffID string, from, to time.Time) ([]models.Booking, error)

	// FindByRequestID returns the booking created by an earlier request with
	// the same idempotency key, or nil when none exists.
	FindByRequestID(ctx context.Context, tenantID, requestID string) (*models.Booking, error)

	// InsertIfNoOverlap inserts the booking only if no APPROVED/CONFIRMED
	// booking for the same tenant and staff has an overlapping occupied
	// interval at commit time. Atomic with respect to concurrent callers for
	// the same (tenantId, providerId); returns ErrOverlapDetected on conflict.
	InsertIfNoOverlap(ctx context.Context, booking *models.Booking) error

	// UpdateStatus transitions a booking's status guarded by the expected
	// current status; returns ErrStatusChanged when the booking moved out of
	// `from` concurrently.
	UpdateStatus(ctx context.Context, tenantID, bookingID string, from, to models.BookingStatus) (*models.Booking, error)

	// UpdateStatusIfNoOverlap is UpdateStatus for transitions into an
	// occupying status: the overlap re-check against other occupying bookings
	// and the guarded status write happen in one atomic step, so two
	// overlapping bookings can never both become occupying. Returns
	// ErrOverlapDetected when another occupying booking holds part of this
	// booking's occupied interval.
	UpdateStatusIfNoOverlap(ctx context.Context, tenantID, bookingID string, from, to models.BookingStatus) (*models.Booking, error)

	GetByID(ctx context.Context, tenantID, bookingID string) (*models.Booking, error)
}
