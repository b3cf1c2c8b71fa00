package booking

import (
	"context"
	"sort"
	"time"

	bookingRepo "appointo/database/repository/booking"
	"appointo/models"
)

type occupiedEntry struct {
	interval  models.Interval
	bookingID string
}

// AvailabilityIndex is a request-scoped view of a staff member's occupied
// intervals, rebuilt per validation from the booking store to avoid
// staleness. Only APPROVED/CONFIRMED bookings appear in it.
type AvailabilityIndex struct {
	entries []occupiedEntry
}

// BuildAvailabilityIndex loads the occupying bookings for a staff member
// within [from, to) and assembles the ordered interval view. Overlap between
// stored occupying bookings is a data-integrity violation and is surfaced as
// an IntegrityError rather than merged away.
func BuildAvailabilityIndex(ctx context.Context, repo bookingRepo.BookingRepository, tenantID, staffID string, from, to time.Time) (*AvailabilityIndex, error) {
	rows, err := repo.ListOccupying(ctx, tenantID, staffID, from, to)
	if err != nil {
		return nil, err
	}

	entries := make([]occupiedEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, occupiedEntry{
			interval:  rows[i].Occupied(),
			bookingID: rows[i].ID,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].interval.Start.Before(entries[j].interval.Start)
	})
	for i := 1; i < len(entries); i++ {
		if entries[i-1].interval.End.After(entries[i].interval.Start) {
			return nil, &IntegrityError{
				TenantID:   tenantID,
				StaffID:    staffID,
				BookingIDs: [2]string{entries[i-1].bookingID, entries[i].bookingID},
			}
		}
	}
	return &AvailabilityIndex{entries: entries}, nil
}

// FirstOverlap returns the id of the first occupying booking whose interval
// intersects iv, if any.
func (ix *AvailabilityIndex) FirstOverlap(iv models.Interval) (string, bool) {
	for _, e := range ix.entries {
		if e.interval.Start.After(iv.End) || e.interval.Start.Equal(iv.End) {
			break
		}
		if e.interval.Overlaps(iv) {
			return e.bookingID, true
		}
	}
	return "", false
}

// Intervals returns the ordered occupied intervals.
func (ix *AvailabilityIndex) Intervals() []models.Interval {
	out := make([]models.Interval, len(ix.entries))
	for i, e := range ix.entries {
		out[i] = e.interval
	}
	return out
}
