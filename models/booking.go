package models

import "time"

// BookingStatus is the closed set of booking states. Status is only ever
// mutated through lifecycle transitions, never set directly.
type BookingStatus string

const (
	StatusPending             BookingStatus = "PENDING"
	StatusApproved            BookingStatus = "APPROVED"
	StatusConfirmed           BookingStatus = "CONFIRMED"
	StatusRejected            BookingStatus = "REJECTED"
	StatusSuggested           BookingStatus = "SUGGESTED"
	StatusCancelledByClient   BookingStatus = "CANCELLED_BY_CLIENT"
	StatusCancelledByProvider BookingStatus = "CANCELLED_BY_PROVIDER"
	StatusRescheduled         BookingStatus = "RESCHEDULED"
)

// OccupyingStatuses are the states that block a staff calendar. PENDING and
// SUGGESTED bookings never block availability.
var OccupyingStatuses = []BookingStatus{StatusApproved, StatusConfirmed}

// Occupying reports whether a booking in this state blocks its staff interval.
func (s BookingStatus) Occupying() bool {
	return s == StatusApproved || s == StatusConfirmed
}

// Terminal reports whether the state admits no further transitions.
func (s BookingStatus) Terminal() bool {
	switch s {
	case StatusRejected, StatusCancelledByClient, StatusCancelledByProvider, StatusRescheduled:
		return true
	}
	return false
}

// Valid reports whether s is a known status value.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusConfirmed, StatusRejected,
		StatusSuggested, StatusCancelledByClient, StatusCancelledByProvider, StatusRescheduled:
		return true
	}
	return false
}

// Booking represents an appointment record. Bookings are never deleted; they
// reach a terminal state or are superseded via reschedule.
type Booking struct {
	ID         string        `bson:"id" json:"id"`
	TenantID   string        `bson:"tenantId" json:"tenantId"`
	ClientID   string        `bson:"clientId" json:"clientId"`
	ProviderID string        `bson:"providerId" json:"providerId"` // staff member delivering the service
	ServiceID  string        `bson:"serviceId" json:"serviceId"`
	StartsAt   time.Time     `bson:"startsAt" json:"startsAt"`
	EndsAt     time.Time     `bson:"endsAt" json:"endsAt"`
	Status     BookingStatus `bson:"status" json:"status"`
	// Price is snapshotted at booking time so later service price edits do
	// not drift historical bookings.
	Price float64 `bson:"price" json:"price"`
	// RequestID is the idempotency key of the originating request, unique per
	// tenant.
	RequestID string `bson:"requestId" json:"requestId"`
	// OccupiedStart/OccupiedEnd persist the buffer-padded span so the store
	// can enforce the no-overlap constraint with a plain range query.
	OccupiedStart time.Time `bson:"occupiedStart" json:"-"`
	OccupiedEnd   time.Time `bson:"occupiedEnd" json:"-"`
	// PreviousBookingID links a replacement booking back to the booking it
	// rescheduled, purely informational.
	PreviousBookingID string    `bson:"previousBookingId,omitempty" json:"previousBookingId,omitempty"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Occupied returns the buffer-padded interval this booking blocks.
func (b *Booking) Occupied() Interval {
	return Interval{Start: b.OccupiedStart, End: b.OccupiedEnd}
}
