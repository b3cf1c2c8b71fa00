package models

import "time"

// BookingRequestInput is a client's request for an appointment slot.
// TenantID comes from the URL path, not the request body.
type BookingRequestInput struct {
	TenantID   string    `json:"tenantId"`
	ClientID   string    `json:"clientId" binding:"required"`
	ProviderID string    `json:"providerId" binding:"required"`
	ServiceID  string    `json:"serviceId" binding:"required"`
	StartsAt   time.Time `json:"startsAt" binding:"required"`
	// RequestID is the caller-supplied idempotency key. Retrying with the
	// same key replays the original decision instead of double-booking.
	RequestID string `json:"requestId" binding:"required"`
}

// DecisionKind enumerates the possible outcomes of a booking request.
type DecisionKind string

const (
	DecisionAccepted  DecisionKind = "accepted"
	DecisionRejected  DecisionKind = "rejected"
	DecisionSuggested DecisionKind = "suggested"
	DecisionTimeout   DecisionKind = "timeout"
)

// BookingDecision is the structured outcome of a booking request.
type BookingDecision struct {
	Kind    DecisionKind `json:"decision"`
	Booking *Booking     `json:"booking,omitempty"`
	// Reason carries the validation failure code for rejected/suggested
	// outcomes so callers can branch deterministically.
	Reason               string     `json:"reason,omitempty"`
	ConflictingBookingID string     `json:"conflictingBookingId,omitempty"`
	Alternatives         []Interval `json:"alternatives,omitempty"`
	// Replayed is set when the decision was reconstructed from an earlier
	// request with the same requestId.
	Replayed bool `json:"replayed,omitempty"`
}
