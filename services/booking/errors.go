package booking

import (
	"fmt"

	"appointo/models"
)

// Validation failure codes. These travel in BookingDecision.Reason so API
// layers can branch without parsing messages.
const (
	CodeStaffNotQualified = "staffNotQualified"
	CodeTooSoon           = "outsideWindowTooSoon"
	CodeTooFar            = "outsideWindowTooFar"
	CodeSlotConflict      = "slotConflict"
	CodeCrossTenant       = "crossTenantReference"
	CodeUnknownTenant     = "unknownTenant"
	CodeUnknownService    = "unknownService"
	CodeUnknownStaff      = "unknownStaff"
	CodeUnknownClient     = "unknownClient"
	CodeInvalidInput      = "invalidInput"
)

// ValidationFailure is a recoverable, structured rejection of a candidate
// slot. It is surfaced to the caller as a decision reason, never retried
// automatically (except the single conditional-write retry in the resolver).
type ValidationFailure struct {
	Code                 string
	Message              string
	ConflictingBookingID string
}

func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IllegalTransition reports a lifecycle transition outside the allowed table.
// This is a caller error and is never retried.
type IllegalTransition struct {
	From models.BookingStatus
	To   models.BookingStatus
}

func (e *IllegalTransition) Error() string {
	return fmt.Sprintf("illegal booking transition %s -> %s", e.From, e.To)
}

// IntegrityError flags overlapping occupying bookings already present in the
// store. The index refuses to silently merge them; this condition means the
// no-double-booking invariant was violated upstream.
type IntegrityError struct {
	TenantID   string
	StaffID    string
	BookingIDs [2]string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("occupying bookings %s and %s overlap for staff %s (tenant %s)",
		e.BookingIDs[0], e.BookingIDs[1], e.StaffID, e.TenantID)
}
