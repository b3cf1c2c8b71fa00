package booking

import (
	"context"
	"time"

	bookingRepo "appointo/database/repository/booking"
	serviceRepo "appointo/database/repository/service"
	staffRepo "appointo/database/repository/staff"
	tenantRepo "appointo/database/repository/tenant"
	"appointo/models"
)

// Engine is the booking engine's public contract: the transactional decision
// point for new bookings plus the only sanctioned mutation path for booking
// status.
type Engine interface {
	// RequestBooking decides whether a requested slot is accepted, rejected,
	// or answered with alternative slots. Idempotent per (tenantId, requestId).
	RequestBooking(ctx context.Context, input models.BookingRequestInput) (*models.BookingDecision, error)

	// Transition applies a lifecycle transition on behalf of an actor.
	Transition(ctx context.Context, tenantID, bookingID string, to models.BookingStatus, actor Actor) (*models.Booking, error)

	// Reschedule retires a booking into RESCHEDULED and requests a
	// replacement slot under a fresh idempotency key.
	Reschedule(ctx context.Context, tenantID, bookingID string, newStart time.Time, requestID string, actor Actor) (*models.BookingDecision, error)

	// DayAvailability lists the bookable start intervals for a staff member
	// and service on a given day.
	DayAvailability(ctx context.Context, tenantID, providerID, serviceID string, day time.Time) ([]models.Interval, error)

	GetBooking(ctx context.Context, tenantID, bookingID string) (*models.Booking, error)
}

// ConfirmScheduler schedules the deferred APPROVED -> CONFIRMED transition.
// Implemented by the cron package on top of the task queue; nil disables
// auto-confirmation.
type ConfirmScheduler interface {
	ScheduleAutoConfirm(ctx context.Context, booking *models.Booking, delay time.Duration) error
}

// DefaultBookingEngine is the production Engine.
type DefaultBookingEngine struct {
	BookingRepo bookingRepo.BookingRepository
	TenantRepo  tenantRepo.TenantRepository
	StaffRepo   staffRepo.StaffRepository
	ServiceRepo serviceRepo.ServiceRepository
	Confirm     ConfirmScheduler

	// ValidationTimeout bounds the read+validate phase of a booking request;
	// exceeding it yields a Timeout decision, distinct from a slot conflict.
	ValidationTimeout time.Duration
	// SuggestionLimit caps the alternatives returned on conflict.
	SuggestionLimit int
	// SuggestionStep is the probe step when searching alternative starts.
	SuggestionStep time.Duration

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (e *DefaultBookingEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *DefaultBookingEngine) validationTimeout() time.Duration {
	if e.ValidationTimeout > 0 {
		return e.ValidationTimeout
	}
	return 2 * time.Second
}

func (e *DefaultBookingEngine) suggestionLimit() int {
	if e.SuggestionLimit > 0 {
		return e.SuggestionLimit
	}
	return 3
}

func (e *DefaultBookingEngine) suggestionStep() time.Duration {
	if e.SuggestionStep > 0 {
		return e.SuggestionStep
	}
	return 15 * time.Minute
}
