package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	bookingRepo "appointo/database/repository/booking"
	"appointo/models"
	"appointo/utils"
)

// Transition applies a lifecycle transition. The status write is guarded by
// the expected current status, so two racing actors cannot both move the same
// booking.
func (e *DefaultBookingEngine) Transition(ctx context.Context, tenantID, bookingID string, to models.BookingStatus, actor Actor) (*models.Booking, error) {
	b, err := e.BookingRepo.GetByID(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}
	if err := CanTransition(b.Status, to, actor); err != nil {
		return nil, err
	}

	// A booking entering an occupying state from a non-occupying one starts
	// blocking its staff interval. The overlap re-check and the status write
	// must be one atomic step at the store, otherwise two providers approving
	// two overlapping PENDING bookings could both pass a read-side check and
	// both commit.
	var updated *models.Booking
	if to.Occupying() && !b.Status.Occupying() {
		updated, err = e.BookingRepo.UpdateStatusIfNoOverlap(ctx, tenantID, bookingID, b.Status, to)
		if errors.Is(err, bookingRepo.ErrOverlapDetected) {
			vf := &ValidationFailure{
				Code:    CodeSlotConflict,
				Message: "slot was taken while the booking was pending",
			}
			// Best effort: name the booking now holding the interval.
			if index, ierr := e.buildIndexWithBudget(ctx, tenantID, b.ProviderID, b.OccupiedStart, b.OccupiedEnd); ierr == nil {
				if conflictID, ok := index.FirstOverlap(b.Occupied()); ok {
					vf.ConflictingBookingID = conflictID
				}
			}
			return nil, vf
		}
	} else {
		updated, err = e.BookingRepo.UpdateStatus(ctx, tenantID, bookingID, b.Status, to)
	}
	if errors.Is(err, bookingRepo.ErrStatusChanged) {
		// Someone else moved the booking first; report against its current state.
		current, gerr := e.BookingRepo.GetByID(ctx, tenantID, bookingID)
		if gerr != nil {
			return nil, gerr
		}
		return nil, &IllegalTransition{From: current.Status, To: to}
	}
	if err != nil {
		return nil, err
	}

	if to == models.StatusApproved {
		e.scheduleConfirmAfterApproval(ctx, updated)
	}

	utils.GetLogger().Info("booking transitioned",
		zap.String("bookingID", bookingID),
		zap.String("from", string(b.Status)),
		zap.String("to", string(to)),
		zap.String("actor", string(actor)))
	return updated, nil
}

// Reschedule retires a booking into RESCHEDULED and requests a replacement
// slot. The replacement carries the old booking's id as lineage and a fresh
// idempotency key supplied by the caller; its decision is returned as-is, so
// a conflicting replacement surfaces as Suggested just like any new request.
func (e *DefaultBookingEngine) Reschedule(ctx context.Context, tenantID, bookingID string, newStart time.Time, requestID string, actor Actor) (*models.BookingDecision, error) {
	old, err := e.BookingRepo.GetByID(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}
	if err := CanTransition(old.Status, models.StatusRescheduled, actor); err != nil {
		return nil, err
	}

	input := models.BookingRequestInput{
		TenantID:   tenantID,
		ClientID:   old.ClientID,
		ProviderID: old.ProviderID,
		ServiceID:  old.ServiceID,
		StartsAt:   newStart,
		RequestID:  requestID,
	}

	// Retire the old slot first so the replacement probe sees it as free.
	if _, err := e.BookingRepo.UpdateStatus(ctx, tenantID, bookingID, old.Status, models.StatusRescheduled); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusChanged) {
			current, gerr := e.BookingRepo.GetByID(ctx, tenantID, bookingID)
			if gerr != nil {
				return nil, gerr
			}
			return nil, &IllegalTransition{From: current.Status, To: models.StatusRescheduled}
		}
		return nil, err
	}

	return e.requestBooking(ctx, input, old.ID)
}

// GetBooking fetches a single booking scoped to its tenant.
func (e *DefaultBookingEngine) GetBooking(ctx context.Context, tenantID, bookingID string) (*models.Booking, error) {
	return e.BookingRepo.GetByID(ctx, tenantID, bookingID)
}

func (e *DefaultBookingEngine) scheduleConfirmAfterApproval(ctx context.Context, b *models.Booking) {
	if e.Confirm == nil {
		return
	}
	policy, err := e.TenantRepo.GetPolicy(ctx, b.TenantID)
	if err != nil || policy.AutoConfirmDelayMin <= 0 {
		return
	}
	delay := time.Duration(policy.AutoConfirmDelayMin) * time.Minute
	if err := e.Confirm.ScheduleAutoConfirm(ctx, b, delay); err != nil {
		utils.GetLogger().Error("failed to schedule auto-confirm",
			zap.String("bookingID", b.ID), zap.Error(err))
	}
}
