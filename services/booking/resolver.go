package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "appointo/database/repository/booking"
	serviceRepo "appointo/database/repository/service"
	staffRepo "appointo/database/repository/staff"
	tenantRepo "appointo/database/repository/tenant"
	"appointo/models"
	"appointo/utils"
)

// RequestBooking is the transactional decision point. The flow is two-phase
// optimistic: validate against a fresh availability snapshot, then commit
// through the conditional write. A concurrent request can invalidate the
// snapshot between the two phases, so a conditional-write conflict triggers
// one full revalidate+insert retry before the request degrades to
// suggestions.
func (e *DefaultBookingEngine) RequestBooking(ctx context.Context, input models.BookingRequestInput) (*models.BookingDecision, error) {
	return e.requestBooking(ctx, input, "")
}

func (e *DefaultBookingEngine) requestBooking(ctx context.Context, input models.BookingRequestInput, previousBookingID string) (*models.BookingDecision, error) {
	logger := utils.GetLogger()

	if vf := checkInput(input); vf != nil {
		return &models.BookingDecision{Kind: models.DecisionRejected, Reason: vf.Code}, nil
	}

	// Idempotent replay: a booking already created under this requestId is
	// returned unchanged instead of creating a duplicate.
	existing, err := e.BookingRepo.FindByRequestID(ctx, input.TenantID, input.RequestID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return replayDecision(existing), nil
	}

	policy, err := e.TenantRepo.GetPolicy(ctx, input.TenantID)
	if errors.Is(err, tenantRepo.ErrNotFound) {
		return &models.BookingDecision{Kind: models.DecisionRejected, Reason: CodeUnknownTenant}, nil
	}
	if err != nil {
		return nil, err
	}
	svc, err := e.ServiceRepo.GetByID(ctx, input.TenantID, input.ServiceID)
	if errors.Is(err, serviceRepo.ErrNotFound) {
		return &models.BookingDecision{Kind: models.DecisionRejected, Reason: CodeUnknownService}, nil
	}
	if err != nil {
		return nil, err
	}
	staff, err := e.StaffRepo.GetByID(ctx, input.TenantID, input.ProviderID)
	if errors.Is(err, staffRepo.ErrNotFound) {
		return &models.BookingDecision{Kind: models.DecisionRejected, Reason: CodeUnknownStaff}, nil
	}
	if err != nil {
		return nil, err
	}

	occupied := svc.OccupiedInterval(input.StartsAt)
	from, to := indexWindow(occupied, policy.TimeZone)
	now := e.now()

	for attempt := 0; attempt < 2; attempt++ {
		index, derr := e.buildIndexWithBudget(ctx, input.TenantID, input.ProviderID, from, to)
		if derr != nil {
			if errors.Is(derr, context.DeadlineExceeded) {
				return &models.BookingDecision{Kind: models.DecisionTimeout, Reason: "availability lookup exceeded the validation budget"}, nil
			}
			return nil, derr
		}

		if vf := ValidateSlot(input, *policy, svc, staff, index, now); vf != nil {
			if vf.Code == CodeSlotConflict {
				alts := e.suggestAlternatives(input, *policy, svc, staff, index, now)
				return &models.BookingDecision{
					Kind:                 models.DecisionSuggested,
					Reason:               vf.Code,
					ConflictingBookingID: vf.ConflictingBookingID,
					Alternatives:         alts,
				}, nil
			}
			return &models.BookingDecision{Kind: models.DecisionRejected, Reason: vf.Code}, nil
		}

		b := buildBooking(input, policy, svc, occupied, previousBookingID, now)
		err = e.BookingRepo.InsertIfNoOverlap(ctx, b)
		if err == nil {
			e.afterAccept(ctx, b, policy)
			return &models.BookingDecision{Kind: models.DecisionAccepted, Booking: b}, nil
		}
		if errors.Is(err, bookingRepo.ErrDuplicateRequest) {
			// A concurrent retry carrying the same requestId committed first.
			if existing, ferr := e.BookingRepo.FindByRequestID(ctx, input.TenantID, input.RequestID); ferr == nil && existing != nil {
				return replayDecision(existing), nil
			}
			return nil, err
		}
		if !errors.Is(err, bookingRepo.ErrOverlapDetected) {
			return nil, err
		}
		logger.Debug("conditional booking insert lost a race, revalidating",
			zap.String("tenantID", input.TenantID),
			zap.String("providerID", input.ProviderID),
			zap.String("requestID", input.RequestID))
	}

	// Second OverlapDetected in a row: answer with alternatives from a fresh
	// snapshot instead of failing.
	index, derr := e.buildIndexWithBudget(ctx, input.TenantID, input.ProviderID, from, to)
	if derr != nil {
		if errors.Is(derr, context.DeadlineExceeded) {
			return &models.BookingDecision{Kind: models.DecisionTimeout, Reason: "availability lookup exceeded the validation budget"}, nil
		}
		return nil, derr
	}
	alts := e.suggestAlternatives(input, *policy, svc, staff, index, now)
	return &models.BookingDecision{
		Kind:         models.DecisionSuggested,
		Reason:       CodeSlotConflict,
		Alternatives: alts,
	}, nil
}

func (e *DefaultBookingEngine) buildIndexWithBudget(ctx context.Context, tenantID, providerID string, from, to time.Time) (*AvailabilityIndex, error) {
	vctx, cancel := context.WithTimeout(ctx, e.validationTimeout())
	defer cancel()
	return BuildAvailabilityIndex(vctx, e.BookingRepo, tenantID, providerID, from, to)
}

// afterAccept schedules the auto-confirm timer for approved bookings when the
// tenant opted in. Failures are logged, never surfaced: the booking is
// already committed.
func (e *DefaultBookingEngine) afterAccept(ctx context.Context, b *models.Booking, policy *models.TenantPolicy) {
	if e.Confirm == nil || b.Status != models.StatusApproved || policy.AutoConfirmDelayMin <= 0 {
		return
	}
	delay := time.Duration(policy.AutoConfirmDelayMin) * time.Minute
	if err := e.Confirm.ScheduleAutoConfirm(ctx, b, delay); err != nil {
		utils.GetLogger().Error("failed to schedule auto-confirm",
			zap.String("bookingID", b.ID), zap.Error(err))
	}
}

func buildBooking(input models.BookingRequestInput, policy *models.TenantPolicy, svc *models.Service, occupied models.Interval, previousBookingID string, now time.Time) *models.Booking {
	status := models.StatusPending
	if policy.AutoApprove {
		status = models.StatusApproved
	}
	return &models.Booking{
		ID:                uuid.New().String(),
		TenantID:          input.TenantID,
		ClientID:          input.ClientID,
		ProviderID:        input.ProviderID,
		ServiceID:         input.ServiceID,
		StartsAt:          input.StartsAt,
		EndsAt:            svc.EndsAt(input.StartsAt),
		Status:            status,
		Price:             svc.Price,
		RequestID:         input.RequestID,
		OccupiedStart:     occupied.Start,
		OccupiedEnd:       occupied.End,
		PreviousBookingID: previousBookingID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// replayDecision reconstructs the decision for an idempotent retry from the
// booking's current state.
func replayDecision(b *models.Booking) *models.BookingDecision {
	kind := models.DecisionAccepted
	switch b.Status {
	case models.StatusRejected:
		kind = models.DecisionRejected
	case models.StatusSuggested:
		kind = models.DecisionSuggested
	}
	return &models.BookingDecision{Kind: kind, Booking: b, Replayed: true}
}

func checkInput(input models.BookingRequestInput) *ValidationFailure {
	switch {
	case input.TenantID == "", input.ClientID == "", input.ProviderID == "",
		input.ServiceID == "", input.RequestID == "", input.StartsAt.IsZero():
		return &ValidationFailure{Code: CodeInvalidInput, Message: "missing required booking fields"}
	}
	return nil
}

// indexWindow spans the whole tenant-local day of the candidate slot, padded
// by the occupied span so buffers crossing midnight stay visible.
func indexWindow(occupied models.Interval, timeZone string) (time.Time, time.Time) {
	loc := time.UTC
	if timeZone != "" {
		if l, err := time.LoadLocation(timeZone); err == nil {
			loc = l
		}
	}
	local := occupied.Start.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	pad := occupied.End.Sub(occupied.Start)
	return dayStart.Add(-pad), dayEnd.Add(pad)
}
