package booking

import (
	"context"
	"time"

	"appointo/models"
)

// suggestAlternatives probes candidate start times near the requested slot
// through the same validator that rejected it, so every returned alternative
// is independently bookable against the snapshot it was computed from. The
// search stays within the indexed day: forward from the requested start
// first, then earlier slots from the start of the day.
func (e *DefaultBookingEngine) suggestAlternatives(req models.BookingRequestInput, policy models.TenantPolicy, svc *models.Service, staff *models.Staff, index *AvailabilityIndex, now time.Time) []models.Interval {
	limit := e.suggestionLimit()
	step := e.suggestionStep()
	dayStart, dayEnd := localDayBounds(req.StartsAt, policy.TimeZone)

	var alts []models.Interval
	probeAt := func(start time.Time) bool {
		candidate := req
		candidate.StartsAt = start
		if ValidateSlot(candidate, policy, svc, staff, index, now) == nil {
			alts = append(alts, models.Interval{Start: start, End: svc.EndsAt(start)})
		}
		return len(alts) >= limit
	}

	for probe := req.StartsAt.Add(step); !svc.EndsAt(probe).After(dayEnd); probe = probe.Add(step) {
		if probeAt(probe) {
			return alts
		}
	}
	for probe := dayStart; probe.Before(req.StartsAt); probe = probe.Add(step) {
		if probeAt(probe) {
			return alts
		}
	}
	return alts
}

// DayAvailability lists the free bookable intervals for a staff member and
// service across one tenant-local day, by probing every step against the
// occupied-interval view. Slots blocked by policy (lead time, horizon) are
// excluded the same way a booking request would exclude them.
func (e *DefaultBookingEngine) DayAvailability(ctx context.Context, tenantID, providerID, serviceID string, day time.Time) ([]models.Interval, error) {
	policy, err := e.TenantRepo.GetPolicy(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	svc, err := e.ServiceRepo.GetByID(ctx, tenantID, serviceID)
	if err != nil {
		return nil, err
	}
	eligible, err := e.StaffRepo.IsEligible(ctx, tenantID, providerID, serviceID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, &ValidationFailure{
			Code:    CodeStaffNotQualified,
			Message: "staff member is not qualified for this service",
		}
	}

	dayStart, dayEnd := localDayBounds(day, policy.TimeZone)
	span := svc.OccupiedInterval(dayStart)
	pad := span.End.Sub(span.Start)
	index, err := e.buildIndexWithBudget(ctx, tenantID, providerID, dayStart.Add(-pad), dayEnd.Add(pad))
	if err != nil {
		return nil, err
	}

	now := e.now()
	step := e.suggestionStep()
	var free []models.Interval
	for probe := dayStart; !svc.EndsAt(probe).After(dayEnd); probe = probe.Add(step) {
		if WithinBookableWindow(*policy, now, probe) != nil {
			continue
		}
		if _, conflict := index.FirstOverlap(svc.OccupiedInterval(probe)); conflict {
			continue
		}
		free = append(free, models.Interval{Start: probe, End: svc.EndsAt(probe)})
	}
	return free, nil
}

func localDayBounds(t time.Time, timeZone string) (time.Time, time.Time) {
	loc := time.UTC
	if timeZone != "" {
		if l, err := time.LoadLocation(timeZone); err == nil {
			loc = l
		}
	}
	local := t.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return dayStart, dayStart.AddDate(0, 0, 1)
}
