package booking

import (
	"fmt"
	"time"

	"appointo/models"
)

// WithinBookableWindow checks a candidate start against the tenant's lead
// time and advance-booking horizon. The lower bound is inclusive: a start
// exactly leadTimeMin from now is bookable. Pure; the violated bound is
// reported so callers can message too-soon and too-far differently.
func WithinBookableWindow(policy models.TenantPolicy, now, startsAt time.Time) *ValidationFailure {
	earliest := now.Add(time.Duration(policy.LeadTimeMin) * time.Minute)
	if startsAt.Before(earliest) {
		return &ValidationFailure{
			Code:    CodeTooSoon,
			Message: fmt.Sprintf("start is before the %d min lead time", policy.LeadTimeMin),
		}
	}
	latest := now.AddDate(0, 0, policy.MaxAdvanceDays)
	if startsAt.After(latest) {
		return &ValidationFailure{
			Code:    CodeTooFar,
			Message: fmt.Sprintf("start is beyond the %d day booking horizon", policy.MaxAdvanceDays),
		}
	}
	return nil
}
