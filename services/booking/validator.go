package booking

import (
	"fmt"
	"time"

	"appointo/models"
)

// ValidateSlot runs the static checks on a candidate booking, in order,
// short-circuiting on the first failure: tenant scoping, staff-service
// eligibility, tenant policy window, and overlap against the availability
// index. Pure given its inputs; no I/O happens here, which is what makes the
// same function reusable for next-available-slot probing.
func ValidateSlot(req models.BookingRequestInput, policy models.TenantPolicy, svc *models.Service, staff *models.Staff, index *AvailabilityIndex, now time.Time) *ValidationFailure {
	if svc.TenantID != req.TenantID || staff.TenantID != req.TenantID {
		return &ValidationFailure{
			Code:    CodeCrossTenant,
			Message: "service or staff belongs to another tenant",
		}
	}
	if !staff.OffersService(svc.ID) {
		return &ValidationFailure{
			Code:    CodeStaffNotQualified,
			Message: fmt.Sprintf("staff %s is not qualified for service %s", staff.ID, svc.ID),
		}
	}
	if vf := WithinBookableWindow(policy, now, req.StartsAt); vf != nil {
		return vf
	}
	occupied := svc.OccupiedInterval(req.StartsAt)
	if conflictID, ok := index.FirstOverlap(occupied); ok {
		return &ValidationFailure{
			Code:                 CodeSlotConflict,
			Message:              fmt.Sprintf("slot overlaps booking %s", conflictID),
			ConflictingBookingID: conflictID,
		}
	}
	return nil
}
