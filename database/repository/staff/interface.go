package staffRepo

import (
	"context"

	"appointo/models"
)

// StaffRepository exposes staff records and the staff-service eligibility
// link.
type StaffRepository interface {
	GetByID(ctx context.Context, tenantID, staffID string) (*models.Staff, error)
	// IsEligible reports whether the staff member is qualified for the
	// service, without loading the whole staff document.
	IsEligible(ctx context.Context, tenantID, staffID, serviceID string) (bool, error)
}
