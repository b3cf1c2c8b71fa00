package tenantRepo

import (
	"context"

	"appointo/models"
)

// TenantRepository exposes tenant records and their scheduling policies.
type TenantRepository interface {
	GetByID(ctx context.Context, tenantID string) (*models.Tenant, error)
	// GetPolicy returns the scheduling policy slice for a tenant.
	GetPolicy(ctx context.Context, tenantID string) (*models.TenantPolicy, error)
}
